package models

import "errors"

// Sentinel errors shared by every layer. Wrap them with fmt.Errorf and test with errors.Is.
var (
	ErrDuplicate          = errors.New("word already in collection")
	ErrNotFound           = errors.New("not found")
	ErrEmptyCategory      = errors.New("no words in category")
	ErrServiceUnavailable = errors.New("dictionary service unavailable")
	ErrPersistence        = errors.New("persistence failure")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrUnauthenticated    = errors.New("not signed in")

	ErrNotRevealed   = errors.New("definition not revealed yet")
	ErrSessionActive = errors.New("a review session is already active")
	ErrNoSession     = errors.New("no active review session")
	ErrSessionClosed = errors.New("review session is closed")
)
