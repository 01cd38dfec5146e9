// Package auth signs users in and issues the session tokens that prove it.
package auth

import (
	"context"
	"math/rand"
	"time"

	"github.com/example/wordwise/pkg/models"
)

// Provider obtains the identity of the person using the app.
type Provider interface {
	Login(ctx context.Context) (models.Identity, error)
	Logout(ctx context.Context) error
}

var mockUsers = []models.Identity{
	{
		ID:      "1",
		Name:    "John Doe",
		Email:   "john.doe@gmail.com",
		Picture: "https://api.dicebear.com/7.x/avataaars/svg?seed=John",
	},
	{
		ID:      "2",
		Name:    "Jane Smith",
		Email:   "jane.smith@gmail.com",
		Picture: "https://api.dicebear.com/7.x/avataaars/svg?seed=Jane",
	},
}

// MockProvider signs in as one of two fixed development users.
type MockProvider struct {
	rng interface{ Intn(n int) int }
}

// NewMockProvider picks users with rng; nil seeds one from the clock.
func NewMockProvider(rng *rand.Rand) *MockProvider {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MockProvider{rng: rng}
}

func (p *MockProvider) Login(context.Context) (models.Identity, error) {
	return mockUsers[p.rng.Intn(len(mockUsers))], nil
}

func (p *MockProvider) Logout(context.Context) error {
	return nil
}
