package models

// Settings holds per-user preferences.
type Settings struct {
	Theme         string `json:"theme"`
	ReviewMode    string `json:"reviewMode"`
	DailyGoal     int    `json:"dailyGoal"`
	Notifications bool   `json:"notifications"`
	AutoPlay      bool   `json:"autoPlay"`
}

// DefaultSettings returns the preferences used before the user changes anything.
func DefaultSettings() Settings {
	return Settings{
		Theme:         "light",
		ReviewMode:    "flashcard",
		DailyGoal:     10,
		Notifications: true,
		AutoPlay:      false,
	}
}
