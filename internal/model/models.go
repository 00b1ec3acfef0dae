// Package model defines the data models for the tiny wins bot.
package model

import "time"

// User represents a Telegram user account.
type User struct {
	TelegramID  int64     `db:"telegram_id"`
	Username    string    `db:"username"`
	IsPro       bool      `db:"is_pro"`
	ActiveJarID *string   `db:"active_jar_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Jar is a named, user-owned grouping of wins.
type Jar struct {
	ID        string    `db:"id"`
	UserID    int64     `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// Win is a single logged positive moment. Wins are immutable once created:
// the surrounding system only inserts and deletes them, never updates text,
// mood or timestamp in place. Collections of wins are always handled newest
// first, matching the repository's ORDER BY created_at DESC.
type Win struct {
	ID        string    `db:"id"`
	UserID    int64     `db:"user_id"`
	JarID     *string   `db:"jar_id"`
	Text      string    `db:"text"`
	Mood      string    `db:"mood"`
	CreatedAt time.Time `db:"created_at"`
}

// MaxWinTextLen is the maximum length of a win's text in runes.
const MaxWinTextLen = 280

// DefaultJarName is used when a jar is created without an explicit name.
const DefaultJarName = "My Win Jar"

// Mood is one entry of the fixed mood palette.
type Mood struct {
	Emoji string
	Label string
}

// Moods is the fixed palette offered when logging a win.
func Moods() []Mood {
	return []Mood{
		{Emoji: "😊", Label: "Happy"},
		{Emoji: "🥳", Label: "Excited"},
		{Emoji: "😌", Label: "Peaceful"},
		{Emoji: "💪", Label: "Strong"},
		{Emoji: "🌟", Label: "Proud"},
		{Emoji: "🥰", Label: "Grateful"},
	}
}

// IsValidMood reports whether the emoji is part of the palette.
func IsValidMood(emoji string) bool {
	for _, m := range Moods() {
		if m.Emoji == emoji {
			return true
		}
	}
	return false
}
