package model

import (
	"strings"
	"time"
	"unicode"
)

type User struct {
	ID        int32
	Username  string
	DiscordID int64 // 0 when no discord account is linked
	IsAdmin   bool
	Created   time.Time
	Leagues   []UserLeague
}

// UserLeague is one league membership from the user's point of view.
type UserLeague struct {
	LeagueName  string
	DisplayName string
	Status      ReadyStatus
}

// Usernames are stored lowercase so that the same person referenced with
// different casing never creates a duplicate user.
func NormalizeUsername(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// TableName returns a username as rendered in the table: capitalized and
// truncated to six characters so it fits the name column. Truncation counts
// runes, not bytes, so non-ASCII usernames stay intact.
func TableName(username string) string {
	if username == "" {
		return ""
	}
	name := []rune(username)
	name[0] = unicode.ToUpper(name[0])
	if len(name) > 6 {
		name = name[:6]
	}
	return string(name)
}
