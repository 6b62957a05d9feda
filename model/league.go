package model

import (
	"strings"
	"time"
)

type League struct {
	ID          int32
	Name        string // unique lowercase identifier, e.g. "rel"
	DisplayName string // short display code, e.g. "REL"
	Created     time.Time
}

// ServerLeague is a league as assigned to one server, along with that
// server's current week counter for it.
type ServerLeague struct {
	League
	CurrentWeek int
}

func NormalizeLeagueName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DisplayCode returns the first three characters of the display name in
// upper case, which is what the table header shows.
func (l *League) DisplayCode() string {
	code := strings.ToUpper(l.DisplayName)
	if len(code) > 3 {
		code = code[:3]
	}
	return code
}

// LeagueReadiness summarizes how many members of a league are ready.
type LeagueReadiness struct {
	Total int
	Ready int
}

func (r LeagueReadiness) Percentage() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Ready) / float64(r.Total) * 100
}

// OverThreshold reports whether more than half of the league is ready. This
// only drives the table row filter, it never triggers a week advance.
func (r LeagueReadiness) OverThreshold() bool {
	return r.Percentage() > 50
}

// AllReady reports whether every member is ready, which is what triggers an
// automatic week advance.
func (r LeagueReadiness) AllReady() bool {
	return r.Total > 0 && r.Ready == r.Total
}
