package table

import (
	"context"
	"fmt"
	"strings"

	"github.com/mi1knc0okies/CFB-Ready-Bot/model"
)

// Source is the slice of the database the generator reads. It is implemented
// by db.DB.
type Source interface {
	GetServerLeagues(ctx context.Context, serverID int64, aggregate bool) ([]model.ServerLeague, error)
	GetServerUsers(ctx context.Context, serverID int64, aggregate bool) ([]string, error)
	GetLeagueStatuses(ctx context.Context, leagueID int32) (map[string]model.ReadyStatus, error)
}

const (
	nameWidth   = 8 // name column total width
	leagueWidth = 4 // league column total width, a 3 char code plus padding
)

const footnote = "\n*Leagues over 50% ready - showing only non-ready players"

type Generator struct {
	db Source
}

func New(db Source) *Generator {
	return &Generator{db: db}
}

// Generate renders the status table for one server as a monospace grid inside
// a code fence. With aggregate set it renders the main server's view: every
// league and user everywhere, and an 'X' cell for users who are not in a
// league at all. Output is deterministic: leagues are ordered by display name
// and users by username.
func (g *Generator) Generate(ctx context.Context, serverID int64, aggregate bool) (string, error) {
	leagues, err := g.db.GetServerLeagues(ctx, serverID, aggregate)
	if err != nil {
		return "", fmt.Errorf("error loading leagues for table: %w", err)
	}
	if len(leagues) == 0 {
		return "```\nNo leagues configured.\n```", nil
	}

	users, err := g.db.GetServerUsers(ctx, serverID, aggregate)
	if err != nil {
		return "", fmt.Errorf("error loading users for table: %w", err)
	}

	statuses := make([]map[string]model.ReadyStatus, len(leagues))
	readiness := make([]model.LeagueReadiness, len(leagues))
	for i, l := range leagues {
		m, err := g.db.GetLeagueStatuses(ctx, l.ID)
		if err != nil {
			return "", fmt.Errorf("error loading statuses for table: %w", err)
		}
		statuses[i] = m

		var r model.LeagueReadiness
		for _, u := range users {
			s, member := m[u]
			if !member {
				continue
			}
			r.Total++
			if s.IsReady() {
				r.Ready++
			}
		}
		readiness[i] = r
	}

	anyOver := false
	for _, r := range readiness {
		if r.OverThreshold() {
			anyOver = true
			break
		}
	}

	// Once any league is past the half-ready mark the table stops showing
	// rows for users with nothing outstanding: a user stays visible only with
	// a non-ready status in an over-threshold league, or plain membership in
	// an under-threshold one.
	visible := users
	if anyOver {
		visible = make([]string, 0, len(users))
		for _, u := range users {
			show := false
			for i := range leagues {
				s, member := statuses[i][u]
				if !member {
					continue
				}
				if !readiness[i].OverThreshold() || !s.IsReady() {
					show = true
					break
				}
			}
			if show {
				visible = append(visible, u)
			}
		}
	}

	var b strings.Builder
	b.WriteString("```\n")

	border := borderRow(len(leagues))
	b.WriteString(border)

	b.WriteString("|" + center("Name", nameWidth) + "|")
	for i := range leagues {
		b.WriteString(center(leagues[i].DisplayCode(), leagueWidth) + "|")
	}
	b.WriteString("\n")

	b.WriteString("|" + center("Week", nameWidth) + "|")
	for i := range leagues {
		b.WriteString(center(fmt.Sprintf("W%d", leagues[i].CurrentWeek), leagueWidth) + "|")
	}
	b.WriteString("\n")

	b.WriteString("|" + center("Ready", nameWidth) + "|")
	for i := range leagues {
		b.WriteString(center(fmt.Sprintf("%.0f%%", readiness[i].Percentage()), leagueWidth) + "|")
	}
	b.WriteString("\n")

	b.WriteString(border)

	if len(visible) == 0 {
		b.WriteString("|" + center("All Ready!", nameWidth) + "|")
		for range leagues {
			b.WriteString(center(" ", leagueWidth) + "|")
		}
		b.WriteString("\n")
		b.WriteString(border)
	} else {
		for _, u := range visible {
			b.WriteString("|" + center(model.TableName(u), nameWidth) + "|")
			for i := range leagues {
				s, member := statuses[i][u]
				var cell string
				switch {
				case member:
					cell = s.Display()
				case aggregate:
					cell = "X"
				default:
					cell = " "
				}
				b.WriteString(center(cell, leagueWidth) + "|")
			}
			b.WriteString("\n")
			b.WriteString(border)
		}
	}

	if anyOver {
		b.WriteString(footnote)
	}
	b.WriteString("```")

	return b.String(), nil
}

func borderRow(numLeagues int) string {
	var b strings.Builder
	b.WriteString("+" + strings.Repeat("-", nameWidth) + "+")
	for i := 0; i < numLeagues; i++ {
		b.WriteString(strings.Repeat("-", leagueWidth) + "+")
	}
	b.WriteString("\n")
	return b.String()
}

// center pads s to width with the extra space, if any, on the right. Strings
// already at or past the width are returned unchanged.
func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
