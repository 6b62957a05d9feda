package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mi1knc0okies/CFB-Ready-Bot/db"
	"github.com/mi1knc0okies/CFB-Ready-Bot/model"
)

func (c *controller) Setup(ctx context.Context, s *model.Server) error {
	if s.ID == 0 {
		return errors.New("server id must be provided")
	}
	if s.ChannelID == 0 {
		return errors.New("a channel for the table must be provided")
	}

	if err := c.db.UpsertServer(ctx, s); err != nil {
		return err
	}

	c.publishServer(s.ID)
	return nil
}

func (c *controller) Table(ctx context.Context, serverID int64) (string, error) {
	// A server that never ran setup still gets a table, just never the
	// aggregate view.
	aggregate := false
	s, err := c.db.GetServer(ctx, serverID)
	if err == nil {
		aggregate = s.IsMain
	} else if !errors.Is(err, db.ErrServerNotFound) {
		return "", err
	}

	return c.tables.Generate(ctx, serverID, aggregate)
}

func (c *controller) CreateLeague(ctx context.Context, name, displayName string) (*model.League, error) {
	name = model.NormalizeLeagueName(name)
	if name == "" {
		return nil, errors.New("league name must be provided")
	}

	displayName = strings.ToUpper(strings.TrimSpace(displayName))
	if displayName == "" {
		return nil, errors.New("league display name must be provided")
	}

	return c.db.AddLeague(ctx, name, displayName)
}

func (c *controller) AssignLeague(ctx context.Context, serverID int64, leagueName string) (*model.League, error) {
	l, err := c.db.AssignLeague(ctx, serverID, model.NormalizeLeagueName(leagueName))
	if err != nil {
		return nil, err
	}

	c.publishServer(serverID)
	return l, nil
}

func (c *controller) ListLeagues(ctx context.Context) ([]model.League, error) {
	return c.db.ListLeagues(ctx)
}

func (c *controller) Advance(ctx context.Context, serverID int64, leagueName string) (string, int, error) {
	display, week, err := c.db.AdvanceWeek(ctx, serverID, model.NormalizeLeagueName(leagueName))
	if err != nil {
		return "", 0, err
	}

	now := c.clock.Now().In(easternTime())
	msg := fmt.Sprintf("🏈 **%s Week %d** advanced on %s at %s",
		display, week, now.Format("Monday"), now.Format("3:04 PM"))
	c.publishUpdates([]string{model.NormalizeLeagueName(leagueName)}, serverID, msg)

	return display, week, nil
}

func (c *controller) SetWeek(ctx context.Context, serverID int64, leagueName string, week int) (string, int, error) {
	if week < 1 {
		return "", 0, errors.New("week must be 1 or greater")
	}

	display, oldWeek, err := c.db.SetWeek(ctx, serverID, model.NormalizeLeagueName(leagueName), week)
	if err != nil {
		return "", 0, err
	}

	c.publishUpdates([]string{model.NormalizeLeagueName(leagueName)}, serverID, "")
	return display, oldWeek, nil
}

func easternTime() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return loc
}

func normalizeLeagueNames(leagues []string) []string {
	names := make([]string, 0, len(leagues))
	for _, l := range leagues {
		if name := model.NormalizeLeagueName(l); name != "" {
			names = append(names, name)
		}
	}
	return names
}
