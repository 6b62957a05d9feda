package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/mi1knc0okies/CFB-Ready-Bot/model"
)

func (c *controller) AddUser(ctx context.Context, username string, leagues []string) (*MembershipUpdate, error) {
	username = model.NormalizeUsername(username)
	if username == "" {
		return nil, errors.New("username must be provided")
	}

	if _, err := c.db.UpsertUser(ctx, username); err != nil {
		return nil, err
	}

	return c.addMemberships(ctx, username, leagues)
}

func (c *controller) AddUserToLeagues(ctx context.Context, username string, leagues []string) (*MembershipUpdate, error) {
	username = model.NormalizeUsername(username)

	// Unlike AddUser this never creates the user.
	if _, err := c.db.GetUser(ctx, username); err != nil {
		return nil, err
	}

	return c.addMemberships(ctx, username, leagues)
}

func (c *controller) addMemberships(ctx context.Context, username string, leagues []string) (*MembershipUpdate, error) {
	names := normalizeLeagueNames(leagues)
	if len(names) == 0 {
		return nil, errors.New("at least one league must be provided")
	}

	added, unknown, err := c.db.AddMemberships(ctx, username, names)
	if err != nil {
		return nil, fmt.Errorf("error adding %s to leagues: %w", username, err)
	}

	if len(added) > 0 {
		c.publishUpdates(added, 0, "")
	}
	return &MembershipUpdate{Added: added, Unknown: unknown}, nil
}

func (c *controller) RemoveUserFromLeagues(ctx context.Context, username string, leagues []string) ([]string, error) {
	username = model.NormalizeUsername(username)
	names := normalizeLeagueNames(leagues)
	if len(names) == 0 {
		return nil, errors.New("at least one league must be provided")
	}

	removed, err := c.db.RemoveMemberships(ctx, username, names)
	if err != nil {
		return nil, err
	}

	if len(removed) > 0 {
		c.publishUpdates(removed, 0, "")
	}
	return removed, nil
}

func (c *controller) DeleteUser(ctx context.Context, username string) error {
	username = model.NormalizeUsername(username)

	// Capture the memberships first so the right tables get refreshed after
	// the cascade wipes them out.
	memberships, err := c.db.GetUserLeagues(ctx, username)
	if err != nil {
		return err
	}

	if err := c.db.DeleteUser(ctx, username); err != nil {
		return err
	}

	if len(memberships) > 0 {
		names := make([]string, 0, len(memberships))
		for _, m := range memberships {
			names = append(names, m.LeagueName)
		}
		c.publishUpdates(names, 0, "")
	}
	return nil
}

func (c *controller) UserInfo(ctx context.Context, username string) (*model.User, error) {
	username = model.NormalizeUsername(username)

	u, err := c.db.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}

	u.Leagues, err = c.db.GetUserLeagues(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error looking up leagues for %s: %w", username, err)
	}
	return u, nil
}

func (c *controller) ListUsers(ctx context.Context, serverID int64) ([]string, error) {
	return c.db.GetServerUsers(ctx, serverID, false)
}

func (c *controller) UserForDiscordID(ctx context.Context, discordID int64) (*model.User, error) {
	return c.db.GetUserByDiscordID(ctx, discordID)
}

func (c *controller) LinkDiscord(ctx context.Context, username string, discordID int64) error {
	return c.db.LinkDiscordUser(ctx, model.NormalizeUsername(username), discordID)
}

func (c *controller) SetAdmin(ctx context.Context, username string, admin bool) error {
	return c.db.SetUserAdmin(ctx, model.NormalizeUsername(username), admin)
}
