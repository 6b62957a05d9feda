package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"github.com/mi1knc0okies/CFB-Ready-Bot/db"
	"github.com/mi1knc0okies/CFB-Ready-Bot/discord"
	"github.com/mi1knc0okies/CFB-Ready-Bot/model"
)

// publishTimeout bounds the detached table refresh work.
const publishTimeout = 30 * time.Second

func (c *controller) Ready(ctx context.Context, serverID int64, username string, leagues []string) (*StatusUpdate, error) {
	username = model.NormalizeUsername(username)
	names := normalizeLeagueNames(leagues)
	if len(names) == 0 {
		return nil, errors.New("at least one league must be provided")
	}

	updated := make([]string, 0, len(names))
	for _, name := range names {
		err := c.db.SetReadyStatus(ctx, username, name, model.StatusReady)
		if err != nil {
			if errors.Is(err, db.ErrNotAMember) {
				continue
			}
			return nil, err
		}
		updated = append(updated, name)
	}
	if len(updated) == 0 {
		return nil, fmt.Errorf("%s is not a member of any of those leagues", username)
	}

	// The readiness check and the clear-and-increment run as one store
	// transaction, so a racing second "last ready" call can never advance the
	// same league twice.
	advanced, err := c.db.AutoAdvance(ctx, serverID)
	if err != nil {
		return nil, err
	}

	var announcement string
	if len(advanced) > 0 {
		lines := make([]string, 0, len(advanced))
		for _, display := range advanced {
			lines = append(lines, fmt.Sprintf("🚀 **%s auto-advanced!** All players were ready.", display))
		}
		announcement = strings.Join(lines, "\n")
	} else {
		announcement = fmt.Sprintf("✅ **%s** marked ready for: %s", capitalize(username), strings.Join(updated, ", "))
	}
	c.publishUpdates(updated, serverID, announcement)

	return &StatusUpdate{Updated: updated, Advanced: advanced}, nil
}

func (c *controller) Unready(ctx context.Context, serverID int64, username string, leagues []string) ([]string, error) {
	username = model.NormalizeUsername(username)
	names := normalizeLeagueNames(leagues)
	if len(names) == 0 {
		return nil, errors.New("at least one league must be provided")
	}

	updated := make([]string, 0, len(names))
	for _, name := range names {
		err := c.db.SetReadyStatus(ctx, username, name, model.StatusNotReady)
		if err != nil {
			if errors.Is(err, db.ErrNotAMember) {
				continue
			}
			return nil, err
		}
		updated = append(updated, name)
	}
	if len(updated) == 0 {
		return nil, fmt.Errorf("%s is not a member of any of those leagues", username)
	}

	announcement := fmt.Sprintf("❌ **%s** marked not ready for: %s", capitalize(username), strings.Join(updated, ", "))
	c.publishUpdates(updated, serverID, announcement)

	return updated, nil
}

func (c *controller) SetStatus(ctx context.Context, serverID int64, username, leagueName, status string) error {
	username = model.NormalizeUsername(username)
	leagueName = model.NormalizeLeagueName(leagueName)

	// Reject malformed statuses before touching the store.
	parsed, err := model.ParseStatus(status)
	if err != nil {
		return err
	}

	if err := c.db.SetReadyStatus(ctx, username, leagueName, parsed); err != nil {
		return err
	}

	c.publishUpdates([]string{leagueName}, serverID, "")
	return nil
}

// publishUpdates regenerates the table on every server that shows one of the
// leagues and posts the announcement, if any, on the triggering server. It
// runs detached from the request because a publish failure must never roll
// back the state change that caused it. Display lag is acceptable, state
// corruption is not.
func (c *controller) publishUpdates(leagues []string, serverID int64, announcement string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := c.publish(ctx, leagues, serverID, announcement); err != nil {
			log.Printf("error publishing table updates: %v", err)
		}
	}()
}

// publishServer refreshes a single server's table, detached like
// publishUpdates.
func (c *controller) publishServer(serverID int64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		s, err := c.db.GetServer(ctx, serverID)
		if err != nil {
			log.Printf("error loading server %d for table refresh: %v", serverID, err)
			return
		}
		if err := c.publishTable(ctx, s); err != nil {
			log.Printf("error updating table on server %d: %v", serverID, err)
		}
	}()
}

func (c *controller) publish(ctx context.Context, leagues []string, serverID int64, announcement string) error {
	servers, err := c.db.ListServersForLeagues(ctx, leagues)
	if err != nil {
		return fmt.Errorf("error finding servers to refresh: %w", err)
	}

	for i := range servers {
		// A failure on one server shouldn't stop the refresh of the others.
		if err := c.publishTable(ctx, &servers[i]); err != nil {
			log.Printf("error updating table on server %d: %v", servers[i].ID, err)
		}
	}

	if announcement != "" {
		if err := c.announce(ctx, serverID, announcement); err != nil {
			log.Printf("error posting announcement on server %d: %v", serverID, err)
		}
	}
	return nil
}

func (c *controller) publishTable(ctx context.Context, s *model.Server) error {
	if s.ChannelID == 0 {
		return nil
	}

	text, err := c.tables.Generate(ctx, s.ID, s.IsMain)
	if err != nil {
		return err
	}

	if s.TableMessageID != 0 {
		err := c.messenger.EditMessage(s.ChannelID, s.TableMessageID, text)
		if err == nil {
			return nil
		}
		if !errors.Is(err, discord.ErrMessageNotFound) {
			return err
		}
		// The old table message was deleted, post a fresh one.
	}

	id, err := c.messenger.SendMessage(s.ChannelID, text)
	if err != nil {
		return err
	}
	return c.db.SetTableMessageID(ctx, s.ID, id)
}

func (c *controller) announce(ctx context.Context, serverID int64, text string) error {
	s, err := c.db.GetServer(ctx, serverID)
	if err != nil {
		return err
	}
	if s.ChannelID == 0 {
		return nil
	}

	id, err := c.messenger.SendMessage(s.ChannelID, text)
	if err != nil {
		return err
	}
	return c.db.SetStatusMessageID(ctx, s.ID, id)
}

func capitalize(username string) string {
	if username == "" {
		return ""
	}
	r := []rune(username)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
