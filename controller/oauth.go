package controller

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/mi1knc0okies/CFB-Ready-Bot/discord"
	"github.com/mi1knc0okies/CFB-Ready-Bot/model"
)

// linkState tracks one in-flight discord account link between the redirect to
// discord and the callback.
type linkState struct {
	username string
	expiry   time.Time
}

func (c *controller) LinkStart(username string) (string, error) {
	if c.linkConfig == nil {
		return "", errors.New("discord oauth client is not configured")
	}

	username = model.NormalizeUsername(username)
	if username == "" {
		return "", errors.New("username must be provided")
	}

	state := generateRandomState()
	c.mu.Lock()
	c.linkStates[state] = &linkState{
		username: username,
		expiry:   c.clock.Now().Add(5 * time.Minute),
	}
	c.mu.Unlock()

	return c.linkConfig.AuthCodeURL(state), nil
}

func (c *controller) LinkFinish(ctx context.Context, state, code string) (string, error) {
	if c.linkConfig == nil {
		return "", errors.New("discord oauth client is not configured")
	}

	c.mu.Lock()
	s, ok := c.linkStates[state]
	delete(c.linkStates, state)
	c.mu.Unlock()
	if !ok || c.clock.Now().After(s.expiry) {
		return "", errors.New("state parameter is not valid")
	}

	token, err := c.linkConfig.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("error exchanging code: %w", err)
	}

	discordID, err := discord.UserID(c.linkConfig.Client(ctx, token), c.linkAPIURL)
	if err != nil {
		return "", fmt.Errorf("error looking up discord identity: %w", err)
	}

	if err := c.db.LinkDiscordUser(ctx, s.username, discordID); err != nil {
		return "", err
	}
	return s.username, nil
}

func generateRandomState() string {
	var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	b := make([]rune, 15)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
