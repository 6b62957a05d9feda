package discord

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const APIURL = "https://discord.com/api/v10"

var ErrMessageNotFound error = errors.New("message not found")

// Client is the messaging side of the bot: posting and editing the table and
// status messages in a server's channel.
type Client interface {
	SendMessage(channelID int64, content string) (int64, error)
	EditMessage(channelID, messageID int64, content string) error
}

type client struct {
	url        string
	token      string
	httpClient *http.Client
}

func New(token string) (Client, error) {
	if token == "" {
		return nil, errors.New("discord bot token must be provided")
	}
	c := &client{
		url:   APIURL,
		token: token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	return c, nil
}

func NewForTest(url string) Client {
	return &client{
		url:   url,
		token: "test-token",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Discord sends and returns ids as strings in JSON because they overflow
// javascript numbers.
type message struct {
	ID string `json:"id"`
}

func (c *client) SendMessage(channelID int64, content string) (int64, error) {
	url := fmt.Sprintf("%s/channels/%d/messages", c.url, channelID)
	resp, err := c.do(http.MethodPost, url, content)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var m message
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return 0, fmt.Errorf("error parsing response from discord: %w", err)
	}

	id, err := strconv.ParseInt(m.ID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing message id %q: %w", m.ID, err)
	}
	return id, nil
}

func (c *client) EditMessage(channelID, messageID int64, content string) error {
	url := fmt.Sprintf("%s/channels/%d/messages/%d", c.url, channelID, messageID)
	resp, err := c.do(http.MethodPatch, url, content)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrMessageNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

func (c *client) do(method, url, content string) (*http.Response, error) {
	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return nil, fmt.Errorf("error encoding message body: %w", err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating http request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending http request: %w", err)
	}
	return resp, nil
}

// UserID returns the discord account id the given http client is authorized
// as. The account linking flow calls this with an oauth2 client after the
// user approves the identify scope.
func UserID(httpClient *http.Client, baseURL string) (int64, error) {
	resp, err := httpClient.Get(baseURL + "/users/@me")
	if err != nil {
		return 0, fmt.Errorf("error fetching discord identity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var m message
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return 0, fmt.Errorf("error parsing identity response: %w", err)
	}
	return strconv.ParseInt(m.ID, 10, 64)
}
