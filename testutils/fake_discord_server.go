package testutils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
)

// FakeDiscordServer stands in for the discord message API. It hands out
// incrementing message ids and remembers message content so tests can assert
// on what the bot posted.
type FakeDiscordServer struct {
	s *httptest.Server

	mu       sync.Mutex
	nextID   int64
	messages map[int64]map[int64]string // channel id -> message id -> content
}

// FakeDiscordUserID is the account id the fake identity endpoint reports.
const FakeDiscordUserID int64 = 99887766

func NewFakeDiscordServer() *FakeDiscordServer {
	f := &FakeDiscordServer{
		nextID:   1000,
		messages: make(map[int64]map[int64]string),
	}

	r := chi.NewRouter()
	r.Post("/channels/{channelID}/messages", f.sendHandler)
	r.Patch("/channels/{channelID}/messages/{messageID}", f.editHandler)
	r.Get("/users/@me", identityHandler)

	f.s = httptest.NewServer(r)
	return f
}

func (f *FakeDiscordServer) Close() {
	f.s.Close()
}

func (f *FakeDiscordServer) URL() string {
	return f.s.URL
}

// Message returns the current content of a message, if it exists.
func (f *FakeDiscordServer) Message(channelID, messageID int64) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	content, ok := f.messages[channelID][messageID]
	return content, ok
}

// MessageCount returns how many messages have been posted to a channel.
func (f *FakeDiscordServer) MessageCount(channelID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.messages[channelID])
}

// DeleteMessage drops a message, simulating a user deleting the table message
// out from under the bot.
func (f *FakeDiscordServer) DeleteMessage(channelID, messageID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.messages[channelID], messageID)
}

func (f *FakeDiscordServer) sendHandler(w http.ResponseWriter, r *http.Request) {
	channelID, content, ok := parseMessageRequest(w, r)
	if !ok {
		return
	}

	f.mu.Lock()
	f.nextID++
	id := f.nextID
	if f.messages[channelID] == nil {
		f.messages[channelID] = make(map[int64]string)
	}
	f.messages[channelID][id] = content
	f.mu.Unlock()

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"id": "%d"}`, id)
}

func (f *FakeDiscordServer) editHandler(w http.ResponseWriter, r *http.Request) {
	channelID, content, ok := parseMessageRequest(w, r)
	if !ok {
		return
	}
	messageID, err := strconv.ParseInt(chi.URLParam(r, "messageID"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.messages[channelID][messageID]; !exists {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	f.messages[channelID][messageID] = content

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"id": "%d"}`, messageID)
}

func identityHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"id": "%d"}`, FakeDiscordUserID)
}

func parseMessageRequest(w http.ResponseWriter, r *http.Request) (int64, string, bool) {
	channelID, err := strconv.ParseInt(chi.URLParam(r, "channelID"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return 0, "", false
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return 0, "", false
	}
	return channelID, body.Content, true
}
