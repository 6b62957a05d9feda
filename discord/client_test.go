package discord

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// The testutils fake can't be used here without an import cycle, so these
// tests run against a minimal handler instead.
func fakeAPI(t *testing.T) (*httptest.Server, *map[string]string) {
	t.Helper()
	messages := make(map[string]string)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /channels/100/messages", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bot test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		messages["100/2001"] = "sent"
		w.Header().Add("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "2001"}`)
	})
	mux.HandleFunc("PATCH /channels/100/messages/2001", func(w http.ResponseWriter, r *http.Request) {
		messages["100/2001"] = "edited"
		w.Header().Add("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "2001"}`)
	})
	mux.HandleFunc("PATCH /channels/100/messages/9999", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("GET /users/@me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "424242"}`)
	})

	s := httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s, &messages
}

func TestSendAndEditMessage(t *testing.T) {
	s, messages := fakeAPI(t)
	c := NewForTest(s.URL)

	id, err := c.SendMessage(100, "hello")
	if err != nil {
		t.Fatalf("error sending message: %v", err)
	}
	if id != 2001 {
		t.Errorf("expected message id 2001, got: %d", id)
	}
	if (*messages)["100/2001"] != "sent" {
		t.Errorf("message was not recorded as sent")
	}

	if err := c.EditMessage(100, 2001, "updated"); err != nil {
		t.Fatalf("error editing message: %v", err)
	}
	if (*messages)["100/2001"] != "edited" {
		t.Errorf("message was not recorded as edited")
	}
}

func TestEditMessage_notFound(t *testing.T) {
	s, _ := fakeAPI(t)
	c := NewForTest(s.URL)

	err := c.EditMessage(100, 9999, "updated")
	if !errors.Is(err, ErrMessageNotFound) {
		t.Errorf("expected ErrMessageNotFound, got: %v", err)
	}
}

func TestNew_requiresToken(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Errorf("expected an error for a missing token")
	}
	if _, err := New("token"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUserID(t *testing.T) {
	s, _ := fakeAPI(t)

	id, err := UserID(http.DefaultClient, s.URL)
	if err != nil {
		t.Fatalf("error getting user id: %v", err)
	}
	if id != 424242 {
		t.Errorf("expected user id 424242, got: %d", id)
	}
}

func TestSendMessage_badStatus(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer s.Close()
	c := NewForTest(s.URL)

	_, err := c.SendMessage(100, "hello")
	if err == nil || !strings.Contains(err.Error(), "unexpected status code") {
		t.Errorf("expected a status code error, got: %v", err)
	}
}
