package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/itbasis/go-clock"
	"github.com/mi1knc0okies/CFB-Ready-Bot/db/mockdb"
	"github.com/mi1knc0okies/CFB-Ready-Bot/discord"
	"github.com/mi1knc0okies/CFB-Ready-Bot/model"
	"github.com/stretchr/testify/mock"
)

// controllerWithMockDB builds a controller over a mock store for failure
// paths the container-backed tests can't induce.
func controllerWithMockDB(t *testing.T) (C, *mockdb.DB) {
	t.Helper()
	store := &mockdb.DB{}
	ctrl, err := NewForTest(clock.NewMock(), store, discord.NewForTest(""), nil, "")
	if err != nil {
		t.Fatalf("error creating controller: %v", err)
	}
	return ctrl, store
}

func TestReady_storeError(t *testing.T) {
	ctrl, store := controllerWithMockDB(t)
	storeErr := errors.New("connection refused")
	store.On("SetReadyStatus", mock.Anything, "alice", "rel", model.StatusReady).Return(storeErr)

	// A store failure surfaces to the caller and the advance check never runs.
	_, err := ctrl.Ready(context.Background(), 42, "Alice", []string{"rel"})
	if !errors.Is(err, storeErr) {
		t.Errorf("expected the store error, got: %v", err)
	}
	store.AssertNotCalled(t, "AutoAdvance", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestReady_autoAdvanceError(t *testing.T) {
	ctrl, store := controllerWithMockDB(t)
	storeErr := errors.New("connection refused")
	store.On("SetReadyStatus", mock.Anything, "alice", "rel", model.StatusReady).Return(nil)
	store.On("AutoAdvance", mock.Anything, int64(42)).Return(nil, storeErr)

	// When the advance check fails nothing gets published.
	_, err := ctrl.Ready(context.Background(), 42, "alice", []string{"rel"})
	if !errors.Is(err, storeErr) {
		t.Errorf("expected the store error, got: %v", err)
	}
	store.AssertNotCalled(t, "ListServersForLeagues", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestDeleteUser_storeError(t *testing.T) {
	ctrl, store := controllerWithMockDB(t)
	storeErr := errors.New("connection refused")
	store.On("GetUserLeagues", mock.Anything, "alice").Return([]model.UserLeague{{LeagueName: "rel"}}, nil)
	store.On("DeleteUser", mock.Anything, "alice").Return(storeErr)

	err := ctrl.DeleteUser(context.Background(), "alice")
	if !errors.Is(err, storeErr) {
		t.Errorf("expected the store error, got: %v", err)
	}
	store.AssertNotCalled(t, "ListServersForLeagues", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}
