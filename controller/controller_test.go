package controller

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mi1knc0okies/CFB-Ready-Bot/discord"
	"github.com/mi1knc0okies/CFB-Ready-Bot/model"
	"github.com/mi1knc0okies/CFB-Ready-Bot/testutils"
)

// A global testDB instance to use for all of the tests instead of setting up a new one each time.
var testDB *testutils.TestDB

// a counter used to keep usernames, league names, and server ids unique
// across tests.
var idCtr = int32(0)

// TestMain controls the main for the tests and allows for setup and shutdown of the tests
func TestMain(m *testing.M) {
	defer func() {
		// Catch all panics to make sure the shutdown is successfully run
		if r := recover(); r != nil {
			if testDB != nil {
				testDB.Shutdown()
			}
			fmt.Printf("panic - %v\n", r)
		}
	}()

	// Setup the global testDB variable
	testDB = testutils.NewTestDB()
	defer testDB.Shutdown()
	code := m.Run()
	os.Exit(code)
}

func controllerForTest(t *testing.T) (C, *testutils.TestController) {
	t.Helper()
	testCtrl := testutils.NewTestController(testDB)
	messenger := discord.NewForTest(testCtrl.DiscordURL())

	ctrl, err := NewForTest(testCtrl.Clock, testDB.DB, messenger, testCtrl.LinkConfig, testCtrl.DiscordURL())
	if err != nil {
		t.Fatalf("error creating controller: %v", err)
	}
	return ctrl, testCtrl
}

func nextID() int32 {
	return atomic.AddInt32(&idCtr, 1)
}

func newUsername() string {
	return fmt.Sprintf("ctrluser%d", nextID())
}

func newLeagueName() string {
	return fmt.Sprintf("ctrlleague%d", nextID())
}

func newServerID() int64 {
	return int64(900000 + nextID())
}

func newChannelID() int64 {
	return int64(800000 + nextID())
}

// serverWithLeague sets up a fresh server with one newly created league
// assigned to it.
func serverWithLeague(t *testing.T, ctrl C, display string) (*model.Server, string) {
	t.Helper()
	ctx := context.Background()

	s := &model.Server{ID: newServerID(), Name: "test server", ChannelID: newChannelID()}
	if err := ctrl.Setup(ctx, s); err != nil {
		t.Fatalf("error setting up server: %v", err)
	}

	name := newLeagueName()
	if _, err := ctrl.CreateLeague(ctx, name, display); err != nil {
		t.Fatalf("error creating league: %v", err)
	}
	if _, err := ctrl.AssignLeague(ctx, s.ID, name); err != nil {
		t.Fatalf("error assigning league: %v", err)
	}
	return s, name
}

// waitFor polls for a condition that a detached publish goroutine will make
// true shortly after the triggering call returns.
func waitFor(t *testing.T, msg string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}
