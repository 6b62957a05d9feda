package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/mi1knc0okies/CFB-Ready-Bot/db"
	"github.com/mi1knc0okies/CFB-Ready-Bot/testutils"
)

func TestAddUser(t *testing.T) {
	ctx := context.Background()
	ctrl, testCtrl := controllerForTest(t)
	defer testCtrl.Close()

	username := newUsername()
	update, err := ctrl.AddUser(ctx, username, []string{testutils.LeagueREL.Name, "no-such-league"})
	if err != nil {
		t.Fatalf("error adding user: %v", err)
	}
	if len(update.Added) != 1 || update.Added[0] != testutils.LeagueREL.Name {
		t.Errorf("unexpected added leagues: %v", update.Added)
	}
	if len(update.Unknown) != 1 || update.Unknown[0] != "no-such-league" {
		t.Errorf("unexpected unknown leagues: %v", update.Unknown)
	}

	// Usernames are case insensitive.
	info, err := ctrl.UserInfo(ctx, "  "+username+"  ")
	if err != nil {
		t.Fatalf("error getting user info: %v", err)
	}
	if info.Username != username {
		t.Errorf("expected username '%s', got: '%s'", username, info.Username)
	}
	if len(info.Leagues) != 1 || info.Leagues[0].LeagueName != testutils.LeagueREL.Name {
		t.Errorf("unexpected user leagues: %v", info.Leagues)
	}

	if _, err := ctrl.AddUser(ctx, " ", []string{testutils.LeagueREL.Name}); err == nil {
		t.Errorf("expected an error for an empty username")
	}
	if _, err := ctrl.AddUser(ctx, newUsername(), nil); err == nil {
		t.Errorf("expected an error for no leagues")
	}
}

func TestAddUserToLeagues(t *testing.T) {
	ctx := context.Background()
	ctrl, testCtrl := controllerForTest(t)
	defer testCtrl.Close()

	// Unlike AddUser this never creates the user.
	_, err := ctrl.AddUserToLeagues(ctx, newUsername(), []string{testutils.LeagueREL.Name})
	if !errors.Is(err, db.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got: %v", err)
	}

	username := newUsername()
	if _, err := ctrl.AddUser(ctx, username, []string{testutils.LeagueREL.Name}); err != nil {
		t.Fatalf("error adding user: %v", err)
	}

	update, err := ctrl.AddUserToLeagues(ctx, username, []string{testutils.LeagueD2.Name})
	if err != nil {
		t.Fatalf("error adding user to league: %v", err)
	}
	if len(update.Added) != 1 || update.Added[0] != testutils.LeagueD2.Name {
		t.Errorf("unexpected added leagues: %v", update.Added)
	}

	info, err := ctrl.UserInfo(ctx, username)
	if err != nil {
		t.Fatalf("error getting user info: %v", err)
	}
	if len(info.Leagues) != 2 {
		t.Errorf("expected 2 leagues, got: %d", len(info.Leagues))
	}
}

func TestRemoveAndDeleteUser(t *testing.T) {
	ctx := context.Background()
	ctrl, testCtrl := controllerForTest(t)
	defer testCtrl.Close()

	username := newUsername()
	leagues := []string{testutils.LeagueREL.Name, testutils.LeagueD2.Name}
	if _, err := ctrl.AddUser(ctx, username, leagues); err != nil {
		t.Fatalf("error adding user: %v", err)
	}

	removed, err := ctrl.RemoveUserFromLeagues(ctx, username, []string{testutils.LeagueD2.Name, testutils.LeagueD3.Name})
	if err != nil {
		t.Fatalf("error removing user from leagues: %v", err)
	}
	// Only the membership that existed is reported as removed.
	if len(removed) != 1 || removed[0] != testutils.LeagueD2.Name {
		t.Errorf("unexpected removed leagues: %v", removed)
	}

	if err := ctrl.DeleteUser(ctx, username); err != nil {
		t.Fatalf("error deleting user: %v", err)
	}
	if _, err := ctrl.UserInfo(ctx, username); !errors.Is(err, db.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound after delete, got: %v", err)
	}
}

func TestLinkDiscordAndAdmin(t *testing.T) {
	ctx := context.Background()
	ctrl, testCtrl := controllerForTest(t)
	defer testCtrl.Close()

	username := newUsername()
	if _, err := ctrl.AddUser(ctx, username, []string{testutils.LeagueREL.Name}); err != nil {
		t.Fatalf("error adding user: %v", err)
	}

	discordID := int64(600000) + int64(nextID())
	if err := ctrl.LinkDiscord(ctx, username, discordID); err != nil {
		t.Fatalf("error linking discord id: %v", err)
	}

	u, err := ctrl.UserForDiscordID(ctx, discordID)
	if err != nil {
		t.Fatalf("error looking up user by discord id: %v", err)
	}
	if u.Username != username {
		t.Errorf("expected username '%s', got: '%s'", username, u.Username)
	}

	if err := ctrl.SetAdmin(ctx, username, true); err != nil {
		t.Fatalf("error setting admin: %v", err)
	}
	info, err := ctrl.UserInfo(ctx, username)
	if err != nil {
		t.Fatalf("error getting user info: %v", err)
	}
	if !info.IsAdmin {
		t.Errorf("expected user to be an admin")
	}
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	ctrl, testCtrl := controllerForTest(t)
	defer testCtrl.Close()

	s, leagueName := serverWithLeague(t, ctrl, "lst")

	member := newUsername()
	if _, err := ctrl.AddUser(ctx, member, []string{leagueName}); err != nil {
		t.Fatalf("error adding user: %v", err)
	}
	outsider := newUsername()
	if _, err := ctrl.AddUser(ctx, outsider, []string{testutils.LeagueD3.Name}); err != nil {
		t.Fatalf("error adding user: %v", err)
	}

	users, err := ctrl.ListUsers(ctx, s.ID)
	if err != nil {
		t.Fatalf("error listing users: %v", err)
	}
	if len(users) != 1 || users[0] != member {
		t.Errorf("unexpected server users: %v", users)
	}
}
