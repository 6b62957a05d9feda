package db

import (
	"context"

	"github.com/mi1knc0okies/CFB-Ready-Bot/model"
)

type DB interface {
	// Users are global. UpsertUser creates the user if needed and returns the
	// stored row either way.
	UpsertUser(ctx context.Context, username string) (*model.User, error)
	GetUser(ctx context.Context, username string) (*model.User, error)
	GetUserByDiscordID(ctx context.Context, discordID int64) (*model.User, error)
	LinkDiscordUser(ctx context.Context, username string, discordID int64) error
	SetUserAdmin(ctx context.Context, username string, admin bool) error
	// DeleteUser permanently removes the user and cascades to every league
	// membership.
	DeleteUser(ctx context.Context, username string) error
	// GetUserLeagues returns every league the user is a member of, ordered by
	// display name.
	GetUserLeagues(ctx context.Context, username string) ([]model.UserLeague, error)

	AddLeague(ctx context.Context, name, displayName string) (*model.League, error)
	GetLeague(ctx context.Context, name string) (*model.League, error)
	ListLeagues(ctx context.Context) ([]model.League, error)

	UpsertServer(ctx context.Context, s *model.Server) error
	GetServer(ctx context.Context, id int64) (*model.Server, error)
	// AssignLeague puts a league on a server's table starting at week 1.
	AssignLeague(ctx context.Context, serverID int64, leagueName string) (*model.League, error)
	SetTableMessageID(ctx context.Context, serverID, messageID int64) error
	SetStatusMessageID(ctx context.Context, serverID, messageID int64) error
	// ListServersForLeagues returns every configured server whose table shows
	// at least one of the named leagues. The main server is always included.
	ListServersForLeagues(ctx context.Context, leagueNames []string) ([]model.Server, error)

	// AddMemberships adds the user to each named league. Re-adding an existing
	// membership resets its status to not ready. Returns the league names that
	// were added and the ones that don't exist.
	AddMemberships(ctx context.Context, username string, leagueNames []string) (added, unknown []string, err error)
	RemoveMemberships(ctx context.Context, username string, leagueNames []string) (removed []string, err error)
	// SetReadyStatus updates the membership row and fails with ErrNotAMember
	// if the user is not in the league.
	SetReadyStatus(ctx context.Context, username, leagueName string, status model.ReadyStatus) error
	// GetReadyStatus returns ErrNotAMember when no membership row exists,
	// which is a different state from an empty (not ready) status.
	GetReadyStatus(ctx context.Context, username string, leagueID int32) (model.ReadyStatus, error)

	// GetServerLeagues returns the leagues visible on a server ordered by
	// display name. With aggregate set it returns every league assigned
	// anywhere, which is what the main server's table shows.
	GetServerLeagues(ctx context.Context, serverID int64, aggregate bool) ([]model.ServerLeague, error)
	// GetServerUsers returns the usernames visible on a server's table in
	// sorted order: members of the server's leagues, or every league member
	// anywhere when aggregate is set.
	GetServerUsers(ctx context.Context, serverID int64, aggregate bool) ([]string, error)
	// GetLeagueStatuses returns the status of every member of a league keyed
	// by username. A missing key means not a member.
	GetLeagueStatuses(ctx context.Context, leagueID int32) (map[string]model.ReadyStatus, error)

	// AutoAdvance checks every league assigned to the server and, for each one
	// where every member is ready, clears all statuses for the league and
	// increments the server's week counter in a single transaction. Returns
	// the display names of the leagues that advanced.
	AutoAdvance(ctx context.Context, serverID int64) ([]string, error)
	// AdvanceWeek clears a league's statuses and increments the server's week
	// counter regardless of readiness. Returns the display name and new week.
	AdvanceWeek(ctx context.Context, serverID int64, leagueName string) (string, int, error)
	// SetWeek rewrites the week counter without touching any statuses.
	// Returns the display name and the previous week.
	SetWeek(ctx context.Context, serverID int64, leagueName string, week int) (string, int, error)
}
