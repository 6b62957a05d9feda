package controller

import (
	"context"
	"sync"

	"github.com/itbasis/go-clock"
	"github.com/mi1knc0okies/CFB-Ready-Bot/db"
	"github.com/mi1knc0okies/CFB-Ready-Bot/discord"
	"github.com/mi1knc0okies/CFB-Ready-Bot/model"
	"github.com/mi1knc0okies/CFB-Ready-Bot/table"
	"golang.org/x/oauth2"
)

// C encapsulates business logic without worrying about any web layers
type C interface {
	// Setup registers or updates a server and the channel its table lives in.
	Setup(ctx context.Context, s *model.Server) error
	// Table renders the current status table for a server.
	Table(ctx context.Context, serverID int64) (string, error)

	CreateLeague(ctx context.Context, name, displayName string) (*model.League, error)
	AssignLeague(ctx context.Context, serverID int64, leagueName string) (*model.League, error)
	ListLeagues(ctx context.Context) ([]model.League, error)

	// AddUser creates the user if needed and adds them to the named leagues.
	AddUser(ctx context.Context, username string, leagues []string) (*MembershipUpdate, error)
	// AddUserToLeagues adds an existing user to the named leagues.
	AddUserToLeagues(ctx context.Context, username string, leagues []string) (*MembershipUpdate, error)
	// RemoveUserFromLeagues returns the league names the user was actually
	// removed from.
	RemoveUserFromLeagues(ctx context.Context, username string, leagues []string) ([]string, error)
	// DeleteUser permanently removes a user and all of their memberships.
	DeleteUser(ctx context.Context, username string) error
	UserInfo(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context, serverID int64) ([]string, error)
	UserForDiscordID(ctx context.Context, discordID int64) (*model.User, error)
	LinkDiscord(ctx context.Context, username string, discordID int64) error
	SetAdmin(ctx context.Context, username string, admin bool) error

	// Ready marks the user ready in each league and fires any auto-advance
	// the new statuses make eligible on the server.
	Ready(ctx context.Context, serverID int64, username string, leagues []string) (*StatusUpdate, error)
	Unready(ctx context.Context, serverID int64, username string, leagues []string) ([]string, error)
	SetStatus(ctx context.Context, serverID int64, username, leagueName, status string) error
	// Advance clears a league and moves the server to the next week without
	// checking readiness. Returns the league display name and the new week.
	Advance(ctx context.Context, serverID int64, leagueName string) (string, int, error)
	// SetWeek overrides the week counter without clearing any statuses.
	// Returns the league display name and the previous week.
	SetWeek(ctx context.Context, serverID int64, leagueName string, week int) (string, int, error)

	// LinkStart returns the discord authorization URL for a user who wants to
	// link their own account. LinkFinish completes the flow and returns the
	// linked username.
	LinkStart(username string) (string, error)
	LinkFinish(ctx context.Context, state, code string) (string, error)
}

// MembershipUpdate reports which leagues a membership change applied to and
// which names didn't match any league.
type MembershipUpdate struct {
	Added   []string
	Unknown []string
}

// StatusUpdate reports the leagues a ready call updated and the ones that
// auto-advanced because of it.
type StatusUpdate struct {
	Updated  []string
	Advanced []string
}

type controller struct {
	clock      clock.Clock
	db         db.DB
	messenger  discord.Client
	tables     *table.Generator
	linkConfig *oauth2.Config
	linkAPIURL string

	mu         sync.Mutex
	linkStates map[string]*linkState
}

func New(clock clock.Clock, db db.DB, messenger discord.Client, linkConfig *oauth2.Config) (C, error) {
	return newController(clock, db, messenger, linkConfig, discord.APIURL)
}

// NewForTest is like New but resolves linked discord identities against the
// given URL instead of the real discord API.
func NewForTest(clock clock.Clock, db db.DB, messenger discord.Client, linkConfig *oauth2.Config, linkAPIURL string) (C, error) {
	return newController(clock, db, messenger, linkConfig, linkAPIURL)
}

func newController(clock clock.Clock, db db.DB, messenger discord.Client, linkConfig *oauth2.Config, linkAPIURL string) (C, error) {
	c := &controller{
		clock:      clock,
		db:         db,
		messenger:  messenger,
		tables:     table.New(db),
		linkConfig: linkConfig,
		linkAPIURL: linkAPIURL,
		linkStates: make(map[string]*linkState),
	}
	return c, nil
}
