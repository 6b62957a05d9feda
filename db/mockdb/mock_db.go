package mockdb

import (
	"context"

	"github.com/mi1knc0okies/CFB-Ready-Bot/model"
	"github.com/stretchr/testify/mock"
)

type DB struct {
	mock.Mock
}

func (db *DB) UpsertUser(ctx context.Context, username string) (*model.User, error) {
	args := db.Called(ctx, username)

	var u *model.User
	if args.Get(0) != nil {
		u = args.Get(0).(*model.User)
	}
	return u, args.Error(1)
}

func (db *DB) GetUser(ctx context.Context, username string) (*model.User, error) {
	args := db.Called(ctx, username)

	var u *model.User
	if args.Get(0) != nil {
		u = args.Get(0).(*model.User)
	}
	return u, args.Error(1)
}

func (db *DB) GetUserByDiscordID(ctx context.Context, discordID int64) (*model.User, error) {
	args := db.Called(ctx, discordID)

	var u *model.User
	if args.Get(0) != nil {
		u = args.Get(0).(*model.User)
	}
	return u, args.Error(1)
}

func (db *DB) LinkDiscordUser(ctx context.Context, username string, discordID int64) error {
	args := db.Called(ctx, username, discordID)
	return args.Error(0)
}

func (db *DB) SetUserAdmin(ctx context.Context, username string, admin bool) error {
	args := db.Called(ctx, username, admin)
	return args.Error(0)
}

func (db *DB) DeleteUser(ctx context.Context, username string) error {
	args := db.Called(ctx, username)
	return args.Error(0)
}

func (db *DB) GetUserLeagues(ctx context.Context, username string) ([]model.UserLeague, error) {
	args := db.Called(ctx, username)

	var l []model.UserLeague
	if args.Get(0) != nil {
		l = args.Get(0).([]model.UserLeague)
	}
	return l, args.Error(1)
}

func (db *DB) AddLeague(ctx context.Context, name, displayName string) (*model.League, error) {
	args := db.Called(ctx, name, displayName)

	var l *model.League
	if args.Get(0) != nil {
		l = args.Get(0).(*model.League)
	}
	return l, args.Error(1)
}

func (db *DB) GetLeague(ctx context.Context, name string) (*model.League, error) {
	args := db.Called(ctx, name)

	var l *model.League
	if args.Get(0) != nil {
		l = args.Get(0).(*model.League)
	}
	return l, args.Error(1)
}

func (db *DB) ListLeagues(ctx context.Context) ([]model.League, error) {
	args := db.Called(ctx)

	var l []model.League
	if args.Get(0) != nil {
		l = args.Get(0).([]model.League)
	}
	return l, args.Error(1)
}

func (db *DB) UpsertServer(ctx context.Context, s *model.Server) error {
	args := db.Called(ctx, s)
	return args.Error(0)
}

func (db *DB) GetServer(ctx context.Context, id int64) (*model.Server, error) {
	args := db.Called(ctx, id)

	var s *model.Server
	if args.Get(0) != nil {
		s = args.Get(0).(*model.Server)
	}
	return s, args.Error(1)
}

func (db *DB) AssignLeague(ctx context.Context, serverID int64, leagueName string) (*model.League, error) {
	args := db.Called(ctx, serverID, leagueName)

	var l *model.League
	if args.Get(0) != nil {
		l = args.Get(0).(*model.League)
	}
	return l, args.Error(1)
}

func (db *DB) SetTableMessageID(ctx context.Context, serverID, messageID int64) error {
	args := db.Called(ctx, serverID, messageID)
	return args.Error(0)
}

func (db *DB) SetStatusMessageID(ctx context.Context, serverID, messageID int64) error {
	args := db.Called(ctx, serverID, messageID)
	return args.Error(0)
}

func (db *DB) ListServersForLeagues(ctx context.Context, leagueNames []string) ([]model.Server, error) {
	args := db.Called(ctx, leagueNames)

	var s []model.Server
	if args.Get(0) != nil {
		s = args.Get(0).([]model.Server)
	}
	return s, args.Error(1)
}

func (db *DB) AddMemberships(ctx context.Context, username string, leagueNames []string) ([]string, []string, error) {
	args := db.Called(ctx, username, leagueNames)

	var added, unknown []string
	if args.Get(0) != nil {
		added = args.Get(0).([]string)
	}
	if args.Get(1) != nil {
		unknown = args.Get(1).([]string)
	}
	return added, unknown, args.Error(2)
}

func (db *DB) RemoveMemberships(ctx context.Context, username string, leagueNames []string) ([]string, error) {
	args := db.Called(ctx, username, leagueNames)

	var removed []string
	if args.Get(0) != nil {
		removed = args.Get(0).([]string)
	}
	return removed, args.Error(1)
}

func (db *DB) SetReadyStatus(ctx context.Context, username, leagueName string, status model.ReadyStatus) error {
	args := db.Called(ctx, username, leagueName, status)
	return args.Error(0)
}

func (db *DB) GetReadyStatus(ctx context.Context, username string, leagueID int32) (model.ReadyStatus, error) {
	args := db.Called(ctx, username, leagueID)
	return args.Get(0).(model.ReadyStatus), args.Error(1)
}

func (db *DB) GetServerLeagues(ctx context.Context, serverID int64, aggregate bool) ([]model.ServerLeague, error) {
	args := db.Called(ctx, serverID, aggregate)

	var l []model.ServerLeague
	if args.Get(0) != nil {
		l = args.Get(0).([]model.ServerLeague)
	}
	return l, args.Error(1)
}

func (db *DB) GetServerUsers(ctx context.Context, serverID int64, aggregate bool) ([]string, error) {
	args := db.Called(ctx, serverID, aggregate)

	var u []string
	if args.Get(0) != nil {
		u = args.Get(0).([]string)
	}
	return u, args.Error(1)
}

func (db *DB) GetLeagueStatuses(ctx context.Context, leagueID int32) (map[string]model.ReadyStatus, error) {
	args := db.Called(ctx, leagueID)

	var s map[string]model.ReadyStatus
	if args.Get(0) != nil {
		s = args.Get(0).(map[string]model.ReadyStatus)
	}
	return s, args.Error(1)
}

func (db *DB) AutoAdvance(ctx context.Context, serverID int64) ([]string, error) {
	args := db.Called(ctx, serverID)

	var advanced []string
	if args.Get(0) != nil {
		advanced = args.Get(0).([]string)
	}
	return advanced, args.Error(1)
}

func (db *DB) AdvanceWeek(ctx context.Context, serverID int64, leagueName string) (string, int, error) {
	args := db.Called(ctx, serverID, leagueName)
	return args.String(0), args.Int(1), args.Error(2)
}

func (db *DB) SetWeek(ctx context.Context, serverID int64, leagueName string, week int) (string, int, error) {
	args := db.Called(ctx, serverID, leagueName, week)
	return args.String(0), args.Int(1), args.Error(2)
}
