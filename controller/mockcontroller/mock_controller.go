package mockcontroller

import (
	"context"

	"github.com/mi1knc0okies/CFB-Ready-Bot/controller"
	"github.com/mi1knc0okies/CFB-Ready-Bot/model"
	"github.com/stretchr/testify/mock"
)

type C struct {
	mock.Mock
}

func (c *C) Setup(ctx context.Context, s *model.Server) error {
	args := c.Called(ctx, s)
	return args.Error(0)
}

func (c *C) Table(ctx context.Context, serverID int64) (string, error) {
	args := c.Called(ctx, serverID)
	return args.String(0), args.Error(1)
}

func (c *C) CreateLeague(ctx context.Context, name, displayName string) (*model.League, error) {
	args := c.Called(ctx, name, displayName)

	var l *model.League
	if args.Get(0) != nil {
		l = args.Get(0).(*model.League)
	}
	return l, args.Error(1)
}

func (c *C) AssignLeague(ctx context.Context, serverID int64, leagueName string) (*model.League, error) {
	args := c.Called(ctx, serverID, leagueName)

	var l *model.League
	if args.Get(0) != nil {
		l = args.Get(0).(*model.League)
	}
	return l, args.Error(1)
}

func (c *C) ListLeagues(ctx context.Context) ([]model.League, error) {
	args := c.Called(ctx)

	var l []model.League
	if args.Get(0) != nil {
		l = args.Get(0).([]model.League)
	}
	return l, args.Error(1)
}

func (c *C) AddUser(ctx context.Context, username string, leagues []string) (*controller.MembershipUpdate, error) {
	args := c.Called(ctx, username, leagues)

	var u *controller.MembershipUpdate
	if args.Get(0) != nil {
		u = args.Get(0).(*controller.MembershipUpdate)
	}
	return u, args.Error(1)
}

func (c *C) AddUserToLeagues(ctx context.Context, username string, leagues []string) (*controller.MembershipUpdate, error) {
	args := c.Called(ctx, username, leagues)

	var u *controller.MembershipUpdate
	if args.Get(0) != nil {
		u = args.Get(0).(*controller.MembershipUpdate)
	}
	return u, args.Error(1)
}

func (c *C) RemoveUserFromLeagues(ctx context.Context, username string, leagues []string) ([]string, error) {
	args := c.Called(ctx, username, leagues)

	var removed []string
	if args.Get(0) != nil {
		removed = args.Get(0).([]string)
	}
	return removed, args.Error(1)
}

func (c *C) DeleteUser(ctx context.Context, username string) error {
	args := c.Called(ctx, username)
	return args.Error(0)
}

func (c *C) UserInfo(ctx context.Context, username string) (*model.User, error) {
	args := c.Called(ctx, username)

	var u *model.User
	if args.Get(0) != nil {
		u = args.Get(0).(*model.User)
	}
	return u, args.Error(1)
}

func (c *C) ListUsers(ctx context.Context, serverID int64) ([]string, error) {
	args := c.Called(ctx, serverID)

	var u []string
	if args.Get(0) != nil {
		u = args.Get(0).([]string)
	}
	return u, args.Error(1)
}

func (c *C) UserForDiscordID(ctx context.Context, discordID int64) (*model.User, error) {
	args := c.Called(ctx, discordID)

	var u *model.User
	if args.Get(0) != nil {
		u = args.Get(0).(*model.User)
	}
	return u, args.Error(1)
}

func (c *C) LinkDiscord(ctx context.Context, username string, discordID int64) error {
	args := c.Called(ctx, username, discordID)
	return args.Error(0)
}

func (c *C) SetAdmin(ctx context.Context, username string, admin bool) error {
	args := c.Called(ctx, username, admin)
	return args.Error(0)
}

func (c *C) Ready(ctx context.Context, serverID int64, username string, leagues []string) (*controller.StatusUpdate, error) {
	args := c.Called(ctx, serverID, username, leagues)

	var u *controller.StatusUpdate
	if args.Get(0) != nil {
		u = args.Get(0).(*controller.StatusUpdate)
	}
	return u, args.Error(1)
}

func (c *C) Unready(ctx context.Context, serverID int64, username string, leagues []string) ([]string, error) {
	args := c.Called(ctx, serverID, username, leagues)

	var updated []string
	if args.Get(0) != nil {
		updated = args.Get(0).([]string)
	}
	return updated, args.Error(1)
}

func (c *C) SetStatus(ctx context.Context, serverID int64, username, leagueName, status string) error {
	args := c.Called(ctx, serverID, username, leagueName, status)
	return args.Error(0)
}

func (c *C) Advance(ctx context.Context, serverID int64, leagueName string) (string, int, error) {
	args := c.Called(ctx, serverID, leagueName)
	return args.String(0), args.Int(1), args.Error(2)
}

func (c *C) SetWeek(ctx context.Context, serverID int64, leagueName string, week int) (string, int, error) {
	args := c.Called(ctx, serverID, leagueName, week)
	return args.String(0), args.Int(1), args.Error(2)
}

func (c *C) LinkStart(username string) (string, error) {
	args := c.Called(username)
	return args.String(0), args.Error(1)
}

func (c *C) LinkFinish(ctx context.Context, state, code string) (string, error) {
	args := c.Called(ctx, state, code)
	return args.String(0), args.Error(1)
}
