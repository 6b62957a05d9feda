package testutils

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/itbasis/go-clock"
	"golang.org/x/oauth2"
)

type TestController struct {
	Clock       *clock.Mock
	LinkConfig  *oauth2.Config
	fakeDiscord *FakeDiscordServer
	fakeOAuth   *httptest.Server
}

func (c *TestController) Close() {
	c.fakeDiscord.Close()
	c.fakeOAuth.Close()
}

func (c *TestController) DiscordURL() string {
	return c.fakeDiscord.URL()
}

func (c *TestController) Discord() *FakeDiscordServer {
	return c.fakeDiscord
}

func NewTestController(db *TestDB) *TestController {
	fakeOAuthServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"access_token": "access_token",
			"refresh_token": "refresh_token",
			"token_type": "bearer",
			"expires_in": 3600
		}`))
	}))

	fakeLinkConfig := &oauth2.Config{
		ClientID:     "fakeClientID",
		ClientSecret: "fakeClientSecret",
		Endpoint: oauth2.Endpoint{
			AuthURL:  fmt.Sprintf("%s/auth", fakeOAuthServer.URL),
			TokenURL: fmt.Sprintf("%s/token", fakeOAuthServer.URL),
		},
		RedirectURL: fmt.Sprintf("%s/redirect", fakeOAuthServer.URL),
		Scopes:      []string{"identify"},
	}
	return &TestController{
		Clock:       db.Clock,
		LinkConfig:  fakeLinkConfig,
		fakeDiscord: NewFakeDiscordServer(),
		fakeOAuth:   fakeOAuthServer,
	}
}
