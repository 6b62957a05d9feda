package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mi1knc0okies/CFB-Ready-Bot/controller"
	"github.com/mi1knc0okies/CFB-Ready-Bot/controller/mockcontroller"
	"github.com/mi1knc0okies/CFB-Ready-Bot/db"
	"github.com/mi1knc0okies/CFB-Ready-Bot/model"
	"github.com/stretchr/testify/mock"
	"github.com/unrolled/render"
)

const (
	testAdminUser = "admin"
	testAdminPass = "secret"
)

func serverForTest(ctrl *mockcontroller.C) *httptest.Server {
	return httptest.NewServer(getRouter(ctrl, render.New(), testAdminUser, testAdminPass))
}

func postForm(t *testing.T, url string, form url.Values) *http.Response {
	t.Helper()
	resp, err := http.PostForm(url, form)
	if err != nil {
		t.Fatalf("error posting form: %v", err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("error reading response body: %v", err)
	}
	return string(b)
}

func TestTableHandler(t *testing.T) {
	ctrl := &mockcontroller.C{}
	s := serverForTest(ctrl)
	defer s.Close()

	ctrl.On("Table", mock.Anything, int64(42)).Return("```\ntable\n```", nil)

	resp, err := http.Get(s.URL + "/servers/42/table")
	if err != nil {
		t.Fatalf("error getting table: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("unexpected status code. Got: %d", resp.StatusCode)
	}
	if body := readBody(t, resp); body != "```\ntable\n```" {
		t.Errorf("unexpected body: %s", body)
	}

	// A non-numeric server id never matches the route.
	resp, err = http.Get(s.URL + "/servers/abc/table")
	if err != nil {
		t.Fatalf("error getting table: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unexpected status code. Got: %d", resp.StatusCode)
	}

	ctrl.AssertExpectations(t)
}

func TestReadyHandler(t *testing.T) {
	ctrl := &mockcontroller.C{}
	s := serverForTest(ctrl)
	defer s.Close()

	ctrl.On("Ready", mock.Anything, int64(42), "alice", []string{"rel", "d2"}).
		Return(&controller.StatusUpdate{Updated: []string{"rel", "d2"}, Advanced: []string{"REL"}}, nil)

	resp := postForm(t, s.URL+"/servers/42/ready", url.Values{
		"username": {"alice"},
		"leagues":  {"rel, d2"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("unexpected status code. Got: %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "rel, d2") || !strings.Contains(body, "auto-advanced: REL") {
		t.Errorf("unexpected body: %s", body)
	}

	ctrl.AssertExpectations(t)
}

func TestReadyHandler_discordID(t *testing.T) {
	ctrl := &mockcontroller.C{}
	s := serverForTest(ctrl)
	defer s.Close()

	ctrl.On("UserForDiscordID", mock.Anything, int64(777)).
		Return(&model.User{Username: "bob"}, nil)
	ctrl.On("Ready", mock.Anything, int64(42), "bob", []string{"rel"}).
		Return(&controller.StatusUpdate{Updated: []string{"rel"}}, nil)

	resp := postForm(t, s.URL+"/servers/42/ready", url.Values{
		"discord_id": {"777"},
		"leagues":    {"rel"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("unexpected status code. Got: %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Neither a username nor a discord id is a bad request.
	resp = postForm(t, s.URL+"/servers/42/ready", url.Values{"leagues": {"rel"}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unexpected status code. Got: %d", resp.StatusCode)
	}
	resp.Body.Close()

	ctrl.AssertExpectations(t)
}

func TestReadyHandler_notAMember(t *testing.T) {
	ctrl := &mockcontroller.C{}
	s := serverForTest(ctrl)
	defer s.Close()

	ctrl.On("Ready", mock.Anything, int64(42), "alice", []string{"rel"}).
		Return(nil, db.ErrNotAMember)

	resp := postForm(t, s.URL+"/servers/42/ready", url.Values{
		"username": {"alice"},
		"leagues":  {"rel"},
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unexpected status code. Got: %d", resp.StatusCode)
	}
	resp.Body.Close()

	ctrl.AssertExpectations(t)
}

func TestSetWeekHandler(t *testing.T) {
	ctrl := &mockcontroller.C{}
	s := serverForTest(ctrl)
	defer s.Close()

	ctrl.On("SetWeek", mock.Anything, int64(42), "rel", 5).Return("REL", 2, nil)

	resp := postForm(t, s.URL+"/servers/42/week", url.Values{
		"league": {"rel"},
		"week":   {"5"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("unexpected status code. Got: %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "REL set to week 5 (was week 2)") {
		t.Errorf("unexpected body: %s", body)
	}

	// An unparsable week never reaches the controller.
	resp = postForm(t, s.URL+"/servers/42/week", url.Values{
		"league": {"rel"},
		"week":   {"soon"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unexpected status code. Got: %d", resp.StatusCode)
	}
	resp.Body.Close()

	ctrl.AssertExpectations(t)
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	ctrl := &mockcontroller.C{}
	s := serverForTest(ctrl)
	defer s.Close()

	resp := postForm(t, s.URL+"/admin/leagues", url.Values{
		"name":         {"rel"},
		"display_name": {"REL"},
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unexpected status code without credentials. Got: %d", resp.StatusCode)
	}
	resp.Body.Close()

	ctrl.On("CreateLeague", mock.Anything, "rel", "REL").
		Return(&model.League{ID: 1, Name: "rel", DisplayName: "REL"}, nil)

	req, err := http.NewRequest(http.MethodPost, s.URL+"/admin/leagues",
		strings.NewReader(url.Values{"name": {"rel"}, "display_name": {"REL"}}.Encode()))
	if err != nil {
		t.Fatalf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(testAdminUser, testAdminPass)

	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("error creating league: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("unexpected status code with credentials. Got: %d", resp.StatusCode)
	}
	resp.Body.Close()

	ctrl.AssertExpectations(t)
}

func TestCreateLeagueHandler_conflict(t *testing.T) {
	ctrl := &mockcontroller.C{}
	s := serverForTest(ctrl)
	defer s.Close()

	ctrl.On("CreateLeague", mock.Anything, "rel", "REL").Return(nil, db.ErrLeagueExists)

	req, err := http.NewRequest(http.MethodPost, s.URL+"/admin/leagues",
		strings.NewReader(url.Values{"name": {"rel"}, "display_name": {"REL"}}.Encode()))
	if err != nil {
		t.Fatalf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(testAdminUser, testAdminPass)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("error creating league: %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("unexpected status code. Got: %d", resp.StatusCode)
	}
	resp.Body.Close()

	ctrl.AssertExpectations(t)
}

func TestUserInfoHandler(t *testing.T) {
	ctrl := &mockcontroller.C{}
	s := serverForTest(ctrl)
	defer s.Close()

	ctrl.On("UserInfo", mock.Anything, "alice").Return(&model.User{
		ID:       1,
		Username: "alice",
		Leagues: []model.UserLeague{
			{LeagueName: "rel", DisplayName: "REL", Status: model.StatusReady},
		},
	}, nil)

	req, err := http.NewRequest(http.MethodGet, s.URL+"/admin/users/alice/", nil)
	if err != nil {
		t.Fatalf("error creating request: %v", err)
	}
	req.SetBasicAuth(testAdminUser, testAdminPass)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("error getting user info: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("unexpected status code. Got: %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "alice") || !strings.Contains(body, "REL") {
		t.Errorf("unexpected body: %s", body)
	}

	ctrl.On("UserInfo", mock.Anything, "ghost").Return(nil, db.ErrUserNotFound)

	req, err = http.NewRequest(http.MethodGet, s.URL+"/admin/users/ghost/", nil)
	if err != nil {
		t.Fatalf("error creating request: %v", err)
	}
	req.SetBasicAuth(testAdminUser, testAdminPass)

	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("error getting user info: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unexpected status code. Got: %d", resp.StatusCode)
	}
	resp.Body.Close()

	ctrl.AssertExpectations(t)
}

func TestAdvanceHandler(t *testing.T) {
	ctrl := &mockcontroller.C{}
	s := serverForTest(ctrl)
	defer s.Close()

	ctrl.On("Advance", mock.Anything, int64(42), "rel").Return("REL", 3, nil)

	resp := postForm(t, s.URL+"/servers/42/advance", url.Values{"league": {"rel"}})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("unexpected status code. Got: %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "REL advanced to week 3") {
		t.Errorf("unexpected body: %s", body)
	}

	ctrl.AssertExpectations(t)
}
