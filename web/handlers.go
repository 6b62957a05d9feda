package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mi1knc0okies/CFB-Ready-Bot/controller"
	"github.com/mi1knc0okies/CFB-Ready-Bot/db"
	"github.com/mi1knc0okies/CFB-Ready-Bot/model"
	"github.com/unrolled/render"
)

func rootHandler(_ controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.Text(w, http.StatusOK, "ready bot")
	}
}

func tableHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serverID, err := serverIDParam(r)
		if err != nil {
			render.Text(w, http.StatusBadRequest, err.Error())
			return
		}

		text, err := ctrl.Table(r.Context(), serverID)
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.Text(w, http.StatusOK, text)
	}
}

func setupHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serverID, err := serverIDParam(r)
		if err != nil {
			render.Text(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := r.ParseForm(); err != nil {
			render.Text(w, http.StatusBadRequest, err.Error())
			return
		}

		channelID, err := strconv.ParseInt(r.PostForm.Get("channel_id"), 10, 64)
		if err != nil {
			render.Text(w, http.StatusBadRequest, fmt.Sprintf("error parsing channel id: %v", err))
			return
		}

		s := &model.Server{
			ID:        serverID,
			Name:      r.PostForm.Get("name"),
			ChannelID: channelID,
			IsMain:    r.PostForm.Get("main") == "true",
		}
		if err := ctrl.Setup(r.Context(), s); err != nil {
			renderError(render, w, err)
			return
		}
		render.Text(w, http.StatusOK, fmt.Sprintf("server %d registered", serverID))
	}
}

func readyHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serverID, username, leagues, ok := statusChangeParams(ctrl, render, w, r)
		if !ok {
			return
		}

		update, err := ctrl.Ready(r.Context(), serverID, username, leagues)
		if err != nil {
			renderError(render, w, err)
			return
		}

		msg := fmt.Sprintf("marked ready for: %s", strings.Join(update.Updated, ", "))
		if len(update.Advanced) > 0 {
			msg = fmt.Sprintf("%s (auto-advanced: %s)", msg, strings.Join(update.Advanced, ", "))
		}
		render.Text(w, http.StatusOK, msg)
	}
}

func unreadyHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serverID, username, leagues, ok := statusChangeParams(ctrl, render, w, r)
		if !ok {
			return
		}

		updated, err := ctrl.Unready(r.Context(), serverID, username, leagues)
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.Text(w, http.StatusOK, fmt.Sprintf("marked not ready for: %s", strings.Join(updated, ", ")))
	}
}

func setStatusHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serverID, err := serverIDParam(r)
		if err != nil {
			render.Text(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := r.ParseForm(); err != nil {
			render.Text(w, http.StatusBadRequest, err.Error())
			return
		}

		username := r.PostForm.Get("username")
		league := r.PostForm.Get("league")
		status := r.PostForm.Get("status")
		if username == "" || league == "" {
			render.Text(w, http.StatusBadRequest, "username and league must be provided")
			return
		}

		if err := ctrl.SetStatus(r.Context(), serverID, username, league, status); err != nil {
			renderError(render, w, err)
			return
		}
		render.Text(w, http.StatusOK, fmt.Sprintf("status for %s in %s set to %q", username, league, status))
	}
}

func advanceHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serverID, err := serverIDParam(r)
		if err != nil {
			render.Text(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := r.ParseForm(); err != nil {
			render.Text(w, http.StatusBadRequest, err.Error())
			return
		}

		display, week, err := ctrl.Advance(r.Context(), serverID, r.PostForm.Get("league"))
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.Text(w, http.StatusOK, fmt.Sprintf("%s advanced to week %d", display, week))
	}
}

func setWeekHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serverID, err := serverIDParam(r)
		if err != nil {
			render.Text(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := r.ParseForm(); err != nil {
			render.Text(w, http.StatusBadRequest, err.Error())
			return
		}

		week, err := strconv.Atoi(r.PostForm.Get("week"))
		if err != nil {
			render.Text(w, http.StatusBadRequest, fmt.Sprintf("error parsing week: %v", err))
			return
		}

		display, oldWeek, err := ctrl.SetWeek(r.Context(), serverID, r.PostForm.Get("league"), week)
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.Text(w, http.StatusOK, fmt.Sprintf("%s set to week %d (was week %d)", display, week, oldWeek))
	}
}

func createLeagueHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			render.Text(w, http.StatusBadRequest, err.Error())
			return
		}

		l, err := ctrl.CreateLeague(r.Context(), r.PostForm.Get("name"), r.PostForm.Get("display_name"))
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusCreated, l)
	}
}

func assignLeagueHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serverID, err := serverIDParam(r)
		if err != nil {
			render.Text(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := r.ParseForm(); err != nil {
			render.Text(w, http.StatusBadRequest, err.Error())
			return
		}

		l, err := ctrl.AssignLeague(r.Context(), serverID, r.PostForm.Get("league"))
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.Text(w, http.StatusOK, fmt.Sprintf("%s assigned to server %d", l.DisplayName, serverID))
	}
}

func listLeaguesHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leagues, err := ctrl.ListLeagues(r.Context())
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, leagues)
	}
}

func addUserHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			render.Text(w, http.StatusBadRequest, err.Error())
			return
		}

		update, err := ctrl.AddUser(r.Context(), r.PostForm.Get("username"), leaguesParam(r))
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusCreated, update)
	}
}

func addUserToLeaguesHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			render.Text(w, http.StatusBadRequest, err.Error())
			return
		}

		update, err := ctrl.AddUserToLeagues(r.Context(), chi.URLParam(r, "username"), leaguesParam(r))
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, update)
	}
}

func removeUserFromLeaguesHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			render.Text(w, http.StatusBadRequest, err.Error())
			return
		}

		removed, err := ctrl.RemoveUserFromLeagues(r.Context(), chi.URLParam(r, "username"), leaguesParam(r))
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.Text(w, http.StatusOK, fmt.Sprintf("removed from: %s", strings.Join(removed, ", ")))
	}
}

func deleteUserHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")
		if err := ctrl.DeleteUser(r.Context(), username); err != nil {
			renderError(render, w, err)
			return
		}
		render.Text(w, http.StatusOK, fmt.Sprintf("%s deleted", username))
	}
}

func userInfoHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := ctrl.UserInfo(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, u)
	}
}

func listUsersHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serverID, err := serverIDParam(r)
		if err != nil {
			render.Text(w, http.StatusBadRequest, err.Error())
			return
		}

		users, err := ctrl.ListUsers(r.Context(), serverID)
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, users)
	}
}

func linkUserHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			render.Text(w, http.StatusBadRequest, err.Error())
			return
		}

		discordID, err := strconv.ParseInt(r.PostForm.Get("discord_id"), 10, 64)
		if err != nil {
			render.Text(w, http.StatusBadRequest, fmt.Sprintf("error parsing discord id: %v", err))
			return
		}

		username := chi.URLParam(r, "username")
		if err := ctrl.LinkDiscord(r.Context(), username, discordID); err != nil {
			renderError(render, w, err)
			return
		}
		render.Text(w, http.StatusOK, fmt.Sprintf("%s linked to discord id %d", username, discordID))
	}
}

func setAdminHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			render.Text(w, http.StatusBadRequest, err.Error())
			return
		}

		admin := r.PostForm.Get("admin") == "true"
		username := chi.URLParam(r, "username")
		if err := ctrl.SetAdmin(r.Context(), username, admin); err != nil {
			renderError(render, w, err)
			return
		}
		render.Text(w, http.StatusOK, fmt.Sprintf("admin for %s set to %t", username, admin))
	}
}

// statusChangeParams pulls the shared parameters out of a ready/unready
// request. A discord_id form value is resolved to the linked username when no
// username is given.
func statusChangeParams(ctrl controller.C, render *render.Render, w http.ResponseWriter, r *http.Request) (int64, string, []string, bool) {
	serverID, err := serverIDParam(r)
	if err != nil {
		render.Text(w, http.StatusBadRequest, err.Error())
		return 0, "", nil, false
	}
	if err := r.ParseForm(); err != nil {
		render.Text(w, http.StatusBadRequest, err.Error())
		return 0, "", nil, false
	}

	username := r.PostForm.Get("username")
	if username == "" {
		discordID, err := strconv.ParseInt(r.PostForm.Get("discord_id"), 10, 64)
		if err != nil {
			render.Text(w, http.StatusBadRequest, "a username or discord_id must be provided")
			return 0, "", nil, false
		}

		u, err := ctrl.UserForDiscordID(r.Context(), discordID)
		if err != nil {
			renderError(render, w, err)
			return 0, "", nil, false
		}
		username = u.Username
	}

	return serverID, username, leaguesParam(r), true
}

func serverIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "serverID"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing server id: %w", err)
	}
	return id, nil
}

func leaguesParam(r *http.Request) []string {
	raw := strings.Split(r.PostForm.Get("leagues"), ",")
	leagues := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			leagues = append(leagues, l)
		}
	}
	return leagues
}

func renderError(render *render.Render, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrUserNotFound),
		errors.Is(err, db.ErrLeagueNotFound),
		errors.Is(err, db.ErrServerNotFound),
		errors.Is(err, db.ErrNotAMember),
		errors.Is(err, db.ErrLeagueNotAssigned):
		render.Text(w, http.StatusNotFound, err.Error())
	case errors.Is(err, db.ErrLeagueExists),
		errors.Is(err, db.ErrLeagueAssigned),
		errors.Is(err, db.ErrDiscordIDInUse):
		render.Text(w, http.StatusConflict, err.Error())
	default:
		render.Text(w, http.StatusInternalServerError, err.Error())
	}
}
