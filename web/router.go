package web

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mi1knc0okies/CFB-Ready-Bot/controller"
	"github.com/unrolled/render"
)

// The routes map 1:1 onto the bot's commands. Anything a regular member can
// run from chat lives at the top level, everything admin-only sits behind the
// /admin basic auth gate.
func getRouter(ctrl controller.C, render *render.Render, adminUser, adminPass string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/", rootHandler(ctrl, render))

	r.Route("/servers/{serverID:\\d+}", func(r chi.Router) {
		r.Get("/table", tableHandler(ctrl, render))
		r.Get("/users", listUsersHandler(ctrl, render))
		r.Post("/ready", readyHandler(ctrl, render))
		r.Post("/unready", unreadyHandler(ctrl, render))
		r.Post("/advance", advanceHandler(ctrl, render))
		r.Post("/week", setWeekHandler(ctrl, render))
	})

	r.Route("/link", func(r chi.Router) {
		r.Get("/", linkStartHandler(ctrl, render))
		r.Get("/callback", linkCallbackHandler(ctrl, render))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.BasicAuth("ready_bot", map[string]string{adminUser: adminPass}))

		r.Post("/leagues", createLeagueHandler(ctrl, render))
		r.Get("/leagues", listLeaguesHandler(ctrl, render))

		r.Route("/servers/{serverID:\\d+}", func(r chi.Router) {
			r.Post("/setup", setupHandler(ctrl, render))
			r.Post("/leagues", assignLeagueHandler(ctrl, render))
			r.Post("/status", setStatusHandler(ctrl, render))
		})

		r.Post("/users", addUserHandler(ctrl, render))
		r.Route("/users/{username}", func(r chi.Router) {
			r.Get("/", userInfoHandler(ctrl, render))
			r.Post("/leagues", addUserToLeaguesHandler(ctrl, render))
			r.Post("/remove", removeUserFromLeaguesHandler(ctrl, render))
			r.Post("/delete", deleteUserHandler(ctrl, render))
			r.Post("/link", linkUserHandler(ctrl, render))
			r.Post("/admin", setAdminHandler(ctrl, render))
		})
	})

	return r
}
