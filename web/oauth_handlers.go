package web

import (
	"fmt"
	"net/http"

	"github.com/mi1knc0okies/CFB-Ready-Bot/controller"
	"github.com/unrolled/render"
)

func linkStartHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("username")
		if username == "" {
			render.Text(w, http.StatusBadRequest, "a username must be provided")
			return
		}

		url, err := ctrl.LinkStart(username)
		if err != nil {
			render.Text(w, http.StatusInternalServerError, err.Error())
			return
		}

		http.Redirect(w, r, url, http.StatusSeeOther)
	}
}

func linkCallbackHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		code := params.Get("code")
		state := params.Get("state")

		username, err := ctrl.LinkFinish(r.Context(), state, code)
		if err != nil {
			renderError(render, w, err)
			return
		}

		render.Text(w, http.StatusOK, fmt.Sprintf("discord account linked for %s", username))
	}
}
