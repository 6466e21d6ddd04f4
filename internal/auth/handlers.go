package auth

import (
	"net/http"

	"github.com/dimasprs/obrolan/internal/config"
	"github.com/workos/workos-go/v6/pkg/usermanagement"
)

func Configure(cfg *config.Config) {
	usermanagement.SetAPIKey(cfg.WorkOSApiKey)
}

func LoginHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorizationURL, err := usermanagement.GetAuthorizationURL(
			usermanagement.GetAuthorizationURLOpts{
				ClientID:    cfg.WorkOSClientID,
				Provider:    "authkit",
				RedirectURI: cfg.WorkOSRedirectURL,
			},
		)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, authorizationURL.String(), http.StatusSeeOther)
	}
}

func CallbackHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := usermanagement.AuthenticateWithCodeOpts{
			ClientID: cfg.WorkOSClientID,
			Code:     r.URL.Query().Get("code"),
		}

		if _, err := usermanagement.AuthenticateWithCode(r.Context(), opts); err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		http.Redirect(w, r, cfg.FE_BASE_URL, http.StatusSeeOther)
	}
}
