// Command quadauth-demo runs a small host application showing the full
// login surface: local email/password plus Facebook, Twitter and Google
// sign-in, with account linking from the profile page.
//
// Provider credentials come from the environment, e.g.
//
//	QUADAUTH_GOOGLE_CLIENT_ID=... QUADAUTH_GOOGLE_CLIENT_SECRET=... \
//	QUADAUTH_GOOGLE_CALLBACK_URL=http://localhost:8080/auth/google/callback \
//	quadauth-demo
//
// Providers without credentials are simply not mounted.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/quadauth/quadauth"
	"github.com/quadauth/quadauth/oauth1"
	"github.com/quadauth/quadauth/oauth2"
	"github.com/quadauth/quadauth/stores"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on")
	dataDir := flag.String("data", "./quadauth-data", "directory for the file-backed user store")
	flag.Parse()

	var cfg quadauth.Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("reading config from environment", "err", err)
		os.Exit(1)
	}

	users := stores.NewFSUserStore(*dataDir)
	sessions := quadauth.NewSessionBinder(quadauth.NewSessionManager(), users)
	resolver := quadauth.NewResolver(users)

	var flows []quadauth.OAuthFlow
	if cfg.Facebook.Enabled() {
		flows = append(flows, oauth2.NewFacebook(cfg.Facebook))
	}
	if cfg.Google.Enabled() {
		flows = append(flows, oauth2.NewGoogle(cfg.Google))
	}
	if cfg.Twitter.Enabled() {
		flows = append(flows, oauth1.NewTwitter(cfg.Twitter))
	}
	for _, f := range flows {
		slog.Info("provider enabled", "provider", f.Provider())
	}

	app := quadauth.NewApp(resolver, sessions, flows...)

	slog.Info("listening", "addr", *addr, "data", *dataDir)
	if err := http.ListenAndServe(*addr, app.Handler()); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}
