// Package quadauth provides session-based authentication for web
// applications with local email/password signup and social sign-in via
// Facebook, Twitter and Google, all resolving to a single user record.
//
// # Architecture
//
// User: the root account record. A user carries up to four identity
// sub-records (local, facebook, twitter, google); any subset may be
// present, and every sub-record points back at the same account.
//
// Event: a normalized authentication attempt. Local form posts and
// OAuth callbacks are both reduced to an Event naming the provider,
// the provider-assigned id (or email) and the captured credentials
// and profile fields.
//
// Resolver: the decision core. Given an Event and the currently
// logged-in user (if any), Resolve returns exactly one Outcome:
// Rejected, LoggedIn, Created or Linked. All uniqueness and linking
// rules live here; HTTP handlers only translate outcomes into
// redirects, flash messages and session writes.
//
// # Basic Usage
//
// Wire a store, a resolver, sessions and whichever provider flows you
// have credentials for:
//
//	import (
//	    "github.com/quadauth/quadauth"
//	    "github.com/quadauth/quadauth/oauth2"
//	    "github.com/quadauth/quadauth/stores"
//	)
//
//	users := stores.NewFSUserStore("/path/to/storage")
//	sessions := quadauth.NewSessionBinder(quadauth.NewSessionManager(), users)
//	resolver := quadauth.NewResolver(users)
//
//	app := quadauth.NewApp(resolver, sessions,
//	    oauth2.NewGoogle(googleCfg),
//	    oauth2.NewFacebook(facebookCfg),
//	)
//	http.ListenAndServe(":8080", app.Handler())
//
// Providers without a registered flow are simply not mounted; their
// routes answer 404.
//
// # Store Implementations
//
// The stores package has a file-backed implementation suitable for
// development. stores/gorm backs the same contract with a SQL database
// and enforces identity uniqueness with unique indexes; stores/gae
// uses Google Cloud Datastore.
//
// # Security
//
// Passwords are hashed with bcrypt at default cost and never leave the
// store. OAuth2 flows carry a random state value in a short-lived
// cookie and verify it on callback. Session cookies are HttpOnly and
// rotate their token on login.
//
// # Testing
//
// Handlers are tested with httptest against temporary storage
// directories, and OAuth flows against in-process mock provider
// servers whose endpoints are injected into the flow config.
package quadauth
