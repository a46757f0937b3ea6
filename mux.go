package quadauth

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

// App wires the resolver, session binder and provider flows into the
// route set the surrounding application mounts:
//
//	POST /login, /signup, /connect/local
//	GET  /auth/{provider}, /auth/{provider}/callback
//	GET  /connect/{provider}, /connect/{provider}/callback
//	GET  /unlink/{provider}, /profile, /logout, /
//
// The auth and connect callbacks run the same resolution: whether an
// OAuth event logs in, creates or links depends only on whether a user
// is bound to the session, so linking works from either route family.
type App struct {
	Resolver *Resolver
	Sessions *SessionBinder
	Flows    map[Provider]OAuthFlow

	// Redirect targets. Zero values give the defaults the original
	// route table used.
	ProfileURL string

	router *mux.Router
	guard  *Middleware
}

func NewApp(resolver *Resolver, sessions *SessionBinder, flows ...OAuthFlow) *App {
	a := &App{
		Resolver:   resolver,
		Sessions:   sessions,
		Flows:      map[Provider]OAuthFlow{},
		ProfileURL: "/profile",
	}
	for _, f := range flows {
		a.Flows[f.Provider()] = f
	}
	a.guard = &Middleware{Sessions: sessions}
	a.setupRoutes()
	return a
}

// Handler returns the fully wired handler, session middleware included.
func (a *App) Handler() http.Handler {
	return a.Sessions.Manager.LoadAndSave(a.router)
}

func (a *App) setupRoutes() {
	r := mux.NewRouter()

	r.HandleFunc("/", a.handleIndex).Methods(http.MethodGet)
	r.Handle("/profile", a.guard.RequireUser(http.HandlerFunc(a.handleProfile))).Methods(http.MethodGet)
	r.HandleFunc("/logout", a.handleLogout).Methods(http.MethodGet)

	r.HandleFunc("/login", a.handleLoginForm).Methods(http.MethodGet)
	r.HandleFunc("/login", a.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/signup", a.handleSignupForm).Methods(http.MethodGet)
	r.HandleFunc("/signup", func(w http.ResponseWriter, r *http.Request) {
		a.handleSignup(w, r, "/signup")
	}).Methods(http.MethodPost)

	// Connecting a local identity reuses the signup flow, as the
	// original route table did.
	r.HandleFunc("/connect/local", a.handleConnectLocalForm).Methods(http.MethodGet)
	r.HandleFunc("/connect/local", func(w http.ResponseWriter, r *http.Request) {
		a.handleSignup(w, r, "/connect/local")
	}).Methods(http.MethodPost)

	for _, prefix := range []string{"/auth", "/connect"} {
		r.HandleFunc(prefix+"/{provider}", a.handleAuthStart).Methods(http.MethodGet)
		r.HandleFunc(prefix+"/{provider}/callback", a.handleAuthCallback).Methods(http.MethodGet)
	}

	r.Handle("/unlink/{provider}", a.guard.RequireUser(http.HandlerFunc(a.handleUnlink))).Methods(http.MethodGet)

	a.router = r
}

func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "error parsing form", http.StatusBadRequest)
		return
	}
	event := Event{
		Provider:    ProviderLocal,
		Action:      ActionLogin,
		Profile:     EventProfile{Email: r.FormValue("email")},
		Credentials: EventCredentials{Password: r.FormValue("password")},
	}
	outcome, err := a.Resolver.Resolve(r.Context(), event, nil)
	if err != nil {
		a.storeFailure(w, "login", err)
		return
	}
	if outcome.Kind == OutcomeRejected {
		a.Sessions.Flash(r.Context(), "loginMessage", outcome.Rejection.Message)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	if err := a.Sessions.Bind(r.Context(), outcome.User); err != nil {
		a.storeFailure(w, "login", err)
		return
	}
	http.Redirect(w, r, a.ProfileURL, http.StatusFound)
}

// handleSignup serves both POST /signup and POST /connect/local; only
// the failure redirect differs. A signup while logged in creates and
// binds a fresh account, exactly as the original behaved.
func (a *App) handleSignup(w http.ResponseWriter, r *http.Request, failureURL string) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "error parsing form", http.StatusBadRequest)
		return
	}
	event := Event{
		Provider:    ProviderLocal,
		Action:      ActionSignup,
		Profile:     EventProfile{Email: r.FormValue("email")},
		Credentials: EventCredentials{Password: r.FormValue("password")},
	}
	outcome, err := a.Resolver.Resolve(r.Context(), event, nil)
	if err != nil {
		a.storeFailure(w, "signup", err)
		return
	}
	if outcome.Kind == OutcomeRejected {
		a.Sessions.Flash(r.Context(), "signupMessage", outcome.Rejection.Message)
		http.Redirect(w, r, failureURL, http.StatusFound)
		return
	}
	if err := a.Sessions.Bind(r.Context(), outcome.User); err != nil {
		a.storeFailure(w, "signup", err)
		return
	}
	http.Redirect(w, r, a.ProfileURL, http.StatusFound)
}

func (a *App) handleAuthStart(w http.ResponseWriter, r *http.Request) {
	flow, ok := a.flowFor(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	flow.Begin(w, r)
}

func (a *App) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	flow, ok := a.flowFor(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	event, err := flow.Complete(r)
	if err != nil {
		slog.Warn("oauth callback failed", "provider", flow.Provider(), "err", err)
		a.Sessions.Flash(r.Context(), "loginMessage", fmt.Sprintf("Signing in with %s failed.", flow.Provider()))
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	sessionUser, err := a.Sessions.Current(r.Context())
	if err != nil {
		a.storeFailure(w, "callback", err)
		return
	}

	outcome, err := a.Resolver.Resolve(r.Context(), event, sessionUser)
	if err != nil {
		a.storeFailure(w, "callback", err)
		return
	}

	switch outcome.Kind {
	case OutcomeLoggedIn, OutcomeCreated:
		if err := a.Sessions.Bind(r.Context(), outcome.User); err != nil {
			a.storeFailure(w, "callback", err)
			return
		}
	case OutcomeLinked:
		// The session already points at this user; no rebind.
	case OutcomeRejected:
		a.Sessions.Flash(r.Context(), "loginMessage", outcome.Rejection.Message)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	http.Redirect(w, r, a.ProfileURL, http.StatusFound)
}

func (a *App) handleUnlink(w http.ResponseWriter, r *http.Request) {
	provider := Provider(mux.Vars(r)["provider"])
	if !provider.Valid() {
		http.NotFound(w, r)
		return
	}
	user := UserFromContext(r.Context())
	if _, err := Unlink(r.Context(), a.Resolver.Users, user, provider); err != nil {
		a.storeFailure(w, "unlink", err)
		return
	}
	http.Redirect(w, r, a.ProfileURL, http.StatusFound)
}

func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := a.Sessions.Unbind(r.Context()); err != nil {
		slog.Warn("destroying session", "err", err)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// flowFor picks the flow for the {provider} route variable. Providers
// without a registered (configured) flow 404, which is how incomplete
// configuration disables a provider.
func (a *App) flowFor(r *http.Request) (OAuthFlow, bool) {
	provider := Provider(mux.Vars(r)["provider"])
	flow, ok := a.Flows[provider]
	return flow, ok
}

func (a *App) storeFailure(w http.ResponseWriter, op string, err error) {
	slog.Error("store failure", "op", op, "err", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
