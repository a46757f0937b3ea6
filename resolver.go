package quadauth

import (
	"context"
	"fmt"
)

// Action distinguishes the two local form flows. It is ignored for
// OAuth providers, whose callbacks carry no signup/login distinction.
type Action string

const (
	ActionLogin  Action = "login"
	ActionSignup Action = "signup"
)

// EventProfile carries the display fields a provider reported for the
// authenticated account. Only the fields the provider actually supplies
// are set: local and Google/Facebook events carry Email and Name,
// Twitter carries Username and DisplayName.
type EventProfile struct {
	Email       string
	Name        string
	Username    string
	DisplayName string
}

// EventCredentials carries whichever secret material the flow produced:
// a password for local events, an access token (plus token secret for
// OAuth1 providers) for OAuth events.
type EventCredentials struct {
	Password    string
	Token       string
	TokenSecret string
}

// Event is one inbound authentication event: a submitted login/signup
// form or a completed OAuth callback, normalized by the transport
// layer before it reaches the resolver.
type Event struct {
	Provider    Provider
	Action      Action // local only
	ProviderID  string // provider-assigned id, OAuth only
	Profile     EventProfile
	Credentials EventCredentials
}

// OutcomeKind tags the result of resolving an event.
type OutcomeKind int

const (
	// OutcomeRejected is an expected validation failure; Reason holds
	// the user-facing message.
	OutcomeRejected OutcomeKind = iota
	// OutcomeLoggedIn matched an existing user by provider identity.
	OutcomeLoggedIn
	// OutcomeCreated made a new user for a first-ever authentication.
	OutcomeCreated
	// OutcomeLinked attached (or refreshed) a provider identity on the
	// session-bound user.
	OutcomeLinked
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeRejected:
		return "rejected"
	case OutcomeLoggedIn:
		return "logged_in"
	case OutcomeCreated:
		return "created"
	case OutcomeLinked:
		return "linked"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Outcome is the resolver's decision. User is set for every kind except
// Rejected; Rejection is set only for Rejected.
type Outcome struct {
	Kind      OutcomeKind
	User      *User
	Rejection *Rejection
}

func rejected(code, message, field string) (Outcome, error) {
	return Outcome{Kind: OutcomeRejected, Rejection: NewRejection(code, message, field)}, nil
}

// Resolver is the account-linking decision core. It reconciles inbound
// authentication events against the user store and decides whether the
// event creates an account, logs into an existing one, or links a
// provider to the session-bound user. It holds no state of its own;
// the store is the single point of mutation.
type Resolver struct {
	Users UserStore
}

func NewResolver(users UserStore) *Resolver {
	return &Resolver{Users: users}
}

// Resolve applies the decision rules for one event. sessionUser is the
// user bound to the current session, or nil.
//
// An error return is always a store failure, propagated unchanged with
// context; expected failures (duplicate email, bad credentials) come
// back as an OutcomeRejected with a nil error.
//
// The lookup-then-create sequence is not atomic. Two concurrent
// first-time events for the same email or provider id can both pass
// the lookup and create duplicate records unless the store enforces
// uniqueness itself (stores/gorm does, the fs store does not).
func (r *Resolver) Resolve(ctx context.Context, event Event, sessionUser *User) (Outcome, error) {
	switch {
	case event.Provider == ProviderLocal && event.Action == ActionSignup:
		return r.localSignup(ctx, event)
	case event.Provider == ProviderLocal && event.Action == ActionLogin:
		return r.localLogin(ctx, event)
	case event.Provider.OAuth():
		return r.oauthCallback(ctx, event, sessionUser)
	}
	return rejected(CodeUnknownProvider, fmt.Sprintf("unknown provider %q", event.Provider), "")
}

func (r *Resolver) localSignup(ctx context.Context, event Event) (Outcome, error) {
	email := event.Profile.Email
	if email == "" || event.Credentials.Password == "" {
		return rejected(CodeMissingField, "Email and password are required.", "email")
	}

	existing, err := r.Users.FindByLocalEmail(ctx, email)
	if err != nil {
		return Outcome{}, fmt.Errorf("lookup user by email: %w", err)
	}
	if existing != nil {
		return rejected(CodeEmailExists, msgEmailExists, "email")
	}

	hash, err := HashPassword(event.Credentials.Password)
	if err != nil {
		return Outcome{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := r.Users.SaveUser(ctx, &User{
		Local: &LocalIdentity{Email: email, PasswordHash: hash},
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("create user: %w", err)
	}
	return Outcome{Kind: OutcomeCreated, User: user}, nil
}

func (r *Resolver) localLogin(ctx context.Context, event Event) (Outcome, error) {
	user, err := r.Users.FindByLocalEmail(ctx, event.Profile.Email)
	if err != nil {
		return Outcome{}, fmt.Errorf("lookup user by email: %w", err)
	}
	if user == nil || user.Local == nil || !CheckPassword(event.Credentials.Password, user.Local.PasswordHash) {
		return rejected(CodeInvalidCreds, msgInvalidCreds, "password")
	}
	return Outcome{Kind: OutcomeLoggedIn, User: user}, nil
}

func (r *Resolver) oauthCallback(ctx context.Context, event Event, sessionUser *User) (Outcome, error) {
	if sessionUser != nil {
		// A session user is present: attach this provider's identity to
		// it. The same rule refreshes tokens and profile data when the
		// provider is already linked; the two cases are not
		// distinguished.
		applyProviderIdentity(sessionUser, event)
		saved, err := r.Users.SaveUser(ctx, sessionUser)
		if err != nil {
			return Outcome{}, fmt.Errorf("link %s identity: %w", event.Provider, err)
		}
		return Outcome{Kind: OutcomeLinked, User: saved}, nil
	}

	user, err := r.Users.FindByProviderID(ctx, event.Provider, event.ProviderID)
	if err != nil {
		return Outcome{}, fmt.Errorf("lookup user by %s id: %w", event.Provider, err)
	}
	if user != nil {
		return Outcome{Kind: OutcomeLoggedIn, User: user}, nil
	}

	user = &User{}
	applyProviderIdentity(user, event)
	saved, err := r.Users.SaveUser(ctx, user)
	if err != nil {
		return Outcome{}, fmt.Errorf("create user: %w", err)
	}
	return Outcome{Kind: OutcomeCreated, User: saved}, nil
}

// applyProviderIdentity overwrites the event provider's sub-record on
// user from the event's profile and credentials. Other sub-records are
// untouched.
func applyProviderIdentity(user *User, event Event) {
	switch event.Provider {
	case ProviderFacebook:
		user.Facebook = &FacebookIdentity{
			ID:    event.ProviderID,
			Token: event.Credentials.Token,
			Name:  event.Profile.Name,
			Email: event.Profile.Email,
		}
	case ProviderTwitter:
		user.Twitter = &TwitterIdentity{
			ID:          event.ProviderID,
			Token:       event.Credentials.Token,
			TokenSecret: event.Credentials.TokenSecret,
			Username:    event.Profile.Username,
			DisplayName: event.Profile.DisplayName,
		}
	case ProviderGoogle:
		user.Google = &GoogleIdentity{
			ID:    event.ProviderID,
			Token: event.Credentials.Token,
			Name:  event.Profile.Name,
			Email: event.Profile.Email,
		}
	}
}
