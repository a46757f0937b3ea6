package quadauth

import "context"

// Provider identifies an external identity source.
type Provider string

const (
	ProviderLocal    Provider = "local"
	ProviderFacebook Provider = "facebook"
	ProviderTwitter  Provider = "twitter"
	ProviderGoogle   Provider = "google"
)

// Providers lists every provider this package knows about.
var Providers = []Provider{ProviderLocal, ProviderFacebook, ProviderTwitter, ProviderGoogle}

// Valid reports whether p is one of the known providers.
func (p Provider) Valid() bool {
	switch p {
	case ProviderLocal, ProviderFacebook, ProviderTwitter, ProviderGoogle:
		return true
	}
	return false
}

// OAuth reports whether p is an external OAuth provider (everything but local).
func (p Provider) OAuth() bool {
	return p.Valid() && p != ProviderLocal
}

// LocalIdentity holds email/password credentials for local login.
type LocalIdentity struct {
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

// FacebookIdentity holds the Facebook-assigned id, access token and
// profile fields captured at link time.
type FacebookIdentity struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TwitterIdentity holds the Twitter-assigned id and the OAuth1 token
// pair. Twitter profiles carry a screen name rather than an email.
type TwitterIdentity struct {
	ID          string `json:"id"`
	Token       string `json:"token"`
	TokenSecret string `json:"token_secret"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// GoogleIdentity holds the Google-assigned id, access token and profile
// fields captured at link time.
type GoogleIdentity struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// User is the root account record. Any subset of the four identity
// sub-records may be present; a user with none is still a valid record
// (reachable by id, unreachable by identity lookup).
type User struct {
	ID       string            `json:"id"`
	Local    *LocalIdentity    `json:"local,omitempty"`
	Facebook *FacebookIdentity `json:"facebook,omitempty"`
	Twitter  *TwitterIdentity  `json:"twitter,omitempty"`
	Google   *GoogleIdentity   `json:"google,omitempty"`
}

// HasProvider reports whether the user has any stored record for p,
// linked or not.
func (u *User) HasProvider(p Provider) bool {
	switch p {
	case ProviderLocal:
		return u.Local != nil
	case ProviderFacebook:
		return u.Facebook != nil
	case ProviderTwitter:
		return u.Twitter != nil
	case ProviderGoogle:
		return u.Google != nil
	}
	return false
}

// LinkedProviders returns the providers whose credentials are currently
// usable for login: local needs an email, OAuth providers need a token.
// Unlinked providers keep their id/profile fields but drop out of this
// list.
func (u *User) LinkedProviders() []Provider {
	var out []Provider
	if u.Local != nil && u.Local.Email != "" {
		out = append(out, ProviderLocal)
	}
	if u.Facebook != nil && u.Facebook.Token != "" {
		out = append(out, ProviderFacebook)
	}
	if u.Twitter != nil && u.Twitter.Token != "" {
		out = append(out, ProviderTwitter)
	}
	if u.Google != nil && u.Google.Token != "" {
		out = append(out, ProviderGoogle)
	}
	return out
}

// UserStore is the persistence contract the resolver and session binder
// depend on. Find methods return (nil, nil) when no record matches;
// a non-nil error always means the store itself failed and is
// propagated to the caller unchanged (no retries in this layer).
//
// Uniqueness of local email and provider ids is lookup-before-create in
// the simplest implementations; stores backed by a real database should
// add unique constraints (stores/gorm does).
type UserStore interface {
	// GetUserByID retrieves a user by id. Returns (nil, nil) when the
	// id is unknown.
	GetUserByID(ctx context.Context, id string) (*User, error)

	// FindByLocalEmail looks a user up by local.email.
	FindByLocalEmail(ctx context.Context, email string) (*User, error)

	// FindByProviderID looks a user up by the provider-assigned id of
	// an OAuth provider.
	FindByProviderID(ctx context.Context, provider Provider, providerID string) (*User, error)

	// SaveUser inserts or updates a user and returns the stored record.
	// A user with an empty ID gets one assigned on first insert.
	SaveUser(ctx context.Context, user *User) (*User, error)
}
