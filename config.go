package quadauth

import "net/http"

// ProviderConfig is the credential triple a provider needs. A provider
// whose config is incomplete is disabled: its routes are not mounted.
type ProviderConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	CallbackURL  string `env:"CALLBACK_URL"`
}

// Enabled reports whether the triple is complete enough to run a flow.
func (c ProviderConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Config carries the per-provider credentials, loaded once at process
// start by the hosting application.
type Config struct {
	Facebook ProviderConfig `env-prefix:"QUADAUTH_FACEBOOK_"`
	Twitter  ProviderConfig `env-prefix:"QUADAUTH_TWITTER_"`
	Google   ProviderConfig `env-prefix:"QUADAUTH_GOOGLE_"`
}

// OAuthFlow is one provider's redirect dance. Begin sends the user to
// the provider; Complete consumes the provider's callback request and
// normalizes it into an Event for the resolver. Implementations live
// in the oauth2 (Facebook, Google) and oauth1 (Twitter) packages.
type OAuthFlow interface {
	Provider() Provider

	// Begin redirects the user agent to the provider's authorization
	// page, recording whatever state the callback needs to verify.
	Begin(w http.ResponseWriter, r *http.Request)

	// Complete validates the callback, exchanges the code (or verifier)
	// for a token, fetches the provider profile and returns the
	// normalized event.
	Complete(r *http.Request) (Event, error)
}
