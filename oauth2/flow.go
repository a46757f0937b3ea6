package oauth2

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	oauth2lib "golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"

	"github.com/quadauth/quadauth"
)

// Flow is one OAuth2 provider's redirect dance. It implements
// quadauth.OAuthFlow. Config and UserInfoURL are exported so tests can
// point the flow at a mock provider.
type Flow struct {
	Config      *oauth2lib.Config
	UserInfoURL string

	// HTTPClient is used for the userinfo fetch. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	provider quadauth.Provider
}

// NewFacebook builds the Facebook flow. Empty config fields fall back
// to the QUADAUTH_FACEBOOK_* environment variables.
func NewFacebook(cfg quadauth.ProviderConfig) *Flow {
	applyEnv(&cfg, "QUADAUTH_FACEBOOK_")
	return &Flow{
		provider: quadauth.ProviderFacebook,
		Config: &oauth2lib.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"email", "public_profile"},
			Endpoint:     facebook.Endpoint,
		},
		UserInfoURL: "https://graph.facebook.com/me?fields=id,name,email",
	}
}

// NewGoogle builds the Google flow. Empty config fields fall back to
// the QUADAUTH_GOOGLE_* environment variables.
func NewGoogle(cfg quadauth.ProviderConfig) *Flow {
	applyEnv(&cfg, "QUADAUTH_GOOGLE_")
	return &Flow{
		provider: quadauth.ProviderGoogle,
		Config: &oauth2lib.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
	}
}

func applyEnv(cfg *quadauth.ProviderConfig, prefix string) {
	if cfg.ClientID == "" {
		cfg.ClientID = os.Getenv(prefix + "CLIENT_ID")
	}
	if cfg.ClientSecret == "" {
		cfg.ClientSecret = os.Getenv(prefix + "CLIENT_SECRET")
	}
	if cfg.CallbackURL == "" {
		cfg.CallbackURL = os.Getenv(prefix + "CALLBACK_URL")
	}
}

func (f *Flow) Provider() quadauth.Provider { return f.provider }

// Begin sets the state cookie and redirects to the provider's consent
// page.
func (f *Flow) Begin(w http.ResponseWriter, r *http.Request) {
	state, err := setStateCookie(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, f.Config.AuthCodeURL(state), http.StatusFound)
}

// Complete validates the state, exchanges the code for a token,
// fetches the provider profile and returns the normalized event.
func (f *Flow) Complete(r *http.Request) (quadauth.Event, error) {
	if err := checkState(r); err != nil {
		return quadauth.Event{}, err
	}

	token, err := f.Config.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		return quadauth.Event{}, fmt.Errorf("code exchange: %w", err)
	}

	userInfo, err := f.fetchUserInfo(token)
	if err != nil {
		return quadauth.Event{}, err
	}

	id, _ := userInfo["id"].(string)
	if id == "" {
		return quadauth.Event{}, fmt.Errorf("%s userinfo has no id", f.provider)
	}
	name, _ := userInfo["name"].(string)

	return quadauth.Event{
		Provider:   f.provider,
		ProviderID: id,
		Profile: quadauth.EventProfile{
			Name:  name,
			Email: firstEmail(userInfo),
		},
		Credentials: quadauth.EventCredentials{Token: token.AccessToken},
	}, nil
}

func (f *Flow) fetchUserInfo(token *oauth2lib.Token) (map[string]any, error) {
	req, err := http.NewRequest(http.MethodGet, f.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/json")

	client := f.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read userinfo: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned %d", resp.StatusCode)
	}

	var userInfo map[string]any
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, fmt.Errorf("parse userinfo: %w", err)
	}
	return userInfo, nil
}

// firstEmail picks the profile email. Some providers return a single
// "email" field, some a list; when several are present the first one
// wins.
func firstEmail(userInfo map[string]any) string {
	if email, ok := userInfo["email"].(string); ok && email != "" {
		return email
	}
	if emails, ok := userInfo["emails"].([]any); ok && len(emails) > 0 {
		if email, ok := emails[0].(string); ok {
			return email
		}
		if entry, ok := emails[0].(map[string]any); ok {
			if email, ok := entry["value"].(string); ok {
				return email
			}
		}
	}
	return ""
}
