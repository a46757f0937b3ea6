// Package oauth1 implements the Twitter three-legged OAuth1 flow with
// github.com/dghubble/oauth1, normalizing the verified account into a
// quadauth.Event the resolver understands.
package oauth1

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/dghubble/oauth1/twitter"

	"github.com/quadauth/quadauth"
)

const requestSecretCookie = "twitterRequestSecret"

// TwitterFlow implements quadauth.OAuthFlow for Twitter. OAuth1 has no
// state parameter; instead the request-token secret obtained at Begin
// must survive until the callback, which this flow does with a
// short-lived HttpOnly cookie.
type TwitterFlow struct {
	Config *oauth1.Config

	// VerifyURL is the credential-verification endpoint queried after
	// the token exchange. Exported for tests.
	VerifyURL string
}

// NewTwitter builds the Twitter flow. Empty config fields fall back to
// the QUADAUTH_TWITTER_* environment variables; ClientID/ClientSecret
// map onto Twitter's consumer key/secret pair.
func NewTwitter(cfg quadauth.ProviderConfig) *TwitterFlow {
	if cfg.ClientID == "" {
		cfg.ClientID = os.Getenv("QUADAUTH_TWITTER_CLIENT_ID")
	}
	if cfg.ClientSecret == "" {
		cfg.ClientSecret = os.Getenv("QUADAUTH_TWITTER_CLIENT_SECRET")
	}
	if cfg.CallbackURL == "" {
		cfg.CallbackURL = os.Getenv("QUADAUTH_TWITTER_CALLBACK_URL")
	}
	return &TwitterFlow{
		Config: &oauth1.Config{
			ConsumerKey:    cfg.ClientID,
			ConsumerSecret: cfg.ClientSecret,
			CallbackURL:    cfg.CallbackURL,
			Endpoint:       twitter.AuthorizeEndpoint,
		},
		VerifyURL: "https://api.twitter.com/1.1/account/verify_credentials.json",
	}
}

func (f *TwitterFlow) Provider() quadauth.Provider { return quadauth.ProviderTwitter }

// Begin obtains a request token and redirects to Twitter's authorize
// page, parking the request secret in a cookie for the callback.
func (f *TwitterFlow) Begin(w http.ResponseWriter, r *http.Request) {
	requestToken, requestSecret, err := f.Config.RequestToken()
	if err != nil {
		http.Error(w, fmt.Sprintf("twitter request token: %s", err), http.StatusBadGateway)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     requestSecretCookie,
		Value:    requestSecret,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
	})

	authorizationURL, err := f.Config.AuthorizationURL(requestToken)
	if err != nil {
		http.Error(w, fmt.Sprintf("twitter authorization url: %s", err), http.StatusBadGateway)
		return
	}
	http.Redirect(w, r, authorizationURL.String(), http.StatusFound)
}

// Complete exchanges the callback verifier for an access token pair
// and fetches the account's identity.
func (f *TwitterFlow) Complete(r *http.Request) (quadauth.Event, error) {
	requestToken, verifier, err := oauth1.ParseAuthorizationCallback(r)
	if err != nil {
		return quadauth.Event{}, fmt.Errorf("parse twitter callback: %w", err)
	}

	secretCookie, err := r.Cookie(requestSecretCookie)
	if err != nil {
		return quadauth.Event{}, fmt.Errorf("missing twitter request secret")
	}

	accessToken, accessSecret, err := f.Config.AccessToken(requestToken, secretCookie.Value, verifier)
	if err != nil {
		return quadauth.Event{}, fmt.Errorf("twitter access token: %w", err)
	}

	account, err := f.verifyCredentials(r, accessToken, accessSecret)
	if err != nil {
		return quadauth.Event{}, err
	}

	return quadauth.Event{
		Provider:   quadauth.ProviderTwitter,
		ProviderID: account.ID,
		Profile: quadauth.EventProfile{
			Username:    account.ScreenName,
			DisplayName: account.Name,
		},
		Credentials: quadauth.EventCredentials{
			Token:       accessToken,
			TokenSecret: accessSecret,
		},
	}, nil
}

type twitterAccount struct {
	ID         string `json:"id_str"`
	ScreenName string `json:"screen_name"`
	Name       string `json:"name"`
}

func (f *TwitterFlow) verifyCredentials(r *http.Request, accessToken, accessSecret string) (*twitterAccount, error) {
	client := f.Config.Client(r.Context(), oauth1.NewToken(accessToken, accessSecret))
	resp, err := client.Get(f.VerifyURL)
	if err != nil {
		return nil, fmt.Errorf("verify twitter credentials: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read twitter account: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verify_credentials returned %d", resp.StatusCode)
	}

	var account twitterAccount
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, fmt.Errorf("parse twitter account: %w", err)
	}
	if account.ID == "" {
		return nil, fmt.Errorf("twitter account has no id")
	}
	return &account, nil
}
