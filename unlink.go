package quadauth

import (
	"context"
	"fmt"
)

// Unlink clears the provider's credentials on user and saves the
// record. The account itself survives: for OAuth providers only the
// token material is dropped, so the provider id and profile fields
// stay on the record for a later reconnect. Unlinking the local
// identity removes the email and password hash entirely.
//
// No check is made that the user keeps at least one linked identity;
// a fully unlinked account is permitted, it just cannot be found by
// any login lookup anymore.
func Unlink(ctx context.Context, store UserStore, user *User, provider Provider) (*User, error) {
	switch provider {
	case ProviderLocal:
		user.Local = nil
	case ProviderFacebook:
		if user.Facebook != nil {
			user.Facebook.Token = ""
		}
	case ProviderTwitter:
		if user.Twitter != nil {
			user.Twitter.Token = ""
			user.Twitter.TokenSecret = ""
		}
	case ProviderGoogle:
		if user.Google != nil {
			user.Google.Token = ""
		}
	default:
		return nil, fmt.Errorf("unlink: unknown provider %q", provider)
	}

	saved, err := store.SaveUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("unlink %s: %w", provider, err)
	}
	return saved, nil
}
