package quadauth

import (
	"context"
	"fmt"
	"time"

	"github.com/alexedwards/scs/v2"
)

const sessionUserKey = "loggedInUserId"

// SessionBinder maps users to and from the opaque session token that
// scs manages in its cookie. The binder only ever stores the user id;
// the record itself is re-read from the store on every request so a
// link or unlink is visible immediately.
type SessionBinder struct {
	Manager *scs.SessionManager
	Users   UserStore
}

// NewSessionManager returns an scs session manager configured the way
// this package expects: cookie-based, HttpOnly, one-day lifetime.
// Callers that need a different backing store can swap Manager.Store
// before serving.
func NewSessionManager() *scs.SessionManager {
	sm := scs.New()
	sm.Lifetime = 24 * time.Hour
	sm.Cookie.Name = "quadauth_session"
	sm.Cookie.HttpOnly = true
	return sm
}

func NewSessionBinder(manager *scs.SessionManager, users UserStore) *SessionBinder {
	return &SessionBinder{Manager: manager, Users: users}
}

// Bind attaches user to the current session. The session token is
// renewed first so a login never continues a pre-auth session id.
func (b *SessionBinder) Bind(ctx context.Context, user *User) error {
	if err := b.Manager.RenewToken(ctx); err != nil {
		return fmt.Errorf("renew session token: %w", err)
	}
	b.Manager.Put(ctx, sessionUserKey, user.ID)
	return nil
}

// Current returns the user bound to the session, or (nil, nil) when
// the session is anonymous or the bound id no longer resolves.
func (b *SessionBinder) Current(ctx context.Context) (*User, error) {
	id := b.Manager.GetString(ctx, sessionUserKey)
	if id == "" {
		return nil, nil
	}
	user, err := b.Users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session user: %w", err)
	}
	return user, nil
}

// Unbind destroys the session entirely (logout).
func (b *SessionBinder) Unbind(ctx context.Context) error {
	return b.Manager.Destroy(ctx)
}

// Flash stores a one-shot message under name; PopFlash consumes it.
// The login and signup forms use these to surface rejection reasons
// across the post/redirect/get cycle.
func (b *SessionBinder) Flash(ctx context.Context, name, message string) {
	b.Manager.Put(ctx, "flash:"+name, message)
}

func (b *SessionBinder) PopFlash(ctx context.Context, name string) string {
	return b.Manager.PopString(ctx, "flash:"+name)
}
