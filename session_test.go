package quadauth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quadauth/quadauth"
	"github.com/quadauth/quadauth/stores"
)

func newTestBinder(t *testing.T) (*quadauth.SessionBinder, quadauth.UserStore) {
	t.Helper()
	store := stores.NewFSUserStore(t.TempDir())
	return quadauth.NewSessionBinder(quadauth.NewSessionManager(), store), store
}

// doSession runs fn inside a request wrapped by the session middleware
// and returns the response, carrying cookies over from prior requests.
func doSession(t *testing.T, binder *quadauth.SessionBinder, cookies []*http.Cookie, fn func(r *http.Request)) *http.Response {
	t.Helper()
	handler := binder.Manager.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fn(r)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Result()
}

func TestBindAndCurrent(t *testing.T) {
	binder, store := newTestBinder(t)

	user, err := store.SaveUser(t.Context(), &quadauth.User{
		Local: &quadauth.LocalIdentity{Email: "alice@example.com", PasswordHash: "x"},
	})
	if err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}

	resp := doSession(t, binder, nil, func(r *http.Request) {
		if err := binder.Bind(r.Context(), user); err != nil {
			t.Fatalf("Bind failed: %v", err)
		}
	})
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("Bind should set a session cookie")
	}

	doSession(t, binder, cookies, func(r *http.Request) {
		current, err := binder.Current(r.Context())
		if err != nil {
			t.Fatalf("Current failed: %v", err)
		}
		if current == nil || current.ID != user.ID {
			t.Fatalf("Session did not resolve to the bound user: %+v", current)
		}
	})
}

func TestCurrentAnonymous(t *testing.T) {
	binder, _ := newTestBinder(t)
	doSession(t, binder, nil, func(r *http.Request) {
		current, err := binder.Current(r.Context())
		if err != nil {
			t.Fatalf("Current failed: %v", err)
		}
		if current != nil {
			t.Fatalf("Anonymous session returned a user: %+v", current)
		}
	})
}

func TestUnbindDestroysSession(t *testing.T) {
	binder, store := newTestBinder(t)

	user, err := store.SaveUser(t.Context(), &quadauth.User{})
	if err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}

	resp := doSession(t, binder, nil, func(r *http.Request) {
		if err := binder.Bind(r.Context(), user); err != nil {
			t.Fatalf("Bind failed: %v", err)
		}
	})
	cookies := resp.Cookies()

	doSession(t, binder, cookies, func(r *http.Request) {
		if err := binder.Unbind(r.Context()); err != nil {
			t.Fatalf("Unbind failed: %v", err)
		}
	})
	doSession(t, binder, cookies, func(r *http.Request) {
		current, err := binder.Current(r.Context())
		if err != nil {
			t.Fatalf("Current failed: %v", err)
		}
		if current != nil {
			t.Fatal("Session survived Unbind")
		}
	})
}

func TestFlashIsOneShot(t *testing.T) {
	binder, _ := newTestBinder(t)

	resp := doSession(t, binder, nil, func(r *http.Request) {
		binder.Flash(r.Context(), "loginMessage", "Invalid email or password.")
	})
	cookies := resp.Cookies()

	doSession(t, binder, cookies, func(r *http.Request) {
		if got := binder.PopFlash(r.Context(), "loginMessage"); got != "Invalid email or password." {
			t.Fatalf("PopFlash returned %q", got)
		}
		if got := binder.PopFlash(r.Context(), "loginMessage"); got != "" {
			t.Fatalf("Second PopFlash should be empty, got %q", got)
		}
	})
}

func TestRequireUserRedirectsAnonymous(t *testing.T) {
	binder, _ := newTestBinder(t)
	mw := &quadauth.Middleware{Sessions: binder}

	called := false
	handler := binder.Manager.LoadAndSave(mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Fatal("Guarded handler ran for an anonymous request")
	}
	resp := rec.Result()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("Expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Fatalf("Expected redirect to /, got %q", loc)
	}
}

func TestExtractUserPopulatesContext(t *testing.T) {
	binder, store := newTestBinder(t)
	mw := &quadauth.Middleware{Sessions: binder}

	user, err := store.SaveUser(t.Context(), &quadauth.User{})
	if err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}
	resp := doSession(t, binder, nil, func(r *http.Request) {
		if err := binder.Bind(r.Context(), user); err != nil {
			t.Fatalf("Bind failed: %v", err)
		}
	})

	handler := binder.Manager.LoadAndSave(mw.ExtractUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := quadauth.UserFromContext(r.Context())
		if got == nil || got.ID != user.ID {
			t.Fatalf("Context user mismatch: %+v", got)
		}
	})))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range resp.Cookies() {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
}
