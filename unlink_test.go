package quadauth_test

import (
	"context"
	"testing"

	"github.com/quadauth/quadauth"
	"github.com/quadauth/quadauth/stores"
)

func TestUnlinkOAuthKeepsIdentityRecord(t *testing.T) {
	store := stores.NewFSUserStore(t.TempDir())
	ctx := context.Background()

	user, err := store.SaveUser(ctx, &quadauth.User{
		Google: &quadauth.GoogleIdentity{ID: "g-123", Token: "tok", Name: "Alice", Email: "alice@gmail.com"},
	})
	if err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}

	saved, err := quadauth.Unlink(ctx, store, user, quadauth.ProviderGoogle)
	if err != nil {
		t.Fatalf("Unlink failed: %v", err)
	}
	if saved.Google == nil {
		t.Fatal("Unlink must keep the Google sub-record")
	}
	if saved.Google.Token != "" {
		t.Fatal("Unlink must clear the token")
	}
	if saved.Google.ID != "g-123" || saved.Google.Name != "Alice" {
		t.Fatalf("Unlink must keep id and profile fields: %+v", saved.Google)
	}

	// The cleared token drops Google from the linked set.
	for _, p := range saved.LinkedProviders() {
		if p == quadauth.ProviderGoogle {
			t.Fatal("Unlinked provider still reported as linked")
		}
	}

	// The change was persisted, not just applied in memory.
	reloaded, err := store.GetUserByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if reloaded.Google == nil || reloaded.Google.Token != "" {
		t.Fatalf("Persisted record does not reflect the unlink: %+v", reloaded.Google)
	}
}

func TestUnlinkTwitterClearsBothSecrets(t *testing.T) {
	store := stores.NewFSUserStore(t.TempDir())
	ctx := context.Background()

	user, err := store.SaveUser(ctx, &quadauth.User{
		Twitter: &quadauth.TwitterIdentity{ID: "t-1", Token: "tok", TokenSecret: "sec", Username: "alice"},
	})
	if err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}

	saved, err := quadauth.Unlink(ctx, store, user, quadauth.ProviderTwitter)
	if err != nil {
		t.Fatalf("Unlink failed: %v", err)
	}
	if saved.Twitter.Token != "" || saved.Twitter.TokenSecret != "" {
		t.Fatalf("Both token and secret must be cleared: %+v", saved.Twitter)
	}
	if saved.Twitter.Username != "alice" {
		t.Fatal("Profile fields must survive the unlink")
	}
}

func TestUnlinkLocalRemovesWholeIdentity(t *testing.T) {
	store := stores.NewFSUserStore(t.TempDir())
	ctx := context.Background()

	hash, err := quadauth.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	user, err := store.SaveUser(ctx, &quadauth.User{
		Local:  &quadauth.LocalIdentity{Email: "alice@example.com", PasswordHash: hash},
		Google: &quadauth.GoogleIdentity{ID: "g-1", Token: "tok"},
	})
	if err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}

	saved, err := quadauth.Unlink(ctx, store, user, quadauth.ProviderLocal)
	if err != nil {
		t.Fatalf("Unlink failed: %v", err)
	}
	if saved.Local != nil {
		t.Fatal("Local unlink must remove the whole sub-record")
	}
	if saved.Google == nil || saved.Google.Token != "tok" {
		t.Fatal("Other identities must be untouched")
	}

	// The email is free for a new signup now.
	found, err := store.FindByLocalEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("FindByLocalEmail failed: %v", err)
	}
	if found != nil {
		t.Fatal("Unlinked email still resolves to the account")
	}
}

func TestUnlinkUnknownProvider(t *testing.T) {
	store := stores.NewFSUserStore(t.TempDir())
	if _, err := quadauth.Unlink(context.Background(), store, &quadauth.User{ID: "u1"}, "github"); err == nil {
		t.Fatal("Expected an error for an unknown provider")
	}
}

func TestUnlinkAbsentIdentityIsANoop(t *testing.T) {
	store := stores.NewFSUserStore(t.TempDir())
	ctx := context.Background()

	user, err := store.SaveUser(ctx, &quadauth.User{
		Local: &quadauth.LocalIdentity{Email: "alice@example.com", PasswordHash: "x"},
	})
	if err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}
	saved, err := quadauth.Unlink(ctx, store, user, quadauth.ProviderFacebook)
	if err != nil {
		t.Fatalf("Unlink failed: %v", err)
	}
	if saved.Facebook != nil || saved.Local == nil {
		t.Fatalf("Unlinking an absent provider must change nothing: %+v", saved)
	}
}
