package stores_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/quadauth/quadauth"
	"github.com/quadauth/quadauth/stores"
)

func TestSaveAssignsIDAndRoundTrips(t *testing.T) {
	store := stores.NewFSUserStore(t.TempDir())
	ctx := context.Background()

	saved, err := store.SaveUser(ctx, &quadauth.User{
		Local: &quadauth.LocalIdentity{Email: "alice@example.com", PasswordHash: "hash"},
	})
	if err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("SaveUser should assign an id")
	}

	got, err := store.GetUserByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if got == nil || got.Local == nil || got.Local.Email != "alice@example.com" {
		t.Fatalf("Round trip lost data: %+v", got)
	}
}

func TestSaveKeepsExplicitID(t *testing.T) {
	store := stores.NewFSUserStore(t.TempDir())

	saved, err := store.SaveUser(context.Background(), &quadauth.User{ID: "fixed-id"})
	if err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}
	if saved.ID != "fixed-id" {
		t.Fatalf("SaveUser replaced an explicit id: %s", saved.ID)
	}
}

func TestGetUserByIDMissing(t *testing.T) {
	store := stores.NewFSUserStore(t.TempDir())

	got, err := store.GetUserByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if got != nil {
		t.Fatalf("Expected (nil, nil) for an unknown id, got %+v", got)
	}
}

func TestFindByLocalEmail(t *testing.T) {
	store := stores.NewFSUserStore(t.TempDir())
	ctx := context.Background()

	saved, err := store.SaveUser(ctx, &quadauth.User{
		Local: &quadauth.LocalIdentity{Email: "alice@example.com", PasswordHash: "hash"},
	})
	if err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}
	if _, err := store.SaveUser(ctx, &quadauth.User{
		Google: &quadauth.GoogleIdentity{ID: "g-1", Token: "tok"},
	}); err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}

	got, err := store.FindByLocalEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("FindByLocalEmail failed: %v", err)
	}
	if got == nil || got.ID != saved.ID {
		t.Fatalf("Wrong user for email lookup: %+v", got)
	}

	missing, err := store.FindByLocalEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("FindByLocalEmail failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("Expected (nil, nil) for an unknown email, got %+v", missing)
	}
}

func TestFindByProviderID(t *testing.T) {
	store := stores.NewFSUserStore(t.TempDir())
	ctx := context.Background()

	saved, err := store.SaveUser(ctx, &quadauth.User{
		Facebook: &quadauth.FacebookIdentity{ID: "fb-1", Token: "tok"},
		Twitter:  &quadauth.TwitterIdentity{ID: "tw-1", Token: "tok", TokenSecret: "sec"},
	})
	if err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}

	for _, tt := range []struct {
		provider quadauth.Provider
		id       string
	}{
		{quadauth.ProviderFacebook, "fb-1"},
		{quadauth.ProviderTwitter, "tw-1"},
	} {
		got, err := store.FindByProviderID(ctx, tt.provider, tt.id)
		if err != nil {
			t.Fatalf("FindByProviderID(%s) failed: %v", tt.provider, err)
		}
		if got == nil || got.ID != saved.ID {
			t.Fatalf("Wrong user for %s lookup: %+v", tt.provider, got)
		}
	}

	missing, err := store.FindByProviderID(ctx, quadauth.ProviderGoogle, "g-1")
	if err != nil {
		t.Fatalf("FindByProviderID failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("Expected (nil, nil) for an unlinked provider, got %+v", missing)
	}

	// An empty provider id never matches, even if a record somehow has
	// an empty id field.
	none, err := store.FindByProviderID(ctx, quadauth.ProviderFacebook, "")
	if err != nil {
		t.Fatalf("FindByProviderID failed: %v", err)
	}
	if none != nil {
		t.Fatalf("Empty provider id matched a record: %+v", none)
	}
}

func TestUpdatePersists(t *testing.T) {
	store := stores.NewFSUserStore(t.TempDir())
	ctx := context.Background()

	saved, err := store.SaveUser(ctx, &quadauth.User{
		Local: &quadauth.LocalIdentity{Email: "alice@example.com", PasswordHash: "hash"},
	})
	if err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}

	saved.Google = &quadauth.GoogleIdentity{ID: "g-1", Token: "tok"}
	if _, err := store.SaveUser(ctx, saved); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.GetUserByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if got.Google == nil || got.Google.ID != "g-1" {
		t.Fatalf("Update not persisted: %+v", got)
	}
	if got.Local == nil {
		t.Fatal("Update dropped the existing local identity")
	}
}

func TestScanIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store := stores.NewFSUserStore(dir)
	ctx := context.Background()

	if _, err := store.SaveUser(ctx, &quadauth.User{
		Local: &quadauth.LocalIdentity{Email: "alice@example.com"},
	}); err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "users", "notes.txt"), []byte("not json"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := store.FindByLocalEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("FindByLocalEmail failed: %v", err)
	}
	if got == nil {
		t.Fatal("Lookup failed in a directory with non-user files")
	}
}
