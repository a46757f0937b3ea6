// Package stores provides a file-backed quadauth.UserStore that keeps
// each user as one JSON document. It is meant for development and
// tests; identity lookups scan the storage directory and uniqueness is
// lookup-before-create only. Production deployments should use
// stores/gorm or stores/gae instead.
package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/quadauth/quadauth"
)

// FSUserStore stores users as JSON files under <StoragePath>/users.
type FSUserStore struct {
	StoragePath string
}

func NewFSUserStore(storagePath string) *FSUserStore {
	return &FSUserStore{StoragePath: storagePath}
}

func (s *FSUserStore) userPath(id string) string {
	return filepath.Join(s.StoragePath, "users", id+".json")
}

func (s *FSUserStore) GetUserByID(ctx context.Context, id string) (*quadauth.User, error) {
	if id == "" {
		return nil, nil
	}
	data, err := os.ReadFile(s.userPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read user %s: %w", id, err)
	}
	var user quadauth.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", id, err)
	}
	return &user, nil
}

func (s *FSUserStore) FindByLocalEmail(ctx context.Context, email string) (*quadauth.User, error) {
	return s.scan(func(u *quadauth.User) bool {
		return u.Local != nil && u.Local.Email == email
	})
}

func (s *FSUserStore) FindByProviderID(ctx context.Context, provider quadauth.Provider, providerID string) (*quadauth.User, error) {
	if providerID == "" {
		return nil, nil
	}
	return s.scan(func(u *quadauth.User) bool {
		switch provider {
		case quadauth.ProviderFacebook:
			return u.Facebook != nil && u.Facebook.ID == providerID
		case quadauth.ProviderTwitter:
			return u.Twitter != nil && u.Twitter.ID == providerID
		case quadauth.ProviderGoogle:
			return u.Google != nil && u.Google.ID == providerID
		}
		return false
	})
}

func (s *FSUserStore) SaveUser(ctx context.Context, user *quadauth.User) (*quadauth.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	path := s.userPath(user.ID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create users dir: %w", err)
	}

	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode user %s: %w", user.ID, err)
	}
	if err := writeAtomic(path, data); err != nil {
		return nil, fmt.Errorf("write user %s: %w", user.ID, err)
	}
	return user, nil
}

// scan walks the users directory and returns the first user matching
// the predicate, or (nil, nil) when none does.
func (s *FSUserStore) scan(match func(*quadauth.User) bool) (*quadauth.User, error) {
	dir := filepath.Join(s.StoragePath, "users")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list users: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		var user quadauth.User
		if err := json.Unmarshal(data, &user); err != nil {
			return nil, fmt.Errorf("decode %s: %w", entry.Name(), err)
		}
		if match(&user) {
			return &user, nil
		}
	}
	return nil, nil
}

// writeAtomic writes data via a temp file and rename so a crashed
// write never leaves a truncated user document behind.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
