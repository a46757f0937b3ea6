package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quadauth/quadauth"
)

// AutoMigrate creates or updates the auth tables, including the unique
// indexes on the identity key columns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&UserModel{})
}

// UserStore implements quadauth.UserStore on a GORM database. Unlike
// the file store, uniqueness of local emails and provider ids is
// enforced by the database itself, so concurrent signups for the same
// identity cannot both succeed.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) GetUserByID(ctx context.Context, id string) (*quadauth.User, error) {
	var model UserModel
	err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return model.ToUser(), nil
}

func (s *UserStore) FindByLocalEmail(ctx context.Context, email string) (*quadauth.User, error) {
	return s.findOne(ctx, "local_email = ?", email)
}

func (s *UserStore) FindByProviderID(ctx context.Context, provider quadauth.Provider, providerID string) (*quadauth.User, error) {
	var column string
	switch provider {
	case quadauth.ProviderFacebook:
		column = "facebook_id"
	case quadauth.ProviderTwitter:
		column = "twitter_id"
	case quadauth.ProviderGoogle:
		column = "google_id"
	default:
		return nil, fmt.Errorf("find by provider id: unsupported provider %q", provider)
	}
	return s.findOne(ctx, column+" = ?", providerID)
}

func (s *UserStore) findOne(ctx context.Context, query string, arg string) (*quadauth.User, error) {
	var model UserModel
	err := s.db.WithContext(ctx).First(&model, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return model.ToUser(), nil
}

// SaveUser inserts or fully replaces a user row. Save writes every
// column, so identities removed from the record are cleared in the row
// as well.
func (s *UserStore) SaveUser(ctx context.Context, user *quadauth.User) (*quadauth.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	model := UserToModel(user)
	if err := s.db.WithContext(ctx).Save(model).Error; err != nil {
		return nil, fmt.Errorf("save user %s: %w", user.ID, err)
	}
	return model.ToUser(), nil
}
