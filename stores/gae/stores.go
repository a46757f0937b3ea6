package gae

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/datastore"
	"github.com/google/uuid"

	"github.com/quadauth/quadauth"
)

// UserStore implements quadauth.UserStore on Google Cloud Datastore.
// Like the file store it relies on lookup-before-create for identity
// uniqueness; a concurrent duplicate signup can slip through, which the
// next identity lookup surfaces as whichever record the query returns
// first.
type UserStore struct {
	client    *datastore.Client
	namespace string
}

// NewUserStore creates a Datastore-backed UserStore. namespace may be
// empty for the default namespace.
func NewUserStore(client *datastore.Client, namespace string) *UserStore {
	return &UserStore{client: client, namespace: namespace}
}

func (s *UserStore) userKey(id string) *datastore.Key {
	key := datastore.NameKey(KindUser, id, nil)
	key.Namespace = s.namespace
	return key
}

func (s *UserStore) GetUserByID(ctx context.Context, id string) (*quadauth.User, error) {
	var entity UserEntity
	err := s.client.Get(ctx, s.userKey(id), &entity)
	if errors.Is(err, datastore.ErrNoSuchEntity) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return entity.ToUser(), nil
}

func (s *UserStore) FindByLocalEmail(ctx context.Context, email string) (*quadauth.User, error) {
	return s.findOne(ctx, "local_email", email)
}

func (s *UserStore) FindByProviderID(ctx context.Context, provider quadauth.Provider, providerID string) (*quadauth.User, error) {
	var field string
	switch provider {
	case quadauth.ProviderFacebook:
		field = "facebook_id"
	case quadauth.ProviderTwitter:
		field = "twitter_id"
	case quadauth.ProviderGoogle:
		field = "google_id"
	default:
		return nil, fmt.Errorf("find by provider id: unsupported provider %q", provider)
	}
	return s.findOne(ctx, field, providerID)
}

func (s *UserStore) findOne(ctx context.Context, field, value string) (*quadauth.User, error) {
	query := datastore.NewQuery(KindUser).
		Namespace(s.namespace).
		FilterField(field, "=", value).
		Limit(1)
	var entities []UserEntity
	if _, err := s.client.GetAll(ctx, query, &entities); err != nil {
		return nil, fmt.Errorf("query %s: %w", field, err)
	}
	if len(entities) == 0 {
		return nil, nil
	}
	return entities[0].ToUser(), nil
}

func (s *UserStore) SaveUser(ctx context.Context, user *quadauth.User) (*quadauth.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	key := s.userKey(user.ID)
	entity := UserToEntity(user, key)
	entity.UpdatedAt = time.Now()

	var existing UserEntity
	switch err := s.client.Get(ctx, key, &existing); {
	case errors.Is(err, datastore.ErrNoSuchEntity):
		entity.CreatedAt = entity.UpdatedAt
	case err != nil:
		return nil, fmt.Errorf("save user %s: %w", user.ID, err)
	default:
		entity.CreatedAt = existing.CreatedAt
	}

	if _, err := s.client.Put(ctx, key, entity); err != nil {
		return nil, fmt.Errorf("save user %s: %w", user.ID, err)
	}
	return entity.ToUser(), nil
}
