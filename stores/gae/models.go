package gae

import (
	"time"

	"cloud.google.com/go/datastore"

	"github.com/quadauth/quadauth"
)

// KindUser is the Datastore kind holding account records.
const KindUser = "AuthUser"

// UserEntity flattens a user and its identity sub-records into one
// indexed entity so lookups by email or provider id are single-property
// queries. Empty identity key fields mean the identity is absent.
type UserEntity struct {
	Key *datastore.Key `datastore:"__key__"`

	LocalEmail        string `datastore:"local_email"`
	LocalPasswordHash string `datastore:"local_password_hash,noindex"`

	FacebookID    string `datastore:"facebook_id"`
	FacebookToken string `datastore:"facebook_token,noindex"`
	FacebookName  string `datastore:"facebook_name,noindex"`
	FacebookEmail string `datastore:"facebook_email,noindex"`

	TwitterID          string `datastore:"twitter_id"`
	TwitterToken       string `datastore:"twitter_token,noindex"`
	TwitterTokenSecret string `datastore:"twitter_token_secret,noindex"`
	TwitterUsername    string `datastore:"twitter_username,noindex"`
	TwitterDisplayName string `datastore:"twitter_display_name,noindex"`

	GoogleID    string `datastore:"google_id"`
	GoogleToken string `datastore:"google_token,noindex"`
	GoogleName  string `datastore:"google_name,noindex"`
	GoogleEmail string `datastore:"google_email,noindex"`

	CreatedAt time.Time `datastore:"created_at"`
	UpdatedAt time.Time `datastore:"updated_at"`
}

func UserToEntity(u *quadauth.User, key *datastore.Key) *UserEntity {
	e := &UserEntity{Key: key}
	if u.Local != nil {
		e.LocalEmail = u.Local.Email
		e.LocalPasswordHash = u.Local.PasswordHash
	}
	if u.Facebook != nil {
		e.FacebookID = u.Facebook.ID
		e.FacebookToken = u.Facebook.Token
		e.FacebookName = u.Facebook.Name
		e.FacebookEmail = u.Facebook.Email
	}
	if u.Twitter != nil {
		e.TwitterID = u.Twitter.ID
		e.TwitterToken = u.Twitter.Token
		e.TwitterTokenSecret = u.Twitter.TokenSecret
		e.TwitterUsername = u.Twitter.Username
		e.TwitterDisplayName = u.Twitter.DisplayName
	}
	if u.Google != nil {
		e.GoogleID = u.Google.ID
		e.GoogleToken = u.Google.Token
		e.GoogleName = u.Google.Name
		e.GoogleEmail = u.Google.Email
	}
	return e
}

func (e *UserEntity) ToUser() *quadauth.User {
	u := &quadauth.User{}
	if e.Key != nil {
		u.ID = e.Key.Name
	}
	if e.LocalEmail != "" {
		u.Local = &quadauth.LocalIdentity{
			Email:        e.LocalEmail,
			PasswordHash: e.LocalPasswordHash,
		}
	}
	if e.FacebookID != "" {
		u.Facebook = &quadauth.FacebookIdentity{
			ID:    e.FacebookID,
			Token: e.FacebookToken,
			Name:  e.FacebookName,
			Email: e.FacebookEmail,
		}
	}
	if e.TwitterID != "" {
		u.Twitter = &quadauth.TwitterIdentity{
			ID:          e.TwitterID,
			Token:       e.TwitterToken,
			TokenSecret: e.TwitterTokenSecret,
			Username:    e.TwitterUsername,
			DisplayName: e.TwitterDisplayName,
		}
	}
	if e.GoogleID != "" {
		u.Google = &quadauth.GoogleIdentity{
			ID:    e.GoogleID,
			Token: e.GoogleToken,
			Name:  e.GoogleName,
			Email: e.GoogleEmail,
		}
	}
	return u
}
