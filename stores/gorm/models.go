package gorm

import (
	"time"

	"github.com/quadauth/quadauth"
)

// UserModel flattens the user record and its four optional identity
// sub-records into one row. Identity key columns are nullable string
// pointers so absent identities stay NULL and the unique indexes only
// bite on real values.
type UserModel struct {
	ID string `gorm:"primaryKey;size:64"`

	LocalEmail        *string `gorm:"uniqueIndex;size:255"`
	LocalPasswordHash string  `gorm:"size:128"`

	FacebookID    *string `gorm:"uniqueIndex;size:64"`
	FacebookToken string  `gorm:"size:512"`
	FacebookName  string  `gorm:"size:255"`
	FacebookEmail string  `gorm:"size:255"`

	TwitterID          *string `gorm:"uniqueIndex;size:64"`
	TwitterToken       string  `gorm:"size:512"`
	TwitterTokenSecret string  `gorm:"size:512"`
	TwitterUsername    string  `gorm:"size:255"`
	TwitterDisplayName string  `gorm:"size:255"`

	GoogleID    *string `gorm:"uniqueIndex;size:64"`
	GoogleToken string  `gorm:"size:512"`
	GoogleName  string  `gorm:"size:255"`
	GoogleEmail string  `gorm:"size:255"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string {
	return "auth_users"
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// UserToModel flattens a user for storage.
func UserToModel(u *quadauth.User) *UserModel {
	m := &UserModel{ID: u.ID}
	if u.Local != nil {
		m.LocalEmail = optional(u.Local.Email)
		m.LocalPasswordHash = u.Local.PasswordHash
	}
	if u.Facebook != nil {
		m.FacebookID = optional(u.Facebook.ID)
		m.FacebookToken = u.Facebook.Token
		m.FacebookName = u.Facebook.Name
		m.FacebookEmail = u.Facebook.Email
	}
	if u.Twitter != nil {
		m.TwitterID = optional(u.Twitter.ID)
		m.TwitterToken = u.Twitter.Token
		m.TwitterTokenSecret = u.Twitter.TokenSecret
		m.TwitterUsername = u.Twitter.Username
		m.TwitterDisplayName = u.Twitter.DisplayName
	}
	if u.Google != nil {
		m.GoogleID = optional(u.Google.ID)
		m.GoogleToken = u.Google.Token
		m.GoogleName = u.Google.Name
		m.GoogleEmail = u.Google.Email
	}
	return m
}

// ToUser rebuilds the user record; an identity sub-record exists when
// its key column is non-NULL.
func (m *UserModel) ToUser() *quadauth.User {
	u := &quadauth.User{ID: m.ID}
	if m.LocalEmail != nil {
		u.Local = &quadauth.LocalIdentity{
			Email:        value(m.LocalEmail),
			PasswordHash: m.LocalPasswordHash,
		}
	}
	if m.FacebookID != nil {
		u.Facebook = &quadauth.FacebookIdentity{
			ID:    value(m.FacebookID),
			Token: m.FacebookToken,
			Name:  m.FacebookName,
			Email: m.FacebookEmail,
		}
	}
	if m.TwitterID != nil {
		u.Twitter = &quadauth.TwitterIdentity{
			ID:          value(m.TwitterID),
			Token:       m.TwitterToken,
			TokenSecret: m.TwitterTokenSecret,
			Username:    m.TwitterUsername,
			DisplayName: m.TwitterDisplayName,
		}
	}
	if m.GoogleID != nil {
		u.Google = &quadauth.GoogleIdentity{
			ID:    value(m.GoogleID),
			Token: m.GoogleToken,
			Name:  m.GoogleName,
			Email: m.GoogleEmail,
		}
	}
	return u
}
