// Package models defines the data types shared across the TokenGate gateway.
package models

import "time"

// User status values. A locked user exists but may not authenticate.
const (
	StatusActive = "active"
	StatusLocked = "locked"
)

// User is the local identity record. Mail is the unique key: the store
// guarantees at most one User per mail address.
type User struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Mail      string    `json:"mail"`
	Firstname string    `json:"firstname"`
	Lastname  string    `json:"lastname"`
	Status    string    `json:"status"`
	Admin     bool      `json:"admin"`

	// CredentialDigest holds random credential material generated at
	// provisioning time. It exists only because every user record must carry
	// credentials; bearer-provisioned users authenticate via token only.
	// Never serialized, never logged.
	CredentialDigest string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Active reports whether the user may authenticate.
func (u *User) Active() bool {
	return u.Status == StatusActive
}
