// Package user defines the user record persisted in the users collection
// and its public projection returned by the HTTP API.
package user

import "time"

// User is a registered account. The Password field holds the bcrypt digest,
// never the plaintext; it is written to the backing file but excluded from
// every API response via Public().
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RecordID returns the stable identifier used by the persistent collection.
func (u *User) RecordID() string {
	return u.ID
}

// Touch stamps the last-update timestamp; called by the collection on every mutation.
func (u *User) Touch(now time.Time) {
	u.UpdatedAt = now
}

// Clone returns an independent copy; every field is a value, so a shallow
// copy suffices.
func (u *User) Clone() *User {
	clone := *u
	return &clone
}

// Public is the digest-free view of a user.
type Public struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public strips the password digest.
func (u *User) Public() Public {
	return Public{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
