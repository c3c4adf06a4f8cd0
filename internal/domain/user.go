package domain

import "time"

// User is the authenticated principal. Email is the immutable lookup key and
// is stored lowercase; EmailVerified flips on the first successful magic-link
// verification, AdminVerified is set out-of-band by an administrator.
type User struct {
	ID            string
	Email         string
	EmailVerified bool
	AdminVerified bool
	Profile       Profile
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Profile carries the user's self-reported attributes. None of these are
// security-relevant.
type Profile struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Role    string `json:"role,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	Country string `json:"country,omitempty"`
}

// Identity is the request-scoped authenticated identity attached to the
// context by the auth middleware.
type Identity struct {
	ID    string
	Email string
}
