package domain

import (
	"slices"
	"time"
)

const (
	RoleAdmin    = "ROLE_ADMIN"
	RoleCustomer = "ROLE_CUSTOMER"
)

// User models an account of the station, either a customer or an administrator.
type User struct {
	ID              int64     `json:"id" bson:"_id"`
	Username        string    `json:"username" bson:"username"`
	Email           string    `json:"email" bson:"email"`
	PasswordHash    string    `json:"-" bson:"password_hash"`
	Roles           []string  `json:"roles" bson:"roles"`
	FirstName       string    `json:"firstName" bson:"first_name"`
	LastName        string    `json:"lastName" bson:"last_name"`
	Address         string    `json:"address,omitempty" bson:"address,omitempty"`
	Phone           string    `json:"phone,omitempty" bson:"phone,omitempty"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty" bson:"profile_image_url,omitempty"`
	CreatedAt       time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updated_at"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// FullName joins first and last name the way booking listings display it.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserSession is the identity record returned by a successful login and held
// by the client for the duration of that login.
type UserSession struct {
	Token           string   `json:"token" validate:"required"`
	Type            string   `json:"type,omitempty"`
	ID              int64    `json:"id"`
	Username        string   `json:"username" validate:"required"`
	Email           string   `json:"email"`
	ProfileImageURL string   `json:"profileImageUrl,omitempty"`
	Roles           []string `json:"roles"`
}

// IsAdmin gates admin-only capabilities in the client. The server stays authoritative.
func (s *UserSession) IsAdmin() bool {
	return s != nil && slices.Contains(s.Roles, RoleAdmin)
}

// IsCustomer gates customer-only capabilities in the client.
func (s *UserSession) IsCustomer() bool {
	return s != nil && slices.Contains(s.Roles, RoleCustomer)
}

// UserProfile is the public view of a user returned by /users/me.
type UserProfile struct {
	ID              int64    `json:"id" validate:"required"`
	Username        string   `json:"username" validate:"required"`
	Email           string   `json:"email"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Address         string   `json:"address,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	ProfileImageURL string   `json:"profileImageUrl,omitempty"`
	Roles           []string `json:"roles"`
}

// ToProfile strips credentials from a user.
func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Address:         u.Address,
		Phone:           u.Phone,
		ProfileImageURL: u.ProfileImageURL,
		Roles:           u.Roles,
	}
}
