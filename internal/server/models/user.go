// Package models defines server-side data models persisted in the database.
package models

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     *string
	Currency     string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public projection of a User. It never carries the password hash.
type Profile struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
	Currency string  `json:"currency"`
	Role     string  `json:"role"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Currency: u.Currency,
		Role:     u.Role,
	}
}
