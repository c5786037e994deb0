// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account able to log in. Email is stored trimmed and lower-cased.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string `json:"-"`
	CreatedAt    time.Time
}
