package models

import "time"

// Client is a customer of the business.
type Client struct {
	ID        int64
	Name      string
	Phone     string
	Address   string
	Email     string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
