package entity

import "time"

type User struct {
	ID           int64
	MobileNumber string
	Name         string
	Surname      string
	Email        string
	Province     string
	District     string
	Tehsil       string
	Village      string
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPatch holds the profile fields a user may change; nil means unchanged.
type UserPatch struct {
	ID           int64
	MobileNumber *string
	Email        *string
	Address      *string
	UpdatedAt    time.Time
}
