package model

import (
	"time"
)

type Admin struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type CreateAdminParams struct {
	Username     string
	PasswordHash string
}

// AdminIdentity is what a verified session token carries.
type AdminIdentity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
