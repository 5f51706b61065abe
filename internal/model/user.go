package model

import "time"

// User represents an application user as stored in the `users` table.
// A user authenticates with email and bcrypt-hashed password and holds
// one of two roles: OWNER accounts manage the lease catalog, CUSTOMER
// accounts book reservations.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – OWNER or CUSTOMER.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models a row in the `refresh_tokens` table. Only the
// SHA-256 hash of a refresh token is persisted; the raw value is
// returned to the client exactly once.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
