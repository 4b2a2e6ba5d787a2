package domain

import "time"

// OAuthToken is a persisted Google OAuth2 grant keyed by account email.
type OAuthToken struct {
	Email        string    `db:"email"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	TokenType    string    `db:"token_type"`
	Expiry       time.Time `db:"expiry"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// FolderBinding maps an account email to its Drive e-invoice folder,
// created once at watch registration time.
type FolderBinding struct {
	Email      string    `db:"email"`
	FolderName string    `db:"folder_name"`
	FolderID   string    `db:"folder_id"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
