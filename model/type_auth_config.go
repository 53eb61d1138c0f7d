package model

type AuthConfig struct {
	SecretKey string

	// TokenLifetime is in seconds, 0 means one week.
	TokenLifetime int64

	// Admins are usernames promoted to administrators at start-up.
	Admins []string
}
