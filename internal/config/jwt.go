package config

import (
	"fmt"
	"time"
)

// DefaultJWTExpirationHours is the admin session lifetime when unset.
const DefaultJWTExpirationHours = 12

// JWTConfig holds configuration for admin session token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig creates a JWT configuration from the admin section.
// JWT_SECRET is required; expiration defaults to 12 hours.
func NewJWTConfig(admin AdminConfig) (*JWTConfig, error) {
	config := &JWTConfig{
		Secret:          admin.JWTSecret,
		ExpirationHours: admin.JWTExpirationHours,
	}
	if config.ExpirationHours == 0 {
		config.ExpirationHours = DefaultJWTExpirationHours
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}
	if len(c.Secret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}

// Expiration returns the token lifetime.
func (c *JWTConfig) Expiration() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}
