package config

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when BCRYPT_COST is unset.
const DefaultBcryptCost = 12

// AccessKeyConfig holds the admin access key hash and hashing parameters.
type AccessKeyConfig struct {
	Hash       string
	BcryptCost int
	Pepper     string // optional global secret appended before hashing
}

// NewAccessKeyConfig builds the admin access key configuration.
// A stored hash takes precedence; otherwise a plaintext key is hashed now.
// It reads BCRYPT_COST (default: 12) and ACCESS_KEY_PEPPER from getenv.
func NewAccessKeyConfig(admin AdminConfig, getenv func(string) string) (*AccessKeyConfig, error) {
	cost := DefaultBcryptCost
	if costStr := strings.TrimSpace(getenv("BCRYPT_COST")); costStr != "" {
		n, err := strconv.Atoi(costStr)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
		}
		cost = n
	}

	c := &AccessKeyConfig{
		BcryptCost: cost,
		Pepper:     getenv("ACCESS_KEY_PEPPER"),
	}
	if err := c.normalize(); err != nil {
		return nil, err
	}

	switch {
	case admin.AccessKeyHash != "":
		c.Hash = admin.AccessKeyHash
	case admin.AccessKey != "":
		hash, err := c.HashKey(admin.AccessKey)
		if err != nil {
			return nil, err
		}
		c.Hash = hash
	default:
		return nil, fmt.Errorf("ADMIN_ACCESS_KEY_HASH or ADMIN_ACCESS_KEY is required but not set")
	}

	return c, nil
}

func (c *AccessKeyConfig) normalize() error {
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.BcryptCost)
	}
	return nil
}

func (c *AccessKeyConfig) peppered(key string) string {
	if c.Pepper == "" {
		return key
	}
	return key + c.Pepper
}

// HashKey hashes an access key using bcrypt (with optional pepper).
func (c *AccessKeyConfig) HashKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(c.peppered(key)), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash access key: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether key matches the configured hash.
func (c *AccessKeyConfig) Verify(key string) bool {
	if c.Hash == "" || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.Hash), []byte(c.peppered(key))) == nil
}
