//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// AdminLoginRequest represents the admin console login request.
type AdminLoginRequest struct {
	AccessKey string `json:"access_key" validate:"required"`
}

// AdminLoginResponse carries the admin session token.
type AdminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Validate validates the AdminLoginRequest using the validator.
func (r *AdminLoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
