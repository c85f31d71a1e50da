package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/lead-intel/internal/config"
	"github.com/jonathan/lead-intel/internal/types"
)

// Authorizer checks the admin access key and issues session tokens.
type Authorizer struct {
	keys *config.AccessKeyConfig
	jwt  *JWTService
}

// NewAuthorizer creates an Authorizer.
func NewAuthorizer(keys *config.AccessKeyConfig, jwtService *JWTService) *Authorizer {
	return &Authorizer{keys: keys, jwt: jwtService}
}

// Login exchanges a valid access key for a session token.
func (a *Authorizer) Login(accessKey string) (types.AdminLoginResponse, error) {
	if !a.keys.Verify(accessKey) {
		return types.AdminLoginResponse{}, &ErrInvalidAccessKey{}
	}
	token, expiresAt, err := a.jwt.GenerateToken()
	if err != nil {
		return types.AdminLoginResponse{}, err
	}
	return types.AdminLoginResponse{Token: token, ExpiresAt: expiresAt}, nil
}

// IsAuthorized reports whether token grants admin access.
func (a *Authorizer) IsAuthorized(token string) bool {
	_, err := a.jwt.ValidateToken(token)
	return err == nil
}

// handleAdminLogin handles POST /admin/login.
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req types.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	resp, err := s.auth.Login(req.AccessKey)
	if err != nil {
		log.Printf("[auth] Admin login rejected from %s: %v", s.extractClientID(r), err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			// Return first validation error for simplicity
			ve := validationErrors[0]
			return (&ErrValidation{Field: ve.Field(), Message: ve.Tag()}).Error()
		}
	}
	return "validation error: invalid request"
}
