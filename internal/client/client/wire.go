package client

import "github.com/dmitrijs2005/docvault/internal/client/models"

// envelope is the common part of every response body.
type envelope struct {
	Success *bool    `json:"success,omitempty"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func (e *envelope) base() *envelope { return e }

// rejected reports an explicit success=false. A missing flag counts as
// success when the status is 2xx.
func (e *envelope) rejected() bool {
	return e.Success != nil && !*e.Success
}

type enveloped interface {
	base() *envelope
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type googleRequest struct {
	IDToken string `json:"id_token"`
}

type identifierRequest struct {
	Identifier string `json:"identifier"`
}

type deleteUserRequest struct {
	Reason string `json:"reason,omitempty"`
}

type authResponse struct {
	envelope
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type messageResponse struct {
	envelope
}

type verifyResponse struct {
	envelope
	Data struct {
		ResetToken string `json:"reset_token"`
		ExpiresIn  int    `json:"expires_in"`
	} `json:"data"`
}

type registerResponse struct {
	envelope
	User *models.User `json:"user"`
}

type userResponse struct {
	envelope
	Data *models.User `json:"data"`
}
