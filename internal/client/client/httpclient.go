package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/docvault/internal/client/models"
	"github.com/dmitrijs2005/docvault/internal/common"
	"github.com/dmitrijs2005/docvault/internal/logging"
	"github.com/google/uuid"
)

const maxResponseBytes = 1 << 20

// HTTPClient is the net/http implementation of Client. Safe for concurrent
// use.
type HTTPClient struct {
	baseURL string
	timeout time.Duration
	creds   *Credentials
	http    *http.Client
	log     logging.Logger
}

type Option func(*HTTPClient)

// WithTimeout bounds every call. Zero disables the bound; ctx still applies.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// NewHTTPClient returns a client for the API rooted at baseURL, e.g.
// "http://localhost:8080". Requests go through creds.
func NewHTTPClient(baseURL string, creds *Credentials, opts ...Option) *HTTPClient {
	if creds == nil {
		creds = NewCredentials(nil)
	}
	c := &HTTPClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		creds:   creds,
		log:     logging.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	c.http = &http.Client{Transport: creds}
	return c
}

// Credentials returns the interceptor this client sends requests through.
func (c *HTTPClient) Credentials() *Credentials {
	return c.creds
}

func (c *HTTPClient) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/SignIn", loginRequest{Identifier: identifier, Password: password}, &resp, ErrInvalidCredentials)
	if err != nil {
		return nil, err
	}
	return authResult(&resp)
}

func (c *HTTPClient) LoginWithGoogle(ctx context.Context, idToken string) (*AuthResult, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/Google/OAuth", googleRequest{IDToken: idToken}, &resp, ErrInvalidCredentials)
	if err != nil {
		return nil, err
	}
	return authResult(&resp)
}

func authResult(resp *authResponse) (*AuthResult, error) {
	if resp.Token == "" || resp.User == nil {
		return nil, fmt.Errorf("%w: login response without token or user", ErrUnexpected)
	}
	return &AuthResult{Token: resp.Token, User: resp.User, Message: resp.Message}, nil
}

// RequestOTP asks the server to send a one-time code to identifier.
func (c *HTTPClient) RequestOTP(ctx context.Context, identifier string) (*MessageResult, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/ForgetPassword", identifierRequest{Identifier: identifier}, &resp, ErrAPI); err != nil {
		return nil, err
	}
	return &MessageResult{Message: resp.Message}, nil
}

// ResendOTP is RequestOTP; the server issues a fresh code.
func (c *HTTPClient) ResendOTP(ctx context.Context, identifier string) (*MessageResult, error) {
	return c.RequestOTP(ctx, identifier)
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*VerifyResult, error) {
	if req.OTPType == "" {
		req.OTPType = common.OTPTypePasswordReset
	}
	var resp verifyResponse
	if err := c.do(ctx, http.MethodPost, "/VerifyOTP", req, &resp, ErrInvalidOTP); err != nil {
		return nil, err
	}
	if resp.Data.ResetToken == "" {
		return nil, fmt.Errorf("%w: verify response without reset token", ErrUnexpected)
	}
	return &VerifyResult{
		ResetToken: resp.Data.ResetToken,
		ExpiresIn:  resp.Data.ExpiresIn,
		Message:    resp.Message,
	}, nil
}

func (c *HTTPClient) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResult, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodPatch, "/ResetPassword", req, &resp, ErrInvalidOrExpiredToken); err != nil {
		return nil, err
	}
	return &MessageResult{Message: resp.Message}, nil
}

// Register creates an account. The server answers 201 on success.
func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	var resp registerResponse
	if err := c.do(ctx, http.MethodPost, "/SignUp", req, &resp, ErrAPI); err != nil {
		return nil, err
	}
	return &RegisterResult{User: resp.User, Message: resp.Message}, nil
}

// GetUserDetails returns the account behind the current credentials.
func (c *HTTPClient) GetUserDetails(ctx context.Context) (*models.User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, "/User/Details", nil, &resp, ErrAPI); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("%w: user details without data", ErrUnexpected)
	}
	return resp.Data, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, reason string) (*MessageResult, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodDelete, "/User/Delete", deleteUserRequest{Reason: reason}, &resp, ErrAPI); err != nil {
		return nil, err
	}
	return &MessageResult{Message: resp.Message}, nil
}

// do performs one round trip. rejected is the sentinel wrapped by an
// APIError for a 4xx status or an explicit success=false.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out enveloped, rejected error) error {
	if c.baseURL == "" {
		return fmt.Errorf("%w: base URL is not configured", ErrUnexpected)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode request: %w", ErrUnexpected, err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+common.APIPrefix+path, rd)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, reqID)

	log := c.log.With("method", method, "path", path, "request_id", reqID)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "err", err)
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrNetwork, err)
	}
	log.Debug(ctx, "request done", "status", resp.StatusCode, "elapsed", time.Since(start))

	return c.mapResponse(resp.StatusCode, raw, out, rejected)
}

func (c *HTTPClient) mapResponse(status int, raw []byte, out enveloped, rejected error) error {
	if status < 200 || status > 299 {
		var env envelope
		// Error bodies are best effort; a non-JSON body still yields an APIError.
		_ = json.Unmarshal(raw, &env)
		return &APIError{
			StatusCode: status,
			Message:    env.Message,
			Errors:     env.Errors,
			kind:       mapStatus(status, rejected),
		}
	}

	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: decode response: %w", ErrUnexpected, err)
		}
	}

	env := out.base()
	if env.rejected() {
		return &APIError{StatusCode: status, Message: env.Message, Errors: env.Errors, kind: rejected}
	}
	return nil
}

func mapStatus(status int, rejected error) error {
	switch {
	case status >= 500:
		return ErrAPI
	case (status == http.StatusUnauthorized || status == http.StatusForbidden) && errors.Is(rejected, ErrAPI):
		return ErrUnauthorized
	case status >= 400:
		return rejected
	default:
		return ErrAPI
	}
}
