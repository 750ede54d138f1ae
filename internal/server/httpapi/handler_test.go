package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/docvault/internal/common"
	"github.com/dmitrijs2005/docvault/internal/server/auth"
	"github.com/dmitrijs2005/docvault/internal/server/config"
	"github.com/dmitrijs2005/docvault/internal/server/recovery"
	"github.com/dmitrijs2005/docvault/internal/server/services"
	"github.com/dmitrijs2005/docvault/internal/server/users"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureMailer keeps sent messages so tests can read the codes.
type captureMailer struct {
	mu     sync.Mutex
	bodies []string
}

func (m *captureMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bodies = append(m.bodies, body)
	return nil
}

var codeRe = regexp.MustCompile(`\d{6}`)

func (m *captureMailer) lastCode(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.bodies)
	return codeRe.FindString(m.bodies[len(m.bodies)-1])
}

type fixture struct {
	srv    *httptest.Server
	mailer *captureMailer
	users  *services.UserService
}

func newFixture(t *testing.T, interval time.Duration) *fixture {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()

	repo := users.NewMemoryRepository()
	us := services.NewUserService(repo, cfg, nopLogger{})
	mailer := &captureMailer{}
	rs := services.NewRecoveryService(repo,
		recovery.NewCodes(cfg.OTPTTL, interval),
		recovery.NewTokens(cfg.ResetTokenTTL),
		mailer, nopLogger{})

	_, err := us.Register(context.Background(), services.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "secret123"})
	require.NoError(t, err)

	srv := httptest.NewServer(NewHTTPServer("", nopLogger{}, us, rs).Router())
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, mailer: mailer, users: us}
}

type reply struct {
	status int
	header http.Header
	body   map[string]any
}

func (f *fixture) call(t *testing.T, method, path, token string, body any) reply {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, f.srv.URL+common.APIPrefix+path, rd)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := reply{status: resp.StatusCode, header: resp.Header}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out.body))
	return out
}

func TestSignIn(t *testing.T) {
	f := newFixture(t, 0)

	r := f.call(t, http.MethodPost, "/SignIn", "", map[string]string{"identifier": "bob", "password": "secret123"})
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, true, r.body["success"])
	assert.NotEmpty(t, r.body["token"])
	user := r.body["user"].(map[string]any)
	assert.Equal(t, "bob", user["username"])
	assert.Equal(t, "bob@example.com", user["email"])
	assert.NotEmpty(t, r.header.Get(common.RequestIDHeaderName))

	r = f.call(t, http.MethodPost, "/SignIn", "", map[string]string{"identifier": "bob", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, r.status)
	assert.Equal(t, false, r.body["success"])
	assert.Equal(t, "Invalid credentials", r.body["message"])
}

func TestMalformedBodyAndUnknownRoute(t *testing.T) {
	f := newFixture(t, 0)

	resp, err := http.Post(f.srv.URL+common.APIPrefix+"/SignIn", "application/json", bytes.NewBufferString("{"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	r := f.call(t, http.MethodGet, "/Nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, r.status)

	r = f.call(t, http.MethodGet, "/SignIn", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, r.status)
}

func TestWrongMethodInsideSubrouters(t *testing.T) {
	f := newFixture(t, 0)

	tests := []struct {
		method, path string
		status       int
		message      string
	}{
		{http.MethodPost, "/ResetPassword", http.StatusMethodNotAllowed, "Method not allowed"},
		{http.MethodGet, "/VerifyOTP", http.StatusMethodNotAllowed, "Method not allowed"},
		{http.MethodPost, "/User/Details", http.StatusMethodNotAllowed, "Method not allowed"},
		{http.MethodGet, "/User/Delete", http.StatusMethodNotAllowed, "Method not allowed"},
		{http.MethodGet, "/User/Nowhere", http.StatusNotFound, "Not found"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			r := f.call(t, tt.method, tt.path, "", nil)
			assert.Equal(t, tt.status, r.status)
			assert.Equal(t, false, r.body["success"])
			assert.Equal(t, tt.message, r.body["message"])
		})
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	f := newFixture(t, 0)

	req, err := http.NewRequest(http.MethodGet, f.srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(common.RequestIDHeaderName, "req-42")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "req-42", resp.Header.Get(common.RequestIDHeaderName))
}

func TestGoogleOAuth(t *testing.T) {
	f := newFixture(t, 0)
	idToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.GoogleIdentity{Email: "gina@example.com", Name: "Gina"}).SignedString([]byte("x"))
	require.NoError(t, err)

	r := f.call(t, http.MethodPost, "/Google/OAuth", "", map[string]string{"id_token": idToken})
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "gina", r.body["user"].(map[string]any)["username"])

	r = f.call(t, http.MethodPost, "/Google/OAuth", "", map[string]string{"id_token": "garbage"})
	assert.Equal(t, http.StatusUnauthorized, r.status)
	assert.Equal(t, "Google sign-in failed", r.body["message"])
}

func TestSignUp(t *testing.T) {
	f := newFixture(t, 0)

	r := f.call(t, http.MethodPost, "/SignUp", "", map[string]string{"username": "carol", "email": "carol@example.com", "password": "longenough"})
	require.Equal(t, http.StatusCreated, r.status)
	assert.Equal(t, "carol", r.body["user"].(map[string]any)["username"])

	r = f.call(t, http.MethodPost, "/SignUp", "", map[string]string{"username": "carol", "email": "c2@example.com", "password": "longenough"})
	assert.Equal(t, http.StatusConflict, r.status)

	r = f.call(t, http.MethodPost, "/SignUp", "", map[string]string{"username": "", "email": "x", "password": "1"})
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Len(t, r.body["errors"], 3)
}

func TestUserEndpointsNeedToken(t *testing.T) {
	f := newFixture(t, 0)

	r := f.call(t, http.MethodGet, "/User/Details", "", nil)
	assert.Equal(t, http.StatusUnauthorized, r.status)
	assert.Equal(t, "Missing token", r.body["message"])

	r = f.call(t, http.MethodGet, "/User/Details", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, r.status)

	sess, err := f.users.Login(context.Background(), "bob", "secret123")
	require.NoError(t, err)

	r = f.call(t, http.MethodGet, "/User/Details", sess.Token, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "bob", r.body["data"].(map[string]any)["username"])

	r = f.call(t, http.MethodDelete, "/User/Delete", sess.Token, map[string]string{"reason": "testing"})
	require.Equal(t, http.StatusOK, r.status)

	r = f.call(t, http.MethodGet, "/User/Details", sess.Token, nil)
	assert.Equal(t, http.StatusNotFound, r.status)
}

func TestResetFlow_RejectsReuse(t *testing.T) {
	f := newFixture(t, 0)

	r := f.call(t, http.MethodPost, "/ForgetPassword", "", map[string]string{"identifier": "bob"})
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "OTP sent to your email successfully", r.body["message"])
	code := f.mailer.lastCode(t)

	verify := map[string]string{"identifier": "bob", "otp": code, "otp_type": common.OTPTypePasswordReset}
	r = f.call(t, http.MethodPost, "/VerifyOTP", "", verify)
	require.Equal(t, http.StatusOK, r.status)
	data := r.body["data"].(map[string]any)
	token := data["reset_token"].(string)
	assert.EqualValues(t, 300, data["expires_in"])

	r = f.call(t, http.MethodPost, "/VerifyOTP", "", verify)
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Equal(t, "Invalid OTP", r.body["message"])

	reset := map[string]string{"reset_password_token": token, "new_password": "brandnew99", "confirm_new_password": "brandnew99"}
	r = f.call(t, http.MethodPatch, "/ResetPassword", "", reset)
	require.Equal(t, http.StatusOK, r.status)

	r = f.call(t, http.MethodPatch, "/ResetPassword", "", reset)
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Equal(t, "Invalid or expired reset token", r.body["message"])

	r = f.call(t, http.MethodPost, "/SignIn", "", map[string]string{"identifier": "bob", "password": "brandnew99"})
	assert.Equal(t, http.StatusOK, r.status)
}

func TestForgetPassword_ThrottledAndUnknown(t *testing.T) {
	f := newFixture(t, time.Minute)

	r := f.call(t, http.MethodPost, "/ForgetPassword", "", map[string]string{"identifier": "bob"})
	require.Equal(t, http.StatusOK, r.status)

	r = f.call(t, http.MethodPost, "/ForgetPassword", "", map[string]string{"identifier": "bob"})
	assert.Equal(t, http.StatusTooManyRequests, r.status)

	r = f.call(t, http.MethodPost, "/ForgetPassword", "", map[string]string{"identifier": "ghost"})
	assert.Equal(t, http.StatusNotFound, r.status)
}
