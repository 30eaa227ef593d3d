package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logdeck/internal/common"
	"logdeck/internal/console/api"
	"logdeck/internal/console/models"
	"logdeck/internal/console/session"
	"logdeck/internal/logging"
)

// memStore is an in-memory session.Store.
type memStore struct {
	token string
	user  *models.User
}

func (m *memStore) SaveSession(_ context.Context, token string, user *models.User) error {
	m.token, m.user = token, user
	return nil
}
func (m *memStore) SetUser(_ context.Context, user *models.User) error {
	m.user = user
	return nil
}
func (m *memStore) Clear(context.Context) error {
	m.token, m.user = "", nil
	return nil
}
func (m *memStore) Credential(context.Context) (string, error) { return m.token, nil }
func (m *memStore) User(context.Context) (*models.User, error) { return m.user, nil }

// fakeBackend implements Backend.
type fakeBackend struct {
	loginResp *api.AuthResponse
	loginErr  error

	registerResp *api.AuthResponse
	registerErr  error

	meUser *models.User
	meErr  error
	// meHook runs before Me returns, simulating events that land while the
	// profile fetch is in flight.
	meHook func()

	lastLoginUser string
	lastLoginPass string
}

func (f *fakeBackend) Login(_ context.Context, username, password string) (*api.AuthResponse, error) {
	f.lastLoginUser, f.lastLoginPass = username, password
	return f.loginResp, f.loginErr
}

func (f *fakeBackend) Register(_ context.Context, username, email, password string, role models.Role) (*api.AuthResponse, error) {
	return f.registerResp, f.registerErr
}

func (f *fakeBackend) Me(context.Context) (*models.User, error) {
	if f.meHook != nil {
		f.meHook()
	}
	return f.meUser, f.meErr
}

func analyst() models.User {
	return models.User{ID: "u-1", Username: "alice", Role: models.RoleAnalyst}
}

func newService(backend *fakeBackend) (*Service, *session.Session, *memStore) {
	st := &memStore{}
	sess := session.New(st, logging.NewNopLogger())
	return NewService(backend, sess, logging.NewNopLogger()), sess, st
}

func TestLogin_EstablishesSession(t *testing.T) {
	user := analyst()
	fb := &fakeBackend{loginResp: &api.AuthResponse{Token: "T1", User: user}}
	svc, sess, st := newService(fb)

	got, err := svc.Login(context.Background(), "alice", "pw")

	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "alice", fb.lastLoginUser)
	assert.True(t, sess.IsAuthenticated())
	assert.Equal(t, "T1", st.token, "credential persisted")
	require.NotNil(t, sess.User())
	assert.Equal(t, models.RoleAnalyst, sess.User().Role)
}

func TestLogin_FailureLeavesSessionUntouched(t *testing.T) {
	fb := &fakeBackend{loginErr: &api.APIError{Status: http.StatusUnauthorized, Message: "bad credentials"}}
	svc, sess, _ := newService(fb)

	_, err := svc.Login(context.Background(), "alice", "wrong")

	require.Error(t, err)
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr, "backend error surfaced unchanged")
	assert.Equal(t, "bad credentials", apiErr.Message)
	assert.False(t, sess.IsAuthenticated())
}

func TestRegister_EstablishesSession(t *testing.T) {
	user := models.User{ID: "u-2", Username: "bob", Role: models.RoleUser}
	fb := &fakeBackend{registerResp: &api.AuthResponse{Token: "T2", User: user}}
	svc, sess, _ := newService(fb)

	got, err := svc.Register(context.Background(), "bob", "bob@example.org", "pw", models.RoleUser)

	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)
	assert.Equal(t, "T2", sess.Token())
}

func TestLogout_IsIdempotent(t *testing.T) {
	user := analyst()
	fb := &fakeBackend{loginResp: &api.AuthResponse{Token: "T1", User: user}}
	svc, sess, st := newService(fb)

	_, err := svc.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	svc.Logout(context.Background())
	svc.Logout(context.Background())

	assert.False(t, sess.IsAuthenticated())
	assert.Equal(t, "", st.token)
}

func TestCurrentUser_UpdatesProfileHalfOnly(t *testing.T) {
	user := analyst()
	refreshed := analyst()
	refreshed.Role = models.RoleAdmin

	fb := &fakeBackend{loginResp: &api.AuthResponse{Token: "T1", User: user}, meUser: &refreshed}
	svc, sess, st := newService(fb)

	_, err := svc.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	got, err := svc.CurrentUser(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)
	assert.Equal(t, "T1", sess.Token(), "credential unchanged")
	assert.Equal(t, models.RoleAdmin, st.user.Role, "profile persisted")
}

func TestCurrentUser_AuthErrorTearsSessionDown(t *testing.T) {
	user := analyst()
	fb := &fakeBackend{loginResp: &api.AuthResponse{Token: "T1", User: user}}
	svc, sess, st := newService(fb)

	_, err := svc.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	fb.meErr = &api.APIError{Status: http.StatusForbidden, Message: "token revoked"}
	_, err = svc.CurrentUser(context.Background())

	require.Error(t, err, "the triggering error still propagates")
	assert.False(t, sess.IsAuthenticated())
	assert.Equal(t, "", st.token)
}

func TestCurrentUser_TransientFailureKeepsSession(t *testing.T) {
	user := analyst()
	fb := &fakeBackend{loginResp: &api.AuthResponse{Token: "T1", User: user}}
	svc, sess, _ := newService(fb)

	_, err := svc.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	fb.meErr = &api.APIError{Status: http.StatusInternalServerError, Message: "index down"}
	_, err = svc.CurrentUser(context.Background())
	require.Error(t, err)
	assert.True(t, sess.IsAuthenticated(), "5xx must not deauthenticate")

	fb.meErr = errors.New("network is unreachable")
	_, err = svc.CurrentUser(context.Background())
	require.Error(t, err)
	assert.True(t, sess.IsAuthenticated(), "network failure must not deauthenticate")
}

func TestCurrentUser_LogoutMidFlightDiscardsResult(t *testing.T) {
	user := analyst()
	fb := &fakeBackend{loginResp: &api.AuthResponse{Token: "T1", User: user}}
	svc, sess, _ := newService(fb)

	_, err := svc.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	// Logout lands while the Me call is in flight; the late success must
	// not re-establish the cleared session.
	refreshed := analyst()
	fb.meUser = &refreshed
	fb.meHook = func() { svc.Logout(context.Background()) }

	_, err = svc.CurrentUser(context.Background())

	require.ErrorIs(t, err, common.ErrSessionChanged)
	assert.False(t, sess.IsAuthenticated())
	assert.Nil(t, sess.User())
}

func TestVerifyToken_AbsorbsFailures(t *testing.T) {
	user := analyst()
	fb := &fakeBackend{loginResp: &api.AuthResponse{Token: "T1", User: user}}
	svc, sess, _ := newService(fb)

	_, err := svc.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	fb.meErr = errors.New("backend down")
	svc.VerifyToken(context.Background())
	assert.True(t, sess.IsAuthenticated(), "transient failure absorbed")

	fb.meErr = &api.APIError{Status: http.StatusUnauthorized}
	svc.VerifyToken(context.Background())
	assert.False(t, sess.IsAuthenticated(), "rejected credential still logs out")
}

func TestVerifyToken_NoopWithoutCredential(t *testing.T) {
	called := false
	fb := &fakeBackend{meHook: func() { called = true }}
	svc, _, _ := newService(fb)

	svc.VerifyToken(context.Background())

	assert.False(t, called)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	user := analyst()
	fb := &fakeBackend{loginResp: &api.AuthResponse{Token: signed, User: user}}
	svc, _, _ := newService(fb)

	_, err = svc.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	got, ok := svc.TokenExpiry()
	require.True(t, ok)
	assert.True(t, got.Equal(exp))
}

func TestTokenExpiry_OpaqueToken(t *testing.T) {
	user := analyst()
	fb := &fakeBackend{loginResp: &api.AuthResponse{Token: "not-a-jwt", User: user}}
	svc, _, _ := newService(fb)

	_, err := svc.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	_, ok := svc.TokenExpiry()
	assert.False(t, ok)
}
