package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/meetscribe/internal/client/client"
	"github.com/dmitrijs2005/meetscribe/internal/client/models"
	"github.com/dmitrijs2005/meetscribe/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expiringToken(t *testing.T, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "srv-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return s
}

func TestRemoteRestore_NoToken(t *testing.T) {
	fc := &fakeAuthClient{}
	p, _ := newRemote(fc)

	res, err := p.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Zero(t, fc.MeCalls)
}

func TestRemoteRestore_ExpiredTokenSkipsBackend(t *testing.T) {
	fc := &fakeAuthClient{}
	p, tokens := newRemote(fc)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }
	tokens.SetToken(expiringToken(t, now.Add(-time.Minute)))

	res, err := p.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Zero(t, fc.MeCalls)
	assert.Empty(t, tokens.Token())
}

func TestRemoteRestore_Success(t *testing.T) {
	fc := &fakeAuthClient{MeRet: authResponse("rotated", 2)}
	p, tokens := newRemote(fc)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }
	tokens.SetToken(expiringToken(t, now.Add(time.Hour)))

	res, err := p.Restore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "srv-1", res.User.ID)
	assert.Equal(t, 2, res.Used)
	assert.Equal(t, 1, fc.MeCalls)
}

func TestRemoteRestore_Failures(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		keepToken bool
	}{
		{"rejected token", &client.APIError{StatusCode: 401, Err: common.ErrUnauthorized}, false},
		{"server error", &client.APIError{StatusCode: 500, Err: client.ErrServer}, false},
		{"unreachable", client.ErrUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeAuthClient{MeErr: tt.err}
			p, tokens := newRemote(fc)
			tokens.SetToken("opaque-token")

			res, err := p.Restore(context.Background())
			require.NoError(t, err)
			assert.Nil(t, res)
			assert.Equal(t, tt.keepToken, tokens.Token() != "")
		})
	}
}

func TestRemoteRegister(t *testing.T) {
	fc := &fakeAuthClient{RegisterRet: authResponse("tok-1", 0)}
	p, tokens := newRemote(fc)

	in := registerInput(" ada@example.com ", "secret1")
	in.FirstName = " Ada "
	res, err := p.Register(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, client.RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "secret1",
	}, fc.LastRegister)
	assert.Equal(t, "srv-1", res.User.ID)
	assert.Equal(t, "tok-1", tokens.Token())
	assert.Equal(t, make([]byte, 7), in.Password)
}

func TestRemoteRegister_ValidationNeverCallsBackend(t *testing.T) {
	fc := &fakeAuthClient{RegisterRet: authResponse("tok-1", 0)}
	p, _ := newRemote(fc)

	in := registerInput("ada@example.com", "secret1")
	in.ConfirmPassword = []byte("secret2")
	_, err := p.Register(context.Background(), in)
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Empty(t, fc.LastRegister.Email)
}

func TestRemoteRegister_Conflict(t *testing.T) {
	fc := &fakeAuthClient{RegisterErr: &client.APIError{StatusCode: 409, Message: "Email already registered", Err: common.ErrConflict}}
	p, tokens := newRemote(fc)

	_, err := p.Register(context.Background(), registerInput("ada@example.com", "secret1"))
	require.ErrorIs(t, err, common.ErrConflict)
	assert.Equal(t, "Email already registered", client.ServerMessage(err))
	assert.Empty(t, tokens.Token())
}

func TestRemoteLogin(t *testing.T) {
	fc := &fakeAuthClient{LoginRet: authResponse("tok-2", 4)}
	p, tokens := newRemote(fc)

	res, err := p.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: []byte("secret1")})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Used)
	assert.Equal(t, client.LoginRequest{Email: "ada@example.com", Password: "secret1"}, fc.LastLogin)
	assert.Equal(t, "tok-2", tokens.Token())
}

func TestRemoteLogin_InvalidCredentials(t *testing.T) {
	fc := &fakeAuthClient{LoginErr: &client.APIError{StatusCode: 401, Err: common.ErrInvalidCredentials}}
	p, tokens := newRemote(fc)

	_, err := p.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: []byte("secret1")})
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Empty(t, tokens.Token())
}

func TestRemoteLogout_ClearsTokenAndRevokesInBackground(t *testing.T) {
	fc := &fakeAuthClient{LogoutErr: errors.New("backend down")}
	p, tokens := newRemote(fc)
	tokens.SetToken("tok-3")

	require.NoError(t, p.Logout(context.Background()))
	assert.Empty(t, tokens.Token())

	require.NoError(t, p.Close())
	assert.Equal(t, 1, fc.LogoutCalls)
	assert.Equal(t, "tok-3", fc.LastLogoutToken)
}

func TestRemoteLogout_WithoutToken(t *testing.T) {
	fc := &fakeAuthClient{}
	p, _ := newRemote(fc)

	require.NoError(t, p.Logout(context.Background()))
	require.NoError(t, p.Close())
	assert.Zero(t, fc.LogoutCalls)
}

func TestRemoteLogout_OutlivesCallerContext(t *testing.T) {
	fc := &fakeAuthClient{}
	p, tokens := newRemote(fc)
	tokens.SetToken("tok-4")

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.Logout(ctx))
	cancel()

	require.NoError(t, p.Close())
	assert.Equal(t, "tok-4", fc.LastLogoutToken)
}

func TestRemoteUsage(t *testing.T) {
	fc := &fakeAuthClient{UsageRet: &models.RemoteUsage{UsedToday: 3, DailyLimit: 10}}
	p, _ := newRemote(fc)

	n, err := p.Usage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = p.RecordUsage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, fc.UsageCalls)

	fc.UsageErr = client.ErrUnavailable
	_, err = p.Usage(context.Background())
	require.ErrorIs(t, err, client.ErrUnavailable)
}

func TestRemoteMigrateHistory(t *testing.T) {
	fc := &fakeAuthClient{MigrateRet: 2}
	p, _ := newRemote(fc)

	items := []models.HistoryItem{{ID: "a"}, {ID: "b"}}
	n, err := p.MigrateHistory(context.Background(), items)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, items, fc.LastMigrate)

	fc.MigrateErr = client.ErrServer
	_, err = p.MigrateHistory(context.Background(), items)
	require.ErrorIs(t, err, client.ErrServer)
}
