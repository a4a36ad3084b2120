package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restbridge/restbridge/internal/types"
)

func parseUnverified(raw string, claims *Claims) (*jwt.Token, []string, error) {
	return jwt.NewParser().ParseUnverified(raw, claims)
}

type fakeIdentity struct {
	users     map[string]Subject // username -> subject, password is always "secret"
	byID      map[int64]Subject
	byOAuth   map[string]Subject // externalUID -> subject
	stored    map[int64]string
	verifyErr error
}

var _ Identity = (*fakeIdentity)(nil)

func (f *fakeIdentity) VerifyCredentials(_ context.Context, username, password string) (Subject, error) {
	if f.verifyErr != nil {
		return Subject{}, f.verifyErr
	}
	u, ok := f.users[username]
	if !ok || password != "secret" {
		return Subject{}, types.NewAuth(ErrMsgAccessDenied)
	}
	return u, nil
}

func (f *fakeIdentity) BySubject(_ context.Context, userID int64) (Subject, error) {
	u, ok := f.byID[userID]
	if !ok {
		return Subject{}, types.NewAuth(ErrMsgInvalidToken)
	}
	return u, nil
}

func (f *fakeIdentity) ByOAuth(_ context.Context, _ int64, externalUID string) (Subject, error) {
	u, ok := f.byOAuth[externalUID]
	if !ok {
		return Subject{}, types.NewAuth(ErrMsgInvalidToken)
	}
	return u, nil
}

func (f *fakeIdentity) StoreOAuthToken(_ context.Context, userID int64, token string) error {
	if f.stored == nil {
		f.stored = map[int64]string{}
	}
	f.stored[userID] = token
	return nil
}

type fakeProviders struct {
	uids map[int64]string // providerID -> externalUID for the accepted token
}

func (f *fakeProviders) Resolve(_ context.Context, providerID int64, accessToken string) (string, error) {
	uid, ok := f.uids[providerID]
	if !ok || accessToken != "provider-token" {
		return "", types.NewAuth(ErrMsgInvalidToken)
	}
	return uid, nil
}

func testDispatcher(t *testing.T) (*Dispatcher, *fakeIdentity, *time.Time) {
	t.Helper()
	codec, now := testCodec(t, time.Hour)
	identity := &fakeIdentity{
		users:   map[string]Subject{"ada": {ID: 7, Name: "Ada"}},
		byID:    map[int64]Subject{7: {ID: 7, Name: "Ada"}},
		byOAuth: map[string]Subject{"ext-42": {ID: 7, Name: "Ada"}},
	}
	providers := &fakeProviders{uids: map[int64]string{3: "ext-42"}}
	return NewDispatcher(codec, identity, providers, "prod"), identity, now
}

func TestAuthenticateCredentials(t *testing.T) {
	d, _, _ := testDispatcher(t)

	token, err := d.Authenticate(context.Background(), Request{
		Method: MethodCredentials, Database: "prod", Username: "ada", Password: "secret",
	})
	require.NoError(t, err)

	principal, err := d.codec.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), principal.UserID)
	assert.Equal(t, "prod", principal.Database)
}

func TestAuthenticateCredentialsRejected(t *testing.T) {
	d, _, _ := testDispatcher(t)

	tests := []struct {
		name string
		req  Request
	}{
		{name: "wrong_password", req: Request{Method: MethodCredentials, Database: "prod", Username: "ada", Password: "wrong"}},
		{name: "unknown_user", req: Request{Method: MethodCredentials, Database: "prod", Username: "ghost", Password: "secret"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Authenticate(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, types.IsAuth(err))
			// Unknown user and wrong password are indistinguishable.
			assert.Equal(t, ErrMsgAccessDenied, err.Error())
		})
	}
}

func TestAuthenticateValidationErrors(t *testing.T) {
	d, _, _ := testDispatcher(t)

	tests := []struct {
		name string
		req  Request
	}{
		{name: "missing_database", req: Request{Method: MethodCredentials, Username: "ada", Password: "secret"}},
		{name: "unknown_database", req: Request{Method: MethodCredentials, Database: "other", Username: "ada", Password: "secret"}},
		{name: "missing_method", req: Request{Database: "prod"}},
		{name: "unknown_method", req: Request{Method: "magic", Database: "prod"}},
		{name: "credentials_without_password", req: Request{Method: MethodCredentials, Database: "prod", Username: "ada"}},
		{name: "credentials_without_username", req: Request{Method: MethodCredentials, Database: "prod", Password: "secret"}},
		{name: "token_without_token", req: Request{Method: MethodToken, Database: "prod"}},
		{name: "oauth_without_provider", req: Request{Method: MethodOAuth, Database: "prod", Token: "provider-token"}},
		{name: "oauth_without_token", req: Request{Method: MethodOAuth, Database: "prod", Provider: float64(3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Authenticate(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, types.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestAuthenticateTokenRenewal(t *testing.T) {
	d, _, now := testDispatcher(t)

	first, err := d.Authenticate(context.Background(), Request{
		Method: MethodCredentials, Database: "prod", Username: "ada", Password: "secret",
	})
	require.NoError(t, err)

	// Renewal before expiry yields a token with a strictly later expiry.
	*now = now.Add(30 * time.Minute)
	renewed, err := d.Authenticate(context.Background(), Request{
		Method: MethodToken, Database: "prod", Token: first,
	})
	require.NoError(t, err)
	assert.NotEqual(t, first, renewed)

	var firstClaims, renewedClaims Claims
	_, _, err = parseUnverified(first, &firstClaims)
	require.NoError(t, err)
	_, _, err = parseUnverified(renewed, &renewedClaims)
	require.NoError(t, err)
	assert.True(t, renewedClaims.ExpiresAt.After(firstClaims.ExpiresAt.Time))
	assert.Equal(t, firstClaims.Subject, renewedClaims.Subject)
}

func TestAuthenticateTokenRenewalRejected(t *testing.T) {
	d, _, now := testDispatcher(t)

	token, err := d.Authenticate(context.Background(), Request{
		Method: MethodCredentials, Database: "prod", Username: "ada", Password: "secret",
	})
	require.NoError(t, err)

	t.Run("tampered", func(t *testing.T) {
		_, err := d.Authenticate(context.Background(), Request{
			Method: MethodToken, Database: "prod", Token: token[:len(token)-2] + "xx",
		})
		require.Error(t, err)
		assert.True(t, types.IsAuth(err))
	})

	t.Run("expired", func(t *testing.T) {
		*now = now.Add(2 * time.Hour)
		_, err := d.Authenticate(context.Background(), Request{
			Method: MethodToken, Database: "prod", Token: token,
		})
		require.Error(t, err)
		assert.True(t, types.IsAuth(err))
		assert.Equal(t, ErrMsgTokenExpired, err.Error())
	})
}

func TestAuthenticateOAuth(t *testing.T) {
	d, identity, _ := testDispatcher(t)

	token, err := d.Authenticate(context.Background(), Request{
		Method: MethodOAuth, Database: "prod", Provider: float64(3), Token: "provider-token",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// The provider access token is persisted on the user record.
	assert.Equal(t, "provider-token", identity.stored[7])
}

func TestAuthenticateOAuthProviderForms(t *testing.T) {
	d, _, _ := testDispatcher(t)

	for _, provider := range []interface{}{float64(3), "3"} {
		_, err := d.Authenticate(context.Background(), Request{
			Method: MethodOAuth, Database: "prod", Provider: provider, Token: "provider-token",
		})
		require.NoError(t, err)
	}

	_, err := d.Authenticate(context.Background(), Request{
		Method: MethodOAuth, Database: "prod", Provider: "not-a-number", Token: "provider-token",
	})
	require.Error(t, err)
	assert.Equal(t, ErrMsgInvalidProvider, err.Error())
}

func TestAuthenticateOAuthRejected(t *testing.T) {
	d, _, _ := testDispatcher(t)

	tests := []struct {
		name string
		req  Request
	}{
		{name: "unknown_provider", req: Request{Method: MethodOAuth, Database: "prod", Provider: float64(99), Token: "provider-token"}},
		{name: "bad_provider_token", req: Request{Method: MethodOAuth, Database: "prod", Provider: float64(3), Token: "stolen"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Authenticate(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, types.IsAuth(err))
		})
	}
}

func TestAuthenticateWrapsUntypedErrors(t *testing.T) {
	d, identity, _ := testDispatcher(t)
	identity.verifyErr = assert.AnError

	_, err := d.Authenticate(context.Background(), Request{
		Method: MethodCredentials, Database: "prod", Username: "ada", Password: "secret",
	})
	require.Error(t, err)
	assert.Equal(t, types.KindInternal, types.KindOf(err))
}
