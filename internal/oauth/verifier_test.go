package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restbridge/restbridge/internal/auth"
	"github.com/restbridge/restbridge/internal/types"
)

type staticDirectory struct {
	url string
	err error
}

func (d staticDirectory) ValidationURL(context.Context, int64) (string, error) {
	return d.url, d.err
}

func newTestVerifier(url string) *Verifier {
	v := NewVerifier(staticDirectory{url: url})
	v.client.RetryMax = 0
	return v
}

func TestResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("access_token") != "good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"user_id": 42}`))
	}))
	defer srv.Close()

	v := newTestVerifier(srv.URL)

	uid, err := v.Resolve(context.Background(), 1, "good-token")
	require.NoError(t, err)
	assert.Equal(t, "42", uid)
}

func TestResolveStringUserID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"user_id": "ext-42"}`))
	}))
	defer srv.Close()

	uid, err := newTestVerifier(srv.URL).Resolve(context.Background(), 1, "tok")
	require.NoError(t, err)
	assert.Equal(t, "ext-42", uid)
}

func TestResolveRejected(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "provider_rejects_token",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
		},
		{
			name: "malformed_body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
		},
		{
			name: "missing_user_id",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := newTestVerifier(srv.URL).Resolve(context.Background(), 1, "tok")
			require.Error(t, err)
			assert.True(t, types.IsAuth(err))
			assert.Equal(t, auth.ErrMsgInvalidToken, err.Error())
		})
	}
}

func TestResolveUnknownProvider(t *testing.T) {
	v := NewVerifier(staticDirectory{err: types.NewAuth(auth.ErrMsgInvalidProvider)})

	_, err := v.Resolve(context.Background(), 99, "tok")
	require.Error(t, err)
	assert.Equal(t, auth.ErrMsgInvalidProvider, err.Error())
}
