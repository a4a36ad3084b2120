// Package oauth resolves third-party access tokens to external user ids
// by calling the provider's validation endpoint.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/restbridge/restbridge/internal/auth"
	"github.com/restbridge/restbridge/internal/types"
)

// Directory looks up the validation endpoint of a configured provider.
type Directory interface {
	ValidationURL(ctx context.Context, providerID int64) (string, error)
}

// Verifier implements auth.ProviderVerifier over HTTP. Transient
// provider failures are retried here, inside the collaborator; the auth
// core never retries.
type Verifier struct {
	directory Directory
	client    *retryablehttp.Client
}

var _ auth.ProviderVerifier = (*Verifier)(nil)

// NewVerifier creates a verifier that retries transient provider
// failures up to twice.
func NewVerifier(directory Directory) *Verifier {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.HTTPClient.Timeout = 10 * time.Second
	client.Logger = nil
	return &Verifier{directory: directory, client: client}
}

// validationResponse is the provider's answer. Only the user id is
// consumed; providers may return it as a number or a string.
type validationResponse struct {
	UserID interface{} `json:"user_id"`
}

// Resolve validates the access token with the provider and returns the
// external user id it belongs to. Any provider-side rejection surfaces
// as an invalid-token auth error.
func (v *Verifier) Resolve(ctx context.Context, providerID int64, accessToken string) (string, error) {
	endpoint, err := v.directory.ValidationURL(ctx, providerID)
	if err != nil {
		return "", err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet,
		endpoint+"?access_token="+url.QueryEscape(accessToken), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build provider request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return "", types.NewAuth(auth.ErrMsgInvalidToken)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", types.NewAuth(auth.ErrMsgInvalidToken)
	}

	var body validationResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.UserID == nil {
		return "", types.NewAuth(auth.ErrMsgInvalidToken)
	}

	uid := fmt.Sprintf("%v", body.UserID)
	if uid == "" {
		return "", types.NewAuth(auth.ErrMsgInvalidToken)
	}
	return uid, nil
}
