package auth

import (
	"context"
	"errors"
	"strconv"

	"github.com/restbridge/restbridge/internal/types"
)

// Login methods accepted by the dispatcher. The method field of the
// request selects exactly one branch.
const (
	MethodCredentials = "credentials"
	MethodToken       = "token"
	MethodOAuth       = "oauth"
)

// Auth error messages shared with the HTTP layer.
const (
	ErrMsgAccessDenied    = "Access Denied"
	ErrMsgMissingDatabase = "Invalid request. Missing database"
	ErrMsgInvalidProvider = "Invalid provider"

	errMsgMissingCredentials = "Invalid request. Missing data for method 'credentials', please provide a 'username' and a 'password'"
	errMsgMissingToken       = "Invalid request. Missing data for method 'token', please provide a valid 'token'"
	errMsgMissingOAuth       = "Invalid request. Missing data for method 'oauth', please provide a 'provider' and a 'token'"
)

// Subject is a resolved user identity as reported by the identity
// collaborator.
type Subject struct {
	ID   int64
	Name string
}

// Identity verifies user identities against the underlying store. All
// failures that must stay opaque to the caller (unknown user, wrong
// password) surface as auth errors with no distinction between them.
type Identity interface {
	// VerifyCredentials checks a username/password pair.
	VerifyCredentials(ctx context.Context, username, password string) (Subject, error)
	// BySubject resolves a user id from a previously issued token.
	BySubject(ctx context.Context, userID int64) (Subject, error)
	// ByOAuth resolves the user bound to an external identity.
	ByOAuth(ctx context.Context, providerID int64, externalUID string) (Subject, error)
	// StoreOAuthToken persists the provider access token on the user
	// record after a successful OAuth login.
	StoreOAuthToken(ctx context.Context, userID int64, accessToken string) error
}

// ProviderVerifier resolves an opaque third-party access token to the
// external user id it belongs to, keyed by provider.
type ProviderVerifier interface {
	Resolve(ctx context.Context, providerID int64, accessToken string) (string, error)
}

// Request is the body of a token issuance call. Exactly one method's
// fields are consulted, selected by Method. Provider is declared loosely
// because clients send it either as a number or a string id.
type Request struct {
	Method   string      `json:"method"`
	Database string      `json:"database"`
	Username string      `json:"username"`
	Password string      `json:"password"`
	Token    string      `json:"token"`
	Provider interface{} `json:"provider"`
}

// Dispatcher turns an authentication request into a signed access token.
// Stateless across requests; every outcome is either a token or exactly
// one typed error.
type Dispatcher struct {
	codec     *TokenCodec
	identity  Identity
	providers ProviderVerifier
	database  string
}

// NewDispatcher wires the dispatcher. database is the name the server is
// bound to; requests naming any other database are rejected.
func NewDispatcher(codec *TokenCodec, identity Identity, providers ProviderVerifier, database string) *Dispatcher {
	return &Dispatcher{codec: codec, identity: identity, providers: providers, database: database}
}

// Authenticate validates the request shape, runs the selected login
// branch and issues a fresh token for the resolved subject.
func (d *Dispatcher) Authenticate(ctx context.Context, req Request) (string, error) {
	if req.Database == "" || req.Database != d.database {
		return "", types.NewValidation(ErrMsgMissingDatabase)
	}

	var (
		subject Subject
		err     error
	)
	switch req.Method {
	case MethodCredentials:
		subject, err = d.loginCredentials(ctx, req)
	case MethodToken:
		subject, err = d.loginToken(ctx, req)
	case MethodOAuth:
		subject, err = d.loginOAuth(ctx, req)
	default:
		return "", types.NewValidation("Method '%s' not allowed", req.Method)
	}
	if err != nil {
		return "", asAuthOrInternal(err)
	}

	return d.codec.Issue(Principal{UserID: subject.ID, Name: subject.Name, Database: req.Database})
}

func (d *Dispatcher) loginCredentials(ctx context.Context, req Request) (Subject, error) {
	if req.Username == "" || req.Password == "" {
		return Subject{}, types.NewValidation(errMsgMissingCredentials)
	}
	return d.identity.VerifyCredentials(ctx, req.Username, req.Password)
}

// loginToken renews a still-valid token: same subject, fresh expiry. The
// subject is re-resolved so tokens of deleted users stop renewing.
func (d *Dispatcher) loginToken(ctx context.Context, req Request) (Subject, error) {
	if req.Token == "" {
		return Subject{}, types.NewValidation(errMsgMissingToken)
	}
	principal, err := d.codec.Validate(req.Token)
	if err != nil {
		return Subject{}, err
	}
	return d.identity.BySubject(ctx, principal.UserID)
}

func (d *Dispatcher) loginOAuth(ctx context.Context, req Request) (Subject, error) {
	if req.Provider == nil || req.Token == "" {
		return Subject{}, types.NewValidation(errMsgMissingOAuth)
	}
	providerID, err := providerID(req.Provider)
	if err != nil {
		return Subject{}, types.NewAuth(ErrMsgInvalidProvider)
	}

	externalUID, err := d.providers.Resolve(ctx, providerID, req.Token)
	if err != nil {
		return Subject{}, err
	}
	subject, err := d.identity.ByOAuth(ctx, providerID, externalUID)
	if err != nil {
		return Subject{}, err
	}
	if err := d.identity.StoreOAuthToken(ctx, subject.ID, req.Token); err != nil {
		return Subject{}, err
	}
	return subject, nil
}

// providerID accepts the id however JSON decoding delivered it.
func providerID(v interface{}) (int64, error) {
	switch id := v.(type) {
	case float64:
		return int64(id), nil
	case int64:
		return id, nil
	case int:
		return int64(id), nil
	case string:
		return strconv.ParseInt(id, 10, 64)
	}
	return 0, errors.New("unsupported provider id type")
}

// asAuthOrInternal keeps typed errors as they are and hides everything
// else behind an internal fault so collaborator details never reach the
// client.
func asAuthOrInternal(err error) error {
	var typed *types.Error
	if errors.As(err, &typed) {
		return err
	}
	return types.NewInternal(err)
}
