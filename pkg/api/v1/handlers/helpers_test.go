package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/restbridge/restbridge/internal/api/v1/middleware"
	"github.com/restbridge/restbridge/internal/auth"
	"github.com/restbridge/restbridge/internal/query"
	"github.com/restbridge/restbridge/internal/store"
	"github.com/restbridge/restbridge/internal/types"
	"github.com/restbridge/restbridge/pkg/api/v1/handlers"
	"github.com/restbridge/restbridge/pkg/api/v1/routes"
)

const (
	testDatabase = "restbridge"
	testPassword = "s3cret"
)

var testKey = []byte("handler-test-signing-key")

// fakeSchema is an in-memory SchemaRegistry.
type fakeSchema struct {
	models map[string][]types.FieldDescriptor
}

func (f *fakeSchema) ModelExists(_ context.Context, model string) (bool, error) {
	_, ok := f.models[model]
	return ok, nil
}

func (f *fakeSchema) Fields(_ context.Context, model string) ([]types.FieldDescriptor, error) {
	return f.models[model], nil
}

// fakeRecords is an in-memory RecordStore. Rows are kept ordered by id
// ascending; "id desc" reverses, which covers what the tests exercise.
type fakeRecords struct {
	rows   map[string][]types.Record
	nextID int64

	lastOrder string
}

func (f *fakeRecords) matching(model string, filter query.FilterSet) []types.Record {
	var out []types.Record
	for _, row := range f.rows[model] {
		if matches(row, filter) {
			out = append(out, row)
		}
	}
	return out
}

func matches(row types.Record, filter query.FilterSet) bool {
	for _, cond := range filter {
		have := fmt.Sprint(row[cond.Field])
		switch cond.Operator {
		case query.OpEqual:
			if have != fmt.Sprint(cond.Value) {
				return false
			}
		case query.OpIn:
			found := false
			for _, v := range cond.Value.([]interface{}) {
				if have == fmt.Sprint(v) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (f *fakeRecords) SearchCount(_ context.Context, model string, filter query.FilterSet) (int64, error) {
	return int64(len(f.matching(model, filter))), nil
}

func (f *fakeRecords) SearchRead(_ context.Context, model string, filter query.FilterSet, fields []string, window query.Window, order string) ([]types.Record, error) {
	f.lastOrder = order

	rows := f.matching(model, filter)
	if order == "id desc" {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}

	if window.Offset >= len(rows) {
		return nil, nil
	}
	rows = rows[window.Offset:]
	if window.Limit > 0 && window.Limit < len(rows) {
		rows = rows[:window.Limit]
	}

	out := make([]types.Record, 0, len(rows))
	for _, row := range rows {
		projected := types.Record{}
		for _, name := range fields {
			if v, ok := row[name]; ok {
				projected[name] = v
			}
		}
		out = append(out, projected)
	}
	return out, nil
}

func (f *fakeRecords) Create(_ context.Context, model string, values types.Record) (int64, error) {
	f.nextID++
	row := types.Record{"id": f.nextID}
	for k, v := range values {
		row[k] = v
	}
	f.rows[model] = append(f.rows[model], row)
	return f.nextID, nil
}

func (f *fakeRecords) Write(_ context.Context, model string, id int64, values types.Record) (bool, error) {
	for _, row := range f.rows[model] {
		if fmt.Sprint(row["id"]) == fmt.Sprint(id) {
			for k, v := range values {
				row[k] = v
			}
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRecords) Unlink(_ context.Context, model string, id int64) (bool, error) {
	rows := f.rows[model]
	for i, row := range rows {
		if fmt.Sprint(row["id"]) == fmt.Sprint(id) {
			f.rows[model] = append(rows[:i:i], rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// fakeAccess denies the listed models and allows everything else.
type fakeAccess struct {
	denied map[string]bool
}

func (f *fakeAccess) Check(_ context.Context, _ auth.Principal, model string, _ store.Op) error {
	if f.denied[model] {
		return types.NewPermission(fmt.Sprintf(
			"You are not allowed to access the model '%s' and/or one or more of its relationships", model))
	}
	return nil
}

// fakeIdentity accepts a single login/password pair.
type fakeIdentity struct {
	login    string
	password string
}

func (f *fakeIdentity) VerifyCredentials(_ context.Context, username, password string) (auth.Subject, error) {
	if username != f.login || password != f.password {
		return auth.Subject{}, types.NewAuth(auth.ErrMsgAccessDenied)
	}
	return auth.Subject{ID: 1, Name: "Admin"}, nil
}

func (f *fakeIdentity) BySubject(_ context.Context, userID int64) (auth.Subject, error) {
	if userID != 1 {
		return auth.Subject{}, types.NewAuth(auth.ErrMsgInvalidToken)
	}
	return auth.Subject{ID: 1, Name: "Admin"}, nil
}

func (f *fakeIdentity) ByOAuth(_ context.Context, _ int64, _ string) (auth.Subject, error) {
	return auth.Subject{}, types.NewAuth(auth.ErrMsgInvalidToken)
}

func (f *fakeIdentity) StoreOAuthToken(_ context.Context, _ int64, _ string) error {
	return nil
}

type fakeProviders struct{}

func (fakeProviders) Resolve(_ context.Context, _ int64, _ string) (string, error) {
	return "", types.NewAuth(auth.ErrMsgInvalidToken)
}

// testEnv bundles a wired app with its fakes and a valid bearer token.
type testEnv struct {
	app     *fiber.App
	records *fakeRecords
	access  *fakeAccess
	token   string
}

func userFields() []types.FieldDescriptor {
	return []types.FieldDescriptor{
		{Name: "id", Label: "ID", Type: types.FieldInteger, Required: true},
		{Name: "display_name", Label: "Display Name", Type: types.FieldChar},
		{Name: "login", Label: "Login", Type: types.FieldChar, Required: true},
		{Name: "active", Label: "Active", Type: types.FieldBoolean},
	}
}

func leadFields() []types.FieldDescriptor {
	return []types.FieldDescriptor{
		{Name: "id", Label: "ID", Type: types.FieldInteger, Required: true},
		{Name: "foo", Label: "Foo", Type: types.FieldChar, Required: true},
		{Name: "bar", Label: "Bar", Type: types.FieldChar, Required: true},
		{Name: "note", Label: "Note", Type: types.FieldText},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	schema := &fakeSchema{models: map[string][]types.FieldDescriptor{
		"res.users": userFields(),
		"crm.lead":  leadFields(),
	}}

	records := &fakeRecords{rows: map[string][]types.Record{}, nextID: 100}
	for i := int64(1); i <= 6; i++ {
		records.rows["res.users"] = append(records.rows["res.users"], types.Record{
			"id":           i,
			"display_name": fmt.Sprintf("User %d", i),
			"login":        fmt.Sprintf("user%d", i),
			"active":       true,
		})
	}

	access := &fakeAccess{denied: map[string]bool{}}

	codec := auth.NewTokenCodec(testKey, time.Hour)
	dispatcher := auth.NewDispatcher(codec, &fakeIdentity{login: "admin", password: testPassword}, fakeProviders{}, testDatabase)

	api := handlers.NewAPIHandler(schema, records, access, 0)
	app := fiber.New()
	routes.RegisterRoutes(app, middleware.BearerAuth(codec),
		handlers.NewAuthHandler(dispatcher), handlers.NewModelHandler(api))

	token, err := codec.Issue(auth.Principal{UserID: 1, Name: "Admin", Database: testDatabase})
	require.NoError(t, err)

	return &testEnv{app: app, records: records, access: access, token: token}
}

// do runs one request against the app and decodes the JSON body into a
// generic map.
func (e *testEnv) do(t *testing.T, method, target string, body interface{}, token string) (int, map[string]interface{}, http.Header) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	decoded := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded, resp.Header
}
