package posapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"posgate/internal/auth"
	"posgate/internal/db"
	"posgate/internal/middleware"
	"posgate/internal/models"
)

type testAPI struct {
	t      *testing.T
	db     *gorm.DB
	router *mux.Router
	tokens *auth.Issuer
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := db.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background(), gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	tokens, err := auth.NewIssuer("test-secret", 30*time.Minute)
	require.NoError(t, err)

	r := mux.NewRouter().StrictSlash(true)
	r.Use(middleware.RequestID, middleware.Recoverer)
	RegisterRoutes(r, NewHandler(gdb, auth.NewHasher(bcrypt.MinCost), tokens), tokens)

	return &testAPI{t: t, db: gdb, router: r, tokens: tokens}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(a.t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func (a *testAPI) register(username, password string) uint {
	a.t.Helper()
	rr := a.do(http.MethodPost, "/users/create/user", "", map[string]any{
		"username":  username,
		"email":     username + "@example.com",
		"firstname": strings.ToUpper(username[:1]) + username[1:],
		"lastname":  "Test",
		"password":  password,
	})
	require.Equal(a.t, http.StatusCreated, rr.Code, rr.Body.String())
	ack := decode[models.Ack](a.t, rr)
	require.NotNil(a.t, ack.ID)
	return *ack.ID
}

func (a *testAPI) login(username, password string) string {
	a.t.Helper()
	rr := a.do(http.MethodPost, "/token", "", map[string]string{"username": username, "password": password})
	require.Equal(a.t, http.StatusOK, rr.Code, rr.Body.String())
	return decode[TokenResponse](a.t, rr).Token
}

// user регистрирует пользователя и сразу логинит его.
func (a *testAPI) user(username string) (uint, string) {
	a.t.Helper()
	id := a.register(username, username+"-pw")
	return id, a.login(username, username+"-pw")
}

func (a *testAPI) create(path, token string, body any) uint {
	a.t.Helper()
	rr := a.do(http.MethodPost, path, token, body)
	require.Equal(a.t, http.StatusCreated, rr.Code, rr.Body.String())
	ack := decode[models.Ack](a.t, rr)
	require.Equal(a.t, "Successful", ack.Transaction)
	require.NotNil(a.t, ack.ID)
	return *ack.ID
}

func (a *testAPI) org(token, name string) uint {
	return a.create("/organizations/create", token, map[string]any{"name": name})
}

func (a *testAPI) terminalGroup(token string, orgID uint, name string, alive bool) uint {
	return a.create("/terminal_groups/create", token, map[string]any{
		"organization_id": orgID, "name": name, "timezone": "UTC", "is_alive": alive,
	})
}

func (a *testAPI) order(token string, orgID, tgID uint, payments ...map[string]any) uint {
	if payments == nil {
		payments = []map[string]any{}
	}
	return a.create("/orders/", token, map[string]any{
		"organization_id":   orgID,
		"terminal_group_id": tgID,
		"order": map[string]any{
			"phone":       "+79990000000",
			"guest_count": 2,
			"customer":    map[string]any{"name": "Ann", "gender": "Female"},
			"payments":    payments,
		},
		"create_order_settings": map[string]any{"transport_to_front_timeout": 30},
	})
}

func problem(t *testing.T, rr *httptest.ResponseRecorder) models.Problem {
	t.Helper()
	return decode[models.Problem](t, rr)
}
