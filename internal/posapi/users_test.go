package posapi

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posgate/internal/auth"
	"posgate/internal/models"
)

func TestLogin_IdenticalFailures(t *testing.T) {
	a := newTestAPI(t)
	a.register("alice", "secret1")

	unknown := a.do(http.MethodPost, "/token", "", map[string]string{"username": "mallory", "password": "secret1"})
	wrong := a.do(http.MethodPost, "/token", "", map[string]string{"username": "alice", "password": "secret2"})

	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
	assert.Equal(t, "Bearer", unknown.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "Bearer", wrong.Header().Get("WWW-Authenticate"))
	assert.Equal(t, detailBadLogin, problem(t, wrong).Detail)
}

func TestLogin_TokenCarriesIdentity(t *testing.T) {
	a := newTestAPI(t)
	id := a.register("alice", "secret1")

	for _, path := range []string{"/token", "/auth/token"} {
		rr := a.do(http.MethodPost, path, "", map[string]string{"username": "alice", "password": "secret1"})
		require.Equal(t, http.StatusOK, rr.Code)
		got, err := a.tokens.Verify(decode[TokenResponse](t, rr).Token)
		require.NoError(t, err)
		assert.Equal(t, auth.Identity{Username: "alice", ID: id}, got)
	}
}

func TestLogin_Form(t *testing.T) {
	a := newTestAPI(t)
	a.register("alice", "secret1")

	form := url.Values{"username": {"alice"}, "password": {"secret1"}, "grant_type": {"password"}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.NotEmpty(t, decode[TokenResponse](t, rr).Token)
}

func TestLogin_Validation(t *testing.T) {
	a := newTestAPI(t)

	tests := map[string]any{
		"malformed":        "{not json",
		"empty body":       "",
		"missing password": map[string]string{"username": "alice"},
		"wrong types":      map[string]any{"username": 1, "password": true},
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rr := a.do(http.MethodPost, "/token", "", body)
			assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		})
	}
}

func TestCreateUser(t *testing.T) {
	a := newTestAPI(t)
	a.register("alice", "secret1")

	rr := a.do(http.MethodPost, "/users/create/user", "", map[string]any{
		"username": "alice", "firstname": "A", "lastname": "B", "password": "x",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = a.do(http.MethodPost, "/users/create/user", "", map[string]any{
		"username": "bob", "email": "not-an-email", "password": "x",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = a.do(http.MethodPost, "/users/create/user", "", map[string]any{
		"username": "bob", "password": strings.Repeat("p", auth.MaxPasswordBytes+1),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = a.do(http.MethodGet, "/users/", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "hashed_password")
	assert.Len(t, decode[[]models.User](t, rr), 1)
}

func TestGetUser(t *testing.T) {
	a := newTestAPI(t)
	id := a.register("alice", "secret1")
	sid := strconv.FormatUint(uint64(id), 10)

	for _, path := range []string{"/users/" + sid, "/users/user/?user_id=" + sid} {
		rr := a.do(http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, rr.Code, path)
		u := decode[models.User](t, rr)
		assert.Equal(t, "alice", u.Username)
		assert.Empty(t, u.HashedPassword)
	}

	rr := a.do(http.MethodGet, "/users/9999", "", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, detailUserNotFound, problem(t, rr).Detail)

	rr = a.do(http.MethodGet, "/users/user/?user_id=abc", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestUpdateMyPassword(t *testing.T) {
	a := newTestAPI(t)
	a.register("alice", "secret1")
	a.register("bob", "bob-pw")
	token := a.login("alice", "secret1")

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{name: "someone else's username", body: map[string]string{"username": "bob", "password": "bob-pw", "new_password": "x"}, want: http.StatusUnauthorized},
		{name: "wrong current password", body: map[string]string{"username": "alice", "password": "nope", "new_password": "x"}, want: http.StatusUnauthorized},
		{name: "missing new password", body: map[string]string{"username": "alice", "password": "secret1"}, want: http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := a.do(http.MethodPut, "/users/update_my_password", token, tt.body)
			require.Equal(t, tt.want, rr.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Equal(t, detailInvalidUser, problem(t, rr).Detail)
			}
		})
	}

	rr := a.do(http.MethodPut, "/users/update_my_password", "", map[string]string{"username": "alice", "password": "secret1", "new_password": "secret2"})
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = a.do(http.MethodPut, "/users/update_my_password", token, map[string]string{"username": "alice", "password": "secret1", "new_password": "secret2"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.Ack{Status: 200, Transaction: "Successful"}, decode[models.Ack](t, rr))

	rr = a.do(http.MethodPost, "/token", "", map[string]string{"username": "alice", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	a.login("alice", "secret2")
}

func TestDeleteMe(t *testing.T) {
	a := newTestAPI(t)
	id, token := a.user("alice")
	_, bobToken := a.user("bob")
	orgID := a.org(token, "O1")
	tgID := a.terminalGroup(token, orgID, "hall", true)
	a.order(token, orgID, tgID, map[string]any{"paymentTypeKind": "Cash", "sum": 10})
	bobOrg := a.org(bobToken, "B1")

	rr := a.do(http.MethodDelete, "/users/delete_me", token, nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, models.Ack{Status: 201, Transaction: "Successful"}, decode[models.Ack](t, rr))

	rr = a.do(http.MethodGet, "/users/"+strconv.FormatUint(uint64(id), 10), "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	var n int64
	require.NoError(t, a.db.Model(&models.Order{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, a.db.Model(&models.Organization{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	// the token is still cryptographically valid until exp
	rr = a.do(http.MethodDelete, "/users/delete_me", token, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, detailUserNotFound, problem(t, rr).Detail)

	rr = a.do(http.MethodPost, "/organizations/", bobToken, map[string]any{
		"organization_ids": []uint{bobOrg}, "return_additional_info": false, "include_disabled": true,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]OrganizationShort](t, rr), 1)
}

func TestStorageFailure(t *testing.T) {
	a := newTestAPI(t)
	sqlDB, err := a.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	rr := a.do(http.MethodGet, "/users/", "", nil)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	p := problem(t, rr)
	assert.NotContains(t, p.Detail, "sql")
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}
