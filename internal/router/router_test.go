package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/business-card-api/config"
	"github.com/oksasatya/business-card-api/internal/container"
	"github.com/oksasatya/business-card-api/internal/domain/entity"
	"github.com/oksasatya/business-card-api/pkg/helpers"
)

func newTestContainer() *container.Container {
	return newTestContainerWith(container.Infra{})
}

func newTestContainerWith(infra container.Infra) *container.Container {
	cfg := &config.Config{
		DBTarget:            config.TargetMemory,
		JWTAccessSecret:     "test-secret",
		AccessTTL:           time.Hour,
		DBOpTimeout:         time.Second,
		ESUsersIndex:        "users",
		DebugMetricsEnabled: true,
		LoginRateLimit:      10,
	}
	return container.New(cfg, helpers.NewNopLogger(), infra)
}

type client struct {
	t      *testing.T
	engine *gin.Engine
}

func (c client) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)
	return w
}

func (c client) register(email string) string {
	c.t.Helper()
	body := `{"name":"Jo Doe","email":"` + email + `","password":"Abcd1234!","phone":"0500000000",
		"address":{"country":"Israel","city":"Tel Aviv","street":"Herzl","houseNumber":3}}`
	w := c.do(http.MethodPost, "/users", "", body)
	require.Equal(c.t, http.StatusCreated, w.Code, w.Body.String())
	var out map[string]any
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.NotContains(c.t, out, "password")
	return out["id"].(string)
}

func (c client) login(email string) string {
	c.t.Helper()
	w := c.do(http.MethodPost, "/users/login", "", `{"email":"`+email+`","password":"Abcd1234!"}`)
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())
	return w.Body.String()
}

func newClient(t *testing.T) (client, *container.Container) {
	gin.SetMode(gin.TestMode)
	ctr := newTestContainer()
	return client{t: t, engine: NewEngine(ctr)}, ctr
}

// newRedisClient wires sessions and rate limits to an in-process Redis.
func newRedisClient(t *testing.T) (client, *container.Container) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	ctr := newTestContainerWith(container.Infra{Redis: rdb})
	return client{t: t, engine: NewEngine(ctr)}, ctr
}

func (c client) promote(ctr *container.Container, id string) {
	c.t.Helper()
	_, err := ctr.Users.SetAdmin(context.Background(), id, true)
	require.NoError(c.t, err)
}

func TestRegisterLoginReadDeleteScenario(t *testing.T) {
	c, ctr := newClient(t)

	c.promote(ctr, c.register("admin@x.com"))
	admin := c.login("admin@x.com")

	id := c.register("jo@x.com")
	token := c.login("jo@x.com")

	w := c.do(http.MethodGet, "/users/"+id, token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"`+id+`"`)

	w = c.do(http.MethodGet, "/users", token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = c.do(http.MethodDelete, "/users/"+id, token, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodGet, "/users/"+id, admin, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// without a session store the deleted user's token still verifies
	w = c.do(http.MethodGet, "/users/"+id, token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterCannotGrantAdmin(t *testing.T) {
	c, ctr := newClient(t)

	body := `{"name":"Jo Doe","email":"jo@x.com","password":"Abcd1234!","phone":"0500000000","isAdmin":true,
		"address":{"country":"Israel","city":"Tel Aviv","street":"Herzl","houseNumber":3}}`
	w := c.do(http.MethodPost, "/users", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"isAdmin":false`)

	token := c.login("jo@x.com")
	w = c.do(http.MethodGet, "/users", token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	users := mustList(t, ctr)
	require.Len(t, users, 1)
	assert.False(t, users[0].IsAdmin)
}

func TestSessionsOverRedis(t *testing.T) {
	c, ctr := newRedisClient(t)

	rootID := c.register("root@x.com")
	c.promote(ctr, rootID)
	root := c.login("root@x.com")

	id := c.register("jo@x.com")
	token := c.login("jo@x.com")
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/users/"+id, token, "").Code)

	w := c.do(http.MethodPost, "/users/logout", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	w = c.do(http.MethodGet, "/users/"+id, token, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"session not found"}`, w.Body.String())

	// a second login replaces the first session
	first := c.login("jo@x.com")
	second := c.login("jo@x.com")
	w = c.do(http.MethodGet, "/users/"+id, first, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"session revoked"}`, w.Body.String())
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/users/"+id, second, "").Code)

	// deletion revokes the session, so only an admin sees the 404
	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, "/users/"+id, second, "").Code)
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/users/"+id, second, "").Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/users/"+id, root, "").Code)
}

func TestDemotedAdminLosesAccess(t *testing.T) {
	c, ctr := newRedisClient(t)

	rootID := c.register("root@x.com")
	c.promote(ctr, rootID)
	root := c.login("root@x.com")

	otherID := c.register("other@x.com")
	c.promote(ctr, otherID)
	other := c.login("other@x.com")
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/users", other, "").Code)

	w := c.do(http.MethodPut, "/users/"+otherID+"/role", root, `{"isAdmin":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isAdmin":false`)

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/users", other, "").Code)

	other = c.login("other@x.com")
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodGet, "/users", other, "").Code)
}

func TestUnreachableRedisFailsClosed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = rdb.Close() })
	ctr := newTestContainerWith(container.Infra{Redis: rdb})
	c := client{t: t, engine: NewEngine(ctr)}

	c.register("jo@x.com")

	w := c.do(http.MethodPost, "/users/login", "", `{"email":"jo@x.com","password":"Abcd1234!"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"session store unavailable"}`, w.Body.String())

	token, _, err := ctr.JWT.GenerateAccessToken(mustList(t, ctr)[0].ID, false, false, "sid")
	require.NoError(t, err)
	w = c.do(http.MethodGet, "/users/"+mustList(t, ctr)[0].ID, token, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"session store unavailable"}`, w.Body.String())
}

func TestNonOwnerIsForbiddenAndNothingChanges(t *testing.T) {
	c, ctr := newClient(t)

	owner := c.register("owner@x.com")
	c.register("other@x.com")
	other := c.login("other@x.com")

	for _, tc := range []struct{ method, body string }{
		{http.MethodGet, ""},
		{http.MethodPut, `{"phone":"0521234567"}`},
		{http.MethodPatch, ""},
		{http.MethodDelete, ""},
	} {
		w := c.do(tc.method, "/users/"+owner, other, tc.body)
		assert.Equal(t, http.StatusForbidden, w.Code, tc.method)
	}

	u, err := ctr.Users.GetByID(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, "0500000000", u.Phone)
	assert.False(t, u.IsBusiness)
}

func TestAdminCanListAndManageRoles(t *testing.T) {
	c, ctr := newClient(t)

	adminID := c.register("admin@x.com")
	userID := c.register("user@x.com")
	_, err := ctr.Users.SetAdmin(context.Background(), adminID, true)
	require.NoError(t, err)

	admin := c.login("admin@x.com")
	user := c.login("user@x.com")

	w := c.do(http.MethodGet, "/users", admin, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	w = c.do(http.MethodPut, "/users/"+userID+"/role", user, `{"isAdmin":true}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = c.do(http.MethodPut, "/users/"+userID, user, `{"isAdmin":true,"phone":"0521234567"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isAdmin":false`)

	w = c.do(http.MethodPut, "/users/"+userID+"/role", admin, `{"isAdmin":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isAdmin":true`)

	w = c.do(http.MethodPatch, "/users/"+userID, admin, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isBusiness":true`)

	w = c.do(http.MethodGet, "/users/search?q=jo", admin, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = c.do(http.MethodGet, "/users/search?q=jo", user, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestErrorsAreTranslated(t *testing.T) {
	c, ctr := newClient(t)
	c.register("jo@x.com")

	w := c.do(http.MethodPost, "/users", "", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Validation Error: payload invalid json"}`, w.Body.String())

	w = c.do(http.MethodPost, "/users", "", `{"name":"Jo Doe","email":"JO@x.com","password":"Abcd1234!","phone":"0500000000",
		"address":{"country":"Israel","city":"Tel Aviv","street":"Herzl","houseNumber":3}}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = c.do(http.MethodPost, "/users", "", `{"email":"a@b.co"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, len(mustList(t, ctr)))

	w = c.do(http.MethodGet, "/users", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = c.do(http.MethodGet, "/users", "not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = c.do(http.MethodPost, "/users/login", "", `{"email":"jo@x.com","password":"Wrong123!"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = c.do(http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"route not found"}`, w.Body.String())
}

func TestLogoutAndHealth(t *testing.T) {
	c, _ := newClient(t)
	c.register("jo@x.com")
	token := c.login("jo@x.com")

	w := c.do(http.MethodPost, "/users/logout", token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = c.do(http.MethodPost, "/users/logout", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = c.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","database":"up"}`, w.Body.String())

	w = c.do(http.MethodGet, "/debug/vars", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"users"`)
}

func TestHealthReportsMissingDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{DBTarget: config.TargetLocal, JWTAccessSecret: "s", AccessTTL: time.Hour}
	ctr := container.New(cfg, helpers.NewNopLogger(), container.Infra{})
	c := client{t: t, engine: NewEngine(ctr)}

	w := c.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = c.do(http.MethodPost, "/users", "", `{"name":"Jo Doe","email":"jo@x.com","password":"Abcd1234!","phone":"0500000000",
		"address":{"country":"Israel","city":"Tel Aviv","street":"Herzl","houseNumber":3}}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"database unavailable"}`, w.Body.String())
}

func mustList(t *testing.T, ctr *container.Container) []entity.User {
	t.Helper()
	users, err := ctr.Users.List(context.Background())
	require.NoError(t, err)
	return users
}
