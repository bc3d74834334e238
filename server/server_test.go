package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/jobmatch/go-jobmatch-server/internal/config"
	fakeprofilerepo "github.com/jobmatch/go-jobmatch-server/profiles/repofake"
	"github.com/jobmatch/go-jobmatch-server/server"
	"github.com/jobmatch/go-jobmatch-server/session"
	"github.com/jobmatch/go-jobmatch-server/users"
	fakeuserrepo "github.com/jobmatch/go-jobmatch-server/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	testKey      = "0123456789abcdef0123456789abcdef"
	testPassword = "Sup3rSecret"
)

type testConfig struct {
	config.EnvVars
	config.Security
	config.SSO
}

func (testConfig) GetSessionKey() []byte {
	return []byte(testKey)
}

func (testConfig) GetEnv() string {
	return "TEST"
}

type serverFixture struct {
	userRepo    *fakeuserrepo.FakeUserRepo
	profileRepo *fakeprofilerepo.FakeProfileRepo
	server      *server.Server
}

func setupServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	ur := fakeuserrepo.NewFakeUserRepo()
	pr := fakeprofilerepo.NewFakeProfileRepo()

	srv, err := server.New(testConfig{}, server.Repos{Users: ur, Profiles: pr})
	require.NoError(t, err)

	return &serverFixture{userRepo: ur, profileRepo: pr, server: srv}
}

// registerUser creates a user through the registration endpoint and returns
// the session cookie it issued.
func (f *serverFixture) registerUser(t *testing.T, email string, role users.RoleType) *http.Cookie {
	t.Helper()

	form := url.Values{}
	form.Set("email", email)
	form.Set("password", testPassword)
	form.Set("role", string(role))

	r := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.server.ServeHTTP(w, r)

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, server.RouteDashboard, w.Header().Get("Location"))

	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func (f *serverFixture) do(method, path string, cookie *http.Cookie, body []byte) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		r.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	f.server.ServeHTTP(w, r)
	return w
}

type noKeyConfig struct{ testConfig }

func (noKeyConfig) GetSessionKey() []byte { return nil }

func TestNewRequiresSessionKey(t *testing.T) {
	_, err := server.New(noKeyConfig{}, server.Repos{
		Users:    fakeuserrepo.NewFakeUserRepo(),
		Profiles: fakeprofilerepo.NewFakeProfileRepo(),
	})
	require.Error(t, err)
}

func TestEdgeGuardRedirectsAnonymousFromProtectedPath(t *testing.T) {
	f := setupServerFixture(t)

	w := f.do(http.MethodGet, server.RouteDashboard, nil, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, server.RouteLogin, w.Header().Get("Location"))

	// A garbage cookie is no better than none.
	w = f.do(http.MethodGet, server.RouteDashboard, &http.Cookie{Name: session.CookieName, Value: "garbage"}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, server.RouteLogin, w.Header().Get("Location"))
}

func TestEdgeGuardRedirectsAuthenticatedFromPublicOnlyPath(t *testing.T) {
	f := setupServerFixture(t)
	cookie := f.registerUser(t, "a@example.com", users.RoleSeeker)

	for _, path := range []string{server.RouteLogin, server.RouteRegister} {
		w := f.do(http.MethodGet, path, cookie, nil)
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, server.RouteDashboard, w.Header().Get("Location"))
	}
}

func TestEdgeGuardAllowsAnonymousOnPublicPath(t *testing.T) {
	f := setupServerFixture(t)

	w := f.do(http.MethodGet, server.RouteLogin, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	f := setupServerFixture(t)

	cases := []struct {
		name     string
		email    string
		password string
		role     string
	}{
		{"bad email", "not-an-email", testPassword, "seeker"},
		{"weak password", "a@example.com", "short", "seeker"},
		{"bad role", "a@example.com", testPassword, "admin"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := url.Values{}
			form.Set("email", tc.email)
			form.Set("password", tc.password)
			form.Set("role", tc.role)

			r := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(form.Encode()))
			r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := httptest.NewRecorder()
			f.server.ServeHTTP(w, r)

			require.Equal(t, http.StatusSeeOther, w.Code)
			require.Contains(t, w.Header().Get("Location"), server.RouteRegister+"?error=")
			require.Empty(t, w.Result().Cookies())
		})
	}
}

func TestLoginIssuesSession(t *testing.T) {
	f := setupServerFixture(t)
	f.registerUser(t, "a@example.com", users.RoleSeeker)

	form := url.Values{}
	form.Set("email", "a@example.com")
	form.Set("password", testPassword)
	r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.server.ServeHTTP(w, r)

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, server.RouteDashboard, w.Header().Get("Location"))

	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	require.NotEmpty(t, sessionCookie.Value)
	require.True(t, sessionCookie.HttpOnly)
}

func TestLoginFailureIsUniform(t *testing.T) {
	f := setupServerFixture(t)
	f.registerUser(t, "a@example.com", users.RoleSeeker)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "b@example.com", testPassword},
		{"wrong password", "a@example.com", "Wr0ngPassword"},
	}

	var locations []string
	for _, tc := range cases {
		form := url.Values{}
		form.Set("email", tc.email)
		form.Set("password", tc.password)
		r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		f.server.ServeHTTP(w, r)

		require.Equal(t, http.StatusSeeOther, w.Code, tc.name)
		locations = append(locations, w.Header().Get("Location"))
	}

	// Both failure modes produce the identical redirect.
	require.Equal(t, locations[0], locations[1])
}

func TestLogoutClearsSession(t *testing.T) {
	f := setupServerFixture(t)
	cookie := f.registerUser(t, "a@example.com", users.RoleSeeker)

	w := f.do(http.MethodGet, "/auth/logout", cookie, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, session.CookieName, cookies[0].Name)
	require.Negative(t, cookies[0].MaxAge)

	// Logging out again without a session is not an error.
	w = f.do(http.MethodGet, "/auth/logout", nil, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
}

func TestDashboardMemoizesUserLookup(t *testing.T) {
	f := setupServerFixture(t)
	cookie := f.registerUser(t, "a@example.com", users.RoleSeeker)

	before := f.userRepo.GetByIDCalls
	w := f.do(http.MethodGet, server.RouteDashboard, cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Edge guard, RequireUser and RequireUserWithProfile all ran, but the
	// user store was consulted exactly once.
	require.Equal(t, before+1, f.userRepo.GetByIDCalls)
}

func TestDashboardForDeletedUserRedirectsToLogin(t *testing.T) {
	f := setupServerFixture(t)
	cookie := f.registerUser(t, "a@example.com", users.RoleSeeker)

	ctx := context.Background()
	user, err := f.userRepo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	f.userRepo.Delete(user.ID)

	w := f.do(http.MethodGet, server.RouteDashboard, cookie, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, server.RouteLogin, w.Header().Get("Location"))
}

func TestProfileLifecycleOverAPI(t *testing.T) {
	f := setupServerFixture(t)
	cookie := f.registerUser(t, "a@example.com", users.RoleSeeker)

	// No profile yet.
	w := f.do(http.MethodGet, server.RouteAPIProfile, cookie, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// Update before create routes to the creation flow.
	payload := []byte(`{"kind":"seeker","seeker":{"headline":"Backend developer"}}`)
	w = f.do(http.MethodPut, server.RouteAPIProfile, cookie, payload)
	require.Equal(t, http.StatusNotFound, w.Code)

	// Create.
	w = f.do(http.MethodPost, server.RouteAPIProfile, cookie, payload)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	// Second create conflicts.
	w = f.do(http.MethodPost, server.RouteAPIProfile, cookie, payload)
	require.Equal(t, http.StatusConflict, w.Code)

	// Update succeeds and keeps the profile's identity.
	updated := []byte(`{"kind":"seeker","seeker":{"headline":"Staff engineer"}}`)
	w = f.do(http.MethodPut, server.RouteAPIProfile, cookie, updated)
	require.Equal(t, http.StatusOK, w.Code)

	var afterUpdate struct {
		ID     string `json:"id"`
		Seeker struct {
			Headline string `json:"headline"`
		} `json:"seeker"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &afterUpdate))
	require.Equal(t, created.ID, afterUpdate.ID)
	require.Equal(t, "Staff engineer", afterUpdate.Seeker.Headline)
}

func TestProfileAPIRejectsRoleMismatch(t *testing.T) {
	f := setupServerFixture(t)
	cookie := f.registerUser(t, "c@example.com", users.RoleCompany)

	payload := []byte(`{"kind":"seeker","seeker":{"headline":"Backend developer"}}`)
	w := f.do(http.MethodPost, server.RouteAPIProfile, cookie, payload)
	require.Equal(t, http.StatusForbidden, w.Code)

	// Nothing was created.
	w = f.do(http.MethodGet, server.RouteAPIProfile, cookie, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileAPIRejectsInvalidPayload(t *testing.T) {
	f := setupServerFixture(t)
	cookie := f.registerUser(t, "a@example.com", users.RoleSeeker)

	w := f.do(http.MethodPost, server.RouteAPIProfile, cookie, []byte(`{"kind":"seeker","seeker":{"headline":""}}`))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = f.do(http.MethodPost, server.RouteAPIProfile, cookie, []byte(`{not json`))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileAPIRequiresSession(t *testing.T) {
	f := setupServerFixture(t)

	payload := []byte(`{"kind":"seeker","seeker":{"headline":"Backend developer"}}`)
	for _, cookie := range []*http.Cookie{nil, {Name: session.CookieName, Value: "garbage"}} {
		w := f.do(http.MethodPost, server.RouteAPIProfile, cookie, payload)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
}
