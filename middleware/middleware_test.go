package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"protodesk/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func signedToken(t *testing.T, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func testClaims(isAdmin bool) *Claims {
	return &Claims{
		UserID:  "u1",
		Email:   "staff@example.com",
		Name:    "Staff",
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestAuthenticateBearerHeader(t *testing.T) {
	var got *Claims
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		got = ClaimsFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/visitors", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, testClaims(false)))
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got == nil || got.UserID != "u1" {
		t.Fatalf("claims not propagated: %+v", got)
	}
}

func TestAuthenticateCookieFallback(t *testing.T) {
	called := false
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
	})

	req := httptest.NewRequest(http.MethodGet, "/api/visitors", nil)
	req.AddCookie(&http.Cookie{Name: "auth-token", Value: signedToken(t, testClaims(false))})
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	if !called {
		t.Fatalf("cookie session rejected: %d", rec.Code)
	}
}

func TestAuthenticateRejectsMissingAndGarbageTokens(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler must not run without a valid token")
	})

	for _, token := range []string{"", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/api/visitors", nil)
		if token != "" {
			req.Header.Set("Authorization", token)
		}
		rec := httptest.NewRecorder()
		handler(rec, req, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("token %q: status = %d, want 401", token, rec.Code)
		}
	}
}

func TestAuthenticateRejectsUnauthenticatedUpgrade(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler must not run without a valid token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/visitors", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("upgrade headers without a token: status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateAllowsAuthenticatedUpgrade(t *testing.T) {
	var got *Claims
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		got = ClaimsFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/ws/updates", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.AddCookie(&http.Cookie{Name: "auth-token", Value: signedToken(t, testClaims(false))})
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	if got == nil || got.UserID != "u1" {
		t.Fatalf("authenticated upgrade rejected: status = %d, claims = %+v", rec.Code, got)
	}
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	claims := testClaims(false)
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler must not run with an expired token")
	})
	req := httptest.NewRequest(http.MethodGet, "/api/visitors", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, claims))
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	inner := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	}
	handler := Authenticate(RequireAdmin(inner))

	cases := []struct {
		name  string
		admin bool
		want  int
	}{
		{"member", false, http.StatusForbidden},
		{"admin", true, http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/visitors", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, testClaims(tc.admin)))
		rec := httptest.NewRecorder()
		handler(rec, req, nil)
		if rec.Code != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, rec.Code, tc.want)
		}
	}
}
