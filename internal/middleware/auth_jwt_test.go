package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testSecret = "test-secret"

func authedHandler(t *testing.T, wantUserID string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := UserIDFromContext(r.Context()); got != wantUserID {
			t.Fatalf("unexpected user id in context: %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthJWTValidToken(t *testing.T) {
	token, err := SignToken(testSecret, "user-42", time.Hour)
	if err != nil {
		t.Fatalf("SignToken error: %v", err)
	}

	handler := AuthJWT(testSecret)(authedHandler(t, "user-42"))
	req := httptest.NewRequest(http.MethodGet, "/v1/generations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthJWTRejections(t *testing.T) {
	expired, err := SignToken(testSecret, "user-42", -time.Minute)
	if err != nil {
		t.Fatalf("SignToken error: %v", err)
	}
	wrongSecret, err := SignToken("other-secret", "user-42", time.Hour)
	if err != nil {
		t.Fatalf("SignToken error: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired token", "Bearer " + expired},
		{"wrong secret", "Bearer " + wrongSecret},
	}

	handler := AuthJWT(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run for %s", r.Header.Get("Authorization"))
	}))
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/generations", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestVerifyTokenRoundTrip(t *testing.T) {
	token, err := SignToken(testSecret, "user-7", time.Hour)
	if err != nil {
		t.Fatalf("SignToken error: %v", err)
	}
	userID, err := VerifyToken(testSecret, token)
	if err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}
	if userID != "user-7" {
		t.Fatalf("unexpected subject: %s", userID)
	}
}
