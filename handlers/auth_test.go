// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/pos-backoffice/auth"
	"github.com/danielhkuo/pos-backoffice/models"
	"github.com/danielhkuo/pos-backoffice/sessions"
	"github.com/danielhkuo/pos-backoffice/testutil"
)

func newTestAuthHandler(t *testing.T) (*AuthHandler, *auth.TokenManager) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	testutil.CreateTestAdmin(t, db, "admin", "correct-horse", "1234")

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	return NewAuthHandler(db, cfg, tokens, sessions.NewMemoryStore()), tokens
}

func TestSignIn(t *testing.T) {
	h, tokens := newTestAuthHandler(t)

	w := httptest.NewRecorder()
	h.SignIn(w, testutil.MakeRequest("POST", "/api/signin",
		models.SignInRequest{Username: "admin", Password: "correct-horse"}, nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.SignInResponse
	testutil.AssertJSON(t, w, &resp)

	if !resp.Success || resp.Message != "Signin successful" || resp.Username != "admin" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.ExpiresIn < int64((6*time.Hour).Seconds())-5 {
		t.Errorf("expiresIn = %d, want about 6h", resp.ExpiresIn)
	}

	claims, err := tokens.Parse(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.UserID != models.AdminID {
		t.Errorf("userId = %d, want %d", claims.UserID, models.AdminID)
	}
}

func TestSignIn_Rejected(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	testCases := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantError  string
	}{
		{"wrong password", models.SignInRequest{Username: "admin", Password: "wrong"}, http.StatusUnauthorized, "Invalid username or password"},
		{"unknown user", models.SignInRequest{Username: "nobody", Password: "correct-horse"}, http.StatusUnauthorized, "Invalid username or password"},
		{"missing password", models.SignInRequest{Username: "admin"}, http.StatusBadRequest, "Username and password are required"},
		{"not json", "not json", http.StatusBadRequest, "Invalid JSON"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var req *http.Request
			if s, ok := tc.body.(string); ok {
				req = httptest.NewRequest("POST", "/api/signin", strings.NewReader(s))
			} else {
				req = testutil.MakeRequest("POST", "/api/signin", tc.body, nil)
			}
			w := httptest.NewRecorder()

			h.SignIn(w, req)

			testutil.AssertStatus(t, w, tc.wantStatus)
			testutil.AssertError(t, w, tc.wantError)
		})
	}
}

func TestCheckAuth(t *testing.T) {
	h, tokens := newTestAuthHandler(t)

	valid, _, _ := tokens.Issue(models.AdminID)
	expired, _, _ := tokens.WithClock(func() time.Time { return time.Now().Add(-7 * time.Hour) }).Issue(models.AdminID)

	testCases := []struct {
		name   string
		header string
		want   bool
	}{
		{"valid", "Bearer " + valid, true},
		{"missing", "", false},
		{"expired", "Bearer " + expired, false},
		{"garbage", "Bearer abc.def.ghi", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			headers := map[string]string{}
			if tc.header != "" {
				headers["Authorization"] = tc.header
			}
			w := httptest.NewRecorder()
			h.CheckAuth(w, testutil.MakeRequest("GET", "/api/check-auth", nil, headers))

			testutil.AssertStatus(t, w, http.StatusOK)
			var resp models.CheckAuthResponse
			testutil.AssertJSON(t, w, &resp)

			if resp.IsAuthenticated != tc.want || resp.UsernamePasswordVerified != tc.want {
				t.Errorf("response = %+v, want authenticated=%v", resp, tc.want)
			}
			if tc.want && (resp.ExpiresIn == nil || *resp.ExpiresIn <= 0) {
				t.Error("valid token should report expiresIn")
			}
			if !tc.want && resp.ExpiresIn != nil {
				t.Error("expiresIn should be omitted when unauthenticated")
			}
		})
	}
}

func TestValidatePin(t *testing.T) {
	h, tokens := newTestAuthHandler(t)
	token, _, _ := tokens.Issue(models.AdminID)
	orphan, _, _ := tokens.Issue(99)

	testCases := []struct {
		name       string
		header     string
		pin        string
		wantStatus int
		wantError  string
	}{
		{"correct pin", "Bearer " + token, "1234", http.StatusOK, ""},
		{"wrong pin", "Bearer " + token, "9999", http.StatusUnauthorized, "Invalid PIN"},
		{"no token", "", "1234", http.StatusUnauthorized, "No token provided"},
		{"bad token", "Bearer junk", "1234", http.StatusUnauthorized, "Invalid token"},
		{"unknown admin", "Bearer " + orphan, "1234", http.StatusNotFound, "Admin not found"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			headers := map[string]string{}
			if tc.header != "" {
				headers["Authorization"] = tc.header
			}
			w := httptest.NewRecorder()
			h.ValidatePin(w, testutil.MakeRequest("POST", "/api/validate-pin", models.ValidatePinRequest{Pin: tc.pin}, headers))

			testutil.AssertStatus(t, w, tc.wantStatus)
			if tc.wantError != "" {
				testutil.AssertError(t, w, tc.wantError)
				return
			}
			var resp models.MessageResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Message != "PIN validated successfully" {
				t.Errorf("message = %q", resp.Message)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	h, tokens := newTestAuthHandler(t)
	token, _, _ := tokens.Issue(models.AdminID)
	headers := map[string]string{"Authorization": "Bearer " + token}

	w := httptest.NewRecorder()
	h.Logout(w, testutil.MakeRequest("POST", "/api/logout", nil, headers))

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.LogoutResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.Success {
		t.Error("expected success")
	}

	cookie := w.Header().Get("Set-Cookie")
	for _, part := range []string{"token=", "Path=/", "Max-Age=0", "HttpOnly"} {
		if !strings.Contains(cookie, part) {
			t.Errorf("Set-Cookie %q missing %q", cookie, part)
		}
	}

	// The revoked token no longer authenticates.
	w = httptest.NewRecorder()
	h.CheckAuth(w, testutil.MakeRequest("GET", "/api/check-auth", nil, headers))
	var check models.CheckAuthResponse
	testutil.AssertJSON(t, w, &check)
	if check.IsAuthenticated {
		t.Error("token should be rejected after logout")
	}
}

func TestLogout_WithoutToken(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	w := httptest.NewRecorder()
	h.Logout(w, testutil.MakeRequest("GET", "/api/logout", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Header().Get("Set-Cookie"), "token=") {
		t.Error("cookie should be cleared even without a token")
	}
}
