// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/pos-backoffice/models"
	"github.com/danielhkuo/pos-backoffice/testutil"
)

var fixedNow = time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) (http.Handler, map[string]string) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	testutil.CreateTestAdmin(t, db, "admin", "correct-horse", "1234")

	mux := NewRouter(db, cfg, Services{Now: func() time.Time { return fixedNow }})
	return mux, testutil.AuthHeader(t, cfg)
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRouteTable(t *testing.T) {
	routes := Routes(Handlers{})

	seen := make(map[string]bool)
	for _, rt := range routes {
		key := rt.Method + " " + rt.Pattern
		if seen[key] {
			t.Errorf("duplicate route %s", key)
		}
		seen[key] = true
	}

	public := map[string]bool{
		"GET /api/check-auth":           true,
		"GET /api/logout":               true,
		"POST /api/logout":              true,
		"POST /api/signin":              true,
		"POST /api/validate-pin":        true,
		"GET /api/admin-name":           true,
		"GET /api/sales-data":           true,
		"GET /api/rated-products-count": true,
		"GET /api/top-products":         true,
		"GET /api/total-products":       true,
		"GET /api/total-stock":          true,
	}
	for _, rt := range routes {
		key := rt.Method + " " + rt.Pattern
		if rt.Protected == public[key] {
			t.Errorf("%s: Protected = %v", key, rt.Protected)
		}
	}

	if len(routes) != 24 {
		t.Errorf("route table has %d entries, want 24", len(routes))
	}
}

func TestRouteExistence(t *testing.T) {
	mux, headers := newTestRouter(t)

	routes := []struct {
		method string
		path   string
	}{
		{"GET", "/api/check-auth"},
		{"GET", "/api/admin-name"},
		{"GET", "/api/admin-data"},
		{"GET", "/api/sales-data?timeFrame=today"},
		{"GET", "/api/rated-products-count?timeFrame=lastWeek"},
		{"GET", "/api/top-products"},
		{"GET", "/api/total-products"},
		{"GET", "/api/total-stock"},
		{"GET", "/api/sales-report"},
		{"GET", "/api/products"},
		{"GET", "/api/orders"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			req := testutil.MakeRequest(rt.method, rt.path, nil, headers)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("%s %s: status %d, body %s", rt.method, rt.path, w.Code, w.Body.String())
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	mux, _ := newTestRouter(t)

	for _, path := range []string{"/api/unknown", "/", "/api/products/1/extra"} {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest("GET", path, nil))

		testutil.AssertStatus(t, w, http.StatusNotFound)
		testutil.AssertError(t, w, "Route not found")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := newTestRouter(t)

	testCases := []struct {
		method    string
		path      string
		wantAllow string
	}{
		{"DELETE", "/api/sales-data", "GET"},
		{"PATCH", "/api/signin", "POST"},
		{"GET", "/api/products/3", "PUT, DELETE"},
		{"PUT", "/api/logout", "GET, POST"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))

			testutil.AssertStatus(t, w, http.StatusMethodNotAllowed)
			if got := w.Header().Get("Allow"); got != tc.wantAllow {
				t.Errorf("Allow = %q, want %q", got, tc.wantAllow)
			}
			testutil.AssertError(t, w, "Method "+tc.method+" Not Allowed")
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	mux, _ := newTestRouter(t)

	for _, rt := range Routes(Handlers{}) {
		if !rt.Protected {
			continue
		}
		path := strings.ReplaceAll(rt.Pattern, "{id}", "1")
		t.Run(rt.Method+" "+path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(rt.Method, path, nil))

			testutil.AssertStatus(t, w, http.StatusUnauthorized)
			testutil.AssertError(t, w, "Unauthorized")
		})
	}
}

func TestValidatePin_NoToken(t *testing.T) {
	mux, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/api/validate-pin", models.ValidatePinRequest{Pin: "1234"}, nil))

	testutil.AssertStatus(t, w, http.StatusUnauthorized)
	testutil.AssertError(t, w, "No token provided")
}

func TestSalesDataThroughRouter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig(), Services{Now: func() time.Time { return fixedNow }})

	today := fixedNow.Add(-2 * time.Hour)
	testutil.CreateTestOrder(t, db, 1, models.StatusDelivered, "100", today)
	testutil.CreateTestOrder(t, db, 2, models.StatusDelivered, "50", today)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/api/sales-data?timeFrame=today", nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	if want := `{"periodSales":150,"totalOrders":2,"totalCustomers":2}`; strings.TrimSpace(w.Body.String()) != want {
		t.Errorf("body = %s, want %s", w.Body.String(), want)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("response should carry a request id")
	}
}

func TestRateLimitedSignIn(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cfg.SignInRateLimit = 2
	mux := NewRouter(db, cfg, Services{})

	body := models.SignInRequest{Username: "nobody", Password: "wrong"}
	var codes []int
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest("POST", "/api/signin", body, nil))
		codes = append(codes, w.Code)
	}

	want := []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("status codes = %v, want %v", codes, want)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/total-stock", nil))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), `http_requests_total{method="GET",route="/api/total-stock",status="200"} 1`) {
		t.Errorf("metrics output missing request counter:\n%s", w.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("OPTIONS", "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("preflight should set Access-Control-Allow-Origin")
	}
}
