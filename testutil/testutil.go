// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/pos-backoffice/auth"
	"github.com/danielhkuo/pos-backoffice/cliparse"
	"github.com/danielhkuo/pos-backoffice/db"
	"github.com/danielhkuo/pos-backoffice/models"
)

// TestDBURL is the connection string for the test database
const TestDBURL = ":memory:"

// TestJWTSecret signs tokens in tests.
const TestJWTSecret = "test-jwt-secret-test-jwt-secret-0123"

// SetupTestDB opens a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), GetTestConfig())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(context.Background(), conn, db.DialectSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	cfg := cliparse.Defaults()
	cfg.DatabaseType = db.DialectSQLite
	cfg.DatabaseURL = TestDBURL
	cfg.JWTSecret = TestJWTSecret
	cfg.SignInRateLimit = 0
	return cfg
}

// CreateTestAdmin inserts the singleton admin with hashed password and pin
func CreateTestAdmin(t *testing.T, conn *sql.DB, username, password, pin string) {
	t.Helper()

	passwordHash, err := auth.HashSecret(password)
	if err != nil {
		t.Fatal(err)
	}
	pinHash, err := auth.HashSecret(pin)
	if err != nil {
		t.Fatal(err)
	}

	_, err = conn.Exec(`
		INSERT INTO admin (id, full_name, username, password, pin, role)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, models.AdminID, "Test Admin", username, passwordHash, pinHash, "admin")
	if err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}
}

// CreateTestProduct inserts a live product and returns its ID.
// price and rating are decimal strings, e.g. "9.99" and "4.5".
func CreateTestProduct(t *testing.T, conn *sql.DB, name, price string, stock int, rating string) int64 {
	t.Helper()

	orderID, err := auth.GenerateOrderID()
	if err != nil {
		t.Fatal(err)
	}

	var id int64
	err = conn.QueryRow(`
		INSERT INTO products (name, description, price, image_url, stock_quantity, category, order_id, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, name, "A test product", price, "/img/"+name+".png", stock, "test", orderID, rating, db.Timestamp(time.Now())).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}
	return id
}

// DeleteTestProduct soft-deletes a product
func DeleteTestProduct(t *testing.T, conn *sql.DB, id int64) {
	t.Helper()

	if _, err := conn.Exec(`UPDATE products SET deleted = TRUE WHERE id = $1`, id); err != nil {
		t.Fatalf("Failed to delete test product: %v", err)
	}
}

// CreateTestOrder inserts an order dated at orderDate's wall clock and returns its ID
func CreateTestOrder(t *testing.T, conn *sql.DB, userID int64, status, total string, orderDate time.Time) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO orders (user_id, order_date, status, total)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, userID, db.Timestamp(orderDate), status, total).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test order: %v", err)
	}
	return id
}

// AddTestOrderItem adds a line item to an order
func AddTestOrderItem(t *testing.T, conn *sql.DB, orderID, productID int64, name string, quantity int) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO ordered_products (order_id, product_id, name, quantity)
		VALUES ($1, $2, $3, $4)
	`, orderID, productID, name, quantity)
	if err != nil {
		t.Fatalf("Failed to create test order item: %v", err)
	}
}

// AddTestRating records a rating for a product at the given time
func AddTestRating(t *testing.T, conn *sql.DB, productID int64, rating string, createdAt time.Time) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO product_ratings (product_id, rating, created_at)
		VALUES ($1, $2, $3)
	`, productID, rating, db.Timestamp(createdAt))
	if err != nil {
		t.Fatalf("Failed to create test rating: %v", err)
	}
}

// AuthHeader issues a token for the admin and returns the request headers carrying it
func AuthHeader(t *testing.T, cfg cliparse.Config) map[string]string {
	t.Helper()

	token, _, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL).Issue(models.AdminID)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertError decodes an error body and checks its message
func AssertError(t *testing.T, w *httptest.ResponseRecorder, message string) {
	t.Helper()
	var resp models.ErrorResponse
	AssertJSON(t, w, &resp)
	if resp.Error != message {
		t.Errorf("Expected error %q, got %q", message, resp.Error)
	}
}
