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
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/danielhkuo/budget-intake/auth"
	"github.com/danielhkuo/budget-intake/cliparse"
	"github.com/danielhkuo/budget-intake/db"
	"github.com/danielhkuo/budget-intake/models"
	"github.com/danielhkuo/budget-intake/validation"
)

// TestJWTSecret signs every token issued by the helpers
const TestJWTSecret = "test-jwt-secret"

// SetupTestDB connects to TEST_DATABASE_URL, applies the schema and empties
// every table. The test is skipped when no database is configured.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	_ = godotenv.Load()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	conn, err := sql.Open("postgres", url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		t.Fatalf("Failed to reach test database: %v", err)
	}
	if err := db.CreateSchema(ctx, conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	_, err = conn.ExecContext(ctx, `
		TRUNCATE notifications, overtime_requests, projects, clients_responses,
			budget_requests, alternatives_teams, alternatives, teams, questions,
			clients, users CASCADE
	`)
	if err != nil {
		t.Fatalf("Failed to clean database: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseURL:    os.Getenv("TEST_DATABASE_URL"),
		JWTSecret:      TestJWTSecret,
		TokenTTL:       time.Hour,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		CORSOrigins:    []string{"*"},
	}
}

// TestUser returns a user with a fresh id and the given role
func TestUser(role models.Role) models.User {
	return models.User{
		ID:    validation.NewID(),
		Name:  string(role) + " user",
		Email: string(role) + "@example.com",
		Role:  role,
	}
}

// IssueTestToken signs a token for u with TestJWTSecret
func IssueTestToken(t *testing.T, u models.User) string {
	t.Helper()

	token, _, err := auth.IssueToken(u, []byte(TestJWTSecret), time.Hour, time.Now())
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return token
}

// BearerHeader builds the Authorization header for token
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
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
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
