// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taidase2077-blip/voting-system-backend/cliparse"
	"github.com/taidase2077-blip/voting-system-backend/db"
	"github.com/taidase2077-blip/voting-system-backend/models"
	"github.com/taidase2077-blip/voting-system-backend/store"
)

// TestJWTSecret signs admin sessions in tests
const TestJWTSecret = "test-jwt-secret"

// SetupTestDB creates a fresh sqlite database file with the full schema.
// Each test gets its own file under t.TempDir().
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "voting.db")
	conn, err := db.Open(db.DialectSQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.DialectSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore wraps SetupTestDB in a store handle
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(SetupTestDB(t), db.DialectSQLite)
}

// SetupPostgresStore connects to the database named by TEST_DATABASE_URL and
// empties every table before and after the test. The test is skipped when
// the variable is unset.
func SetupPostgresStore(t *testing.T) *store.Store {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	conn, err := db.Open(db.DialectPostgres, url)
	if err != nil {
		t.Fatalf("Failed to open postgres: %v", err)
	}
	if err := db.CreateSchema(conn, db.DialectPostgres); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	truncate := func() {
		for _, table := range []string{"ballot", "topic", "household", "voting_control"} {
			if _, err := conn.Exec("DELETE FROM " + table); err != nil {
				t.Errorf("Failed to clear %s: %v", table, err)
			}
		}
	}
	truncate()
	t.Cleanup(func() {
		truncate()
		conn.Close()
	})

	return store.New(conn, db.DialectPostgres)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "test.db",
		DatabaseType: db.DialectSQLite,
		JWTSecret:    TestJWTSecret,
		VoteBaseURL:  "https://vote.example.org/",
		Timezone:     "Asia/Taipei",
		SessionTTL:   time.Hour,
		LogLevel:     "info",
	}
}

// SeedHouseholds replaces the registry with the given codes (no shares)
func SeedHouseholds(t *testing.T, s *store.Store, codes ...string) {
	t.Helper()

	err := s.InTx(context.Background(), func(q *store.Queries) error {
		if err := q.DeleteHouseholds(context.Background()); err != nil {
			return err
		}
		for _, code := range codes {
			if err := q.InsertHousehold(context.Background(), models.Household{Code: code}, time.Now()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to seed households: %v", err)
	}
}

// SeedTopics replaces the topics with active topics numbered from 1
func SeedTopics(t *testing.T, s *store.Store, texts ...string) {
	t.Helper()

	err := s.InTx(context.Background(), func(q *store.Queries) error {
		if err := q.DeleteTopics(context.Background()); err != nil {
			return err
		}
		for i, text := range texts {
			topic := models.Topic{ID: int64(i + 1), Text: text, Active: true}
			if err := q.InsertTopic(context.Background(), topic, time.Now()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to seed topics: %v", err)
	}
}

// OpenVoting opens the gate and sets (or clears) the deadline
func OpenVoting(t *testing.T, s *store.Store, deadline *time.Time) {
	t.Helper()

	ctx := context.Background()
	if err := s.SetVotingOpen(ctx, true, time.Now()); err != nil {
		t.Fatalf("Failed to open voting: %v", err)
	}
	if err := s.SetDeadline(ctx, deadline, time.Now()); err != nil {
		t.Fatalf("Failed to set deadline: %v", err)
	}
}

// SubmitTestBallot writes a ballot directly, bypassing the gate
func SubmitTestBallot(t *testing.T, s *store.Store, code string, topicID int64, decision string) {
	t.Helper()

	_, err := s.InsertBallot(context.Background(), models.Ballot{
		ID:            uuid.NewString(),
		HouseholdCode: code,
		TopicID:       topicID,
		Decision:      decision,
		CastAt:        time.Now(),
	})
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}
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

// MakeUploadRequest builds a multipart request carrying one file field
func MakeUploadRequest(method, path, filename string, content []byte, headers map[string]string) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		panic(fmt.Sprintf("create form file: %v", err))
	}
	fw.Write(content)
	mw.Close()

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
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
