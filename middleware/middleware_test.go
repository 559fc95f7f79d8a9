// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/taidase2077-blip/voting-system-backend/auth"
	"github.com/taidase2077-blip/voting-system-backend/ledger"
	"github.com/taidase2077-blip/voting-system-backend/metrics"
	"github.com/taidase2077-blip/voting-system-backend/models"
)

// captureLogs redirects the default slog logger for the duration of the test
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestWithLogging_RecordsBallotOutcome(t *testing.T) {
	testCases := []struct {
		name       string
		household  string
		statusCode int
		status     string
	}{
		{"first ballot", "A-101", http.StatusCreated, "status=201"},
		{"repeat ballot", "A-101", http.StatusOK, "status=200"},
		{"unknown household", "Z-999", http.StatusNotFound, "status=404"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logs := captureLogs(t)

			handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
				JSONResponse(w, tc.statusCode, models.CastVoteResponse{Status: models.OutcomeAccepted})
			})

			req := httptest.NewRequest("POST", "/vote?vote="+tc.household, nil)
			req.Header.Set("X-Forwarded-For", "198.51.100.7")
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			out := logs.String()
			for _, want := range []string{"path=/vote", "remote=198.51.100.7", tc.status} {
				if !strings.Contains(out, want) {
					t.Errorf("Expected log to contain %q, got:\n%s", want, out)
				}
			}
			// the household code travels in the query and stays out of the logs
			if strings.Contains(out, tc.household) {
				t.Errorf("Expected household code to be kept out of logs, got:\n%s", out)
			}
		})
	}
}

func TestWithLogging_DefaultsToOK(t *testing.T) {
	logs := captureLogs(t)

	handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/admin/voting", nil))

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
	if !strings.Contains(logs.String(), "status=200") {
		t.Errorf("Expected implicit 200 to be logged, got:\n%s", logs.String())
	}
}

func TestJSONResponse(t *testing.T) {
	deadline := time.Date(2025, 6, 1, 21, 0, 0, 0, time.UTC)

	testCases := []struct {
		name       string
		statusCode int
		data       interface{}
		expected   string
	}{
		{
			name:       "accepted ballot",
			statusCode: http.StatusCreated,
			data: models.CastVoteResponse{
				Status:  models.OutcomeAccepted,
				Message: "ballot recorded",
				Ballot:  models.Ballot{ID: "b1", HouseholdCode: "A-101", TopicID: 2, Decision: models.DecisionAgree, CastAt: deadline},
			},
			expected: `{"status":"accepted","message":"ballot recorded","ballot":{"id":"b1","household_code":"A-101","topic_id":2,"decision":"agree","cast_at":"2025-06-01T21:00:00Z"}}`,
		},
		{
			name:       "open gate with deadline",
			statusCode: http.StatusOK,
			data:       models.VotingControl{IsOpen: true, Deadline: &deadline},
			expected:   `{"is_open":true,"deadline":"2025-06-01T21:00:00Z"}`,
		},
		{
			name:       "closed gate omits deadline",
			statusCode: http.StatusOK,
			data:       models.VotingControl{},
			expected:   `{"is_open":false}`,
		},
		{
			name:       "registry upload count",
			statusCode: http.StatusOK,
			data:       models.UploadResponse{Count: 120},
			expected:   `{"count":120}`,
		},
		{
			name:       "household without share",
			statusCode: http.StatusOK,
			data:       []models.Household{{Code: "A-101"}},
			expected:   `[{"code":"A-101"}]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			JSONResponse(w, tc.statusCode, tc.data)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected Content-Type 'application/json', got '%s'", ct)
			}
			if body := strings.TrimSpace(w.Body.String()); body != tc.expected {
				t.Errorf("Expected body '%s', got '%s'", tc.expected, body)
			}
		})
	}
}

// TestErrorResponse covers the error bodies the voting and admin handlers
// send, keyed by the ledger error each one reports.
func TestErrorResponse(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		message    string
		expected   string
	}{
		{
			name:       "unregistered household",
			statusCode: http.StatusNotFound,
			message:    ledger.ErrInvalidHousehold.Error(),
			expected:   `{"error":"Not Found","message":"household code is not registered"}`,
		},
		{
			name:       "inactive topic",
			statusCode: http.StatusNotFound,
			message:    ledger.ErrInvalidTopic.Error(),
			expected:   `{"error":"Not Found","message":"topic does not exist or is not active"}`,
		},
		{
			name:       "gate closed",
			statusCode: http.StatusConflict,
			message:    ledger.ErrVotingClosed.Error(),
			expected:   `{"error":"Conflict","message":"voting is closed"}`,
		},
		{
			name:       "deadline passed",
			statusCode: http.StatusConflict,
			message:    ledger.ErrDeadlineExpired.Error(),
			expected:   `{"error":"Conflict","message":"voting deadline has passed"}`,
		},
		{
			name:       "bad decision",
			statusCode: http.StatusBadRequest,
			message:    ledger.ErrInvalidDecision.Error(),
			expected:   `{"error":"Bad Request","message":"decision must be agree or disagree"}`,
		},
		{
			name:       "wrong password",
			statusCode: http.StatusUnauthorized,
			message:    "invalid credentials",
			expected:   `{"error":"Unauthorized","message":"invalid credentials"}`,
		},
		{
			name:       "database busy",
			statusCode: http.StatusServiceUnavailable,
			message:    "storage unavailable, please retry",
			expected:   `{"error":"Service Unavailable","message":"storage unavailable, please retry"}`,
		},
		{
			name:       "no message",
			statusCode: http.StatusInternalServerError,
			expected:   `{"error":"Internal Server Error"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			ErrorResponse(w, tc.statusCode, tc.message)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if body := strings.TrimSpace(w.Body.String()); body != tc.expected {
				t.Errorf("Expected body '%s', got '%s'", tc.expected, body)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(strings.NewReader(w.Body.String())).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp.Message != tc.message {
				t.Errorf("Expected message '%s', got '%s'", tc.message, resp.Message)
			}
		})
	}
}

func TestParseJSONBody(t *testing.T) {
	t.Run("login", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/admin/login",
			strings.NewReader(`{"username":"treasurer","password":"s3cret"}`))

		var parsed models.LoginRequest
		if err := ParseJSONBody(req, &parsed); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if parsed.Username != "treasurer" || parsed.Password != "s3cret" {
			t.Errorf("Unexpected login %+v", parsed)
		}
	})

	t.Run("absolute deadline", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/admin/voting/deadline",
			strings.NewReader(`{"deadline":"2025-06-01T21:00:00+08:00"}`))

		var parsed models.SetDeadlineRequest
		if err := ParseJSONBody(req, &parsed); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		want := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)
		if parsed.Deadline == nil || !parsed.Deadline.Equal(want) {
			t.Errorf("Expected deadline %v, got %v", want, parsed.Deadline)
		}
		if parsed.MinutesFromNow != 0 {
			t.Errorf("Expected no relative minutes, got %d", parsed.MinutesFromNow)
		}
	})

	t.Run("relative deadline", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/admin/voting/deadline",
			strings.NewReader(`{"minutes_from_now":30}`))

		var parsed models.SetDeadlineRequest
		if err := ParseJSONBody(req, &parsed); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if parsed.Deadline != nil || parsed.MinutesFromNow != 30 {
			t.Errorf("Unexpected deadline request %+v", parsed)
		}
	})

	t.Run("missing open flag stays nil", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/admin/voting", strings.NewReader(`{}`))

		var parsed models.SetVotingOpenRequest
		if err := ParseJSONBody(req, &parsed); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if parsed.Open != nil {
			t.Errorf("Expected open to be unset, got %v", *parsed.Open)
		}
	})

	t.Run("malformed deadline", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/admin/voting/deadline",
			strings.NewReader(`{"deadline":"tonight at nine"}`))

		var parsed models.SetDeadlineRequest
		if err := ParseJSONBody(req, &parsed); err == nil {
			t.Error("Expected error for a non RFC 3339 deadline")
		}
	})

	t.Run("topic id as string", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/vote?vote=A-101",
			strings.NewReader(`{"topic_id":"2","decision":"agree"}`))

		var parsed models.CastVoteRequest
		if err := ParseJSONBody(req, &parsed); err == nil {
			t.Error("Expected error for a string topic_id")
		}
	})

	t.Run("empty ballot body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/vote?vote=A-101", strings.NewReader(""))

		var parsed models.CastVoteRequest
		if err := ParseJSONBody(req, &parsed); err == nil {
			t.Error("Expected error for empty body")
		}
	})
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		JSONResponse(w, http.StatusOK, models.VotingControl{IsOpen: true})
	})
	handler := CORS(next)

	t.Run("admin preflight for deadline removal", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/admin/voting/deadline", nil)
		req.Header.Set("Origin", "https://admin.example.org")
		req.Header.Set("Access-Control-Request-Method", "DELETE")
		req.Header.Set("Access-Control-Request-Headers", "authorization")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
		if w.Body.Len() != 0 {
			t.Errorf("Expected preflight not to reach the handler, got '%s'", w.Body.String())
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://admin.example.org" {
			t.Errorf("Expected admin origin to be echoed, got '%s'", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
			t.Errorf("Expected credentials to be allowed, got '%s'", got)
		}
		if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "DELETE") {
			t.Error("Expected DELETE in allowed methods")
		}
		if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Authorization") {
			t.Error("Expected Authorization in allowed headers")
		}
	})

	t.Run("household ballot from the voting page", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/vote?vote=A-101", nil)
		req.Header.Set("Origin", "https://vote.example.org")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"is_open":true`) {
			t.Errorf("Expected handler response, got %d '%s'", w.Code, w.Body.String())
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://vote.example.org" {
			t.Errorf("Expected voting origin to be echoed, got '%s'", got)
		}
	})

	t.Run("scanned link opened directly", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/vote?vote=A-101", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Expected wildcard origin, got '%s'", got)
		}
	})
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		expectedIP string
	}{
		{"household phone behind proxy", "203.0.113.9", "", "10.0.0.2:443", "203.0.113.9"},
		{"proxy chain keeps the first hop", "203.0.113.9, 10.0.0.2", "", "10.0.0.3:443", "203.0.113.9"},
		{"forwarded wins over real ip", "203.0.113.9", "198.51.100.1", "10.0.0.3:443", "203.0.113.9"},
		{"real ip from nginx", "", "198.51.100.1", "10.0.0.3:443", "198.51.100.1"},
		{"direct connection", "", "", "192.168.1.50:54321", "192.168.1.50"},
		{"direct ipv6", "", "", "[2001:db8::7]:3318", "[2001:db8::7]"},
		{"no port", "", "", "192.168.1.50", "192.168.1.50"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/vote?vote=A-101", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if tc.realIP != "" {
				req.Header.Set("X-Real-IP", tc.realIP)
			}

			if got := GetClientIP(req); got != tc.expectedIP {
				t.Errorf("Expected IP '%s', got '%s'", tc.expectedIP, got)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	sessions := auth.NewSessions("secret", time.Hour)
	token, _, err := sessions.Issue("treasurer")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	other, _, err := auth.NewSessions("other-secret", time.Hour).Issue("treasurer")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	var seen string
	handler := RequireAdmin(sessions, func(w http.ResponseWriter, r *http.Request) {
		seen, _ = AdminFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	testCases := []struct {
		name       string
		header     string
		statusCode int
		message    string
	}{
		{"valid token", "Bearer " + token, http.StatusNoContent, ""},
		{"missing header", "", http.StatusUnauthorized, "admin login required"},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized, "admin login required"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "admin login required"},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized, "session is invalid or expired"},
		{"signed with another secret", "Bearer " + other, http.StatusUnauthorized, "session is invalid or expired"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest("GET", "/admin/results", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if tc.statusCode == http.StatusNoContent {
				if seen != "treasurer" {
					t.Errorf("Expected admin 'treasurer' in context, got '%s'", seen)
				}
				return
			}
			if seen != "" {
				t.Error("Expected handler not to run")
			}
			var resp models.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode: %v", err)
			}
			if resp.Message != tc.message {
				t.Errorf("Expected message '%s', got '%s'", tc.message, resp.Message)
			}
		})
	}
}

func TestInstrument(t *testing.T) {
	m := metrics.New()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/results/{id}", Instrument(m, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	for _, id := range []string{"1", "2"} {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest("GET", "/admin/results/"+id, nil))
		if w.Code != http.StatusNotFound {
			t.Fatalf("Expected status 404, got %d", w.Code)
		}
	}

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	want := `voting_http_requests_total{method="GET",route="/admin/results/{id}",status="404"} 2`
	if !strings.Contains(w.Body.String(), want) {
		t.Errorf("Expected metrics to contain %s", want)
	}
}
