// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/taidase2077-blip/voting-system-backend/models"
	"github.com/taidase2077-blip/voting-system-backend/testutil"
)

func TestUploadHouseholds(t *testing.T) {
	env := newTestEnv(t)
	handler := NewRegistryHandler(env.ledger, env.metrics, testutil.GetTestConfig())

	tests := []struct {
		name           string
		filename       string
		content        string
		expectedStatus int
		expectedCount  int
	}{
		{
			name:           "csv with chinese headers",
			filename:       "households.csv",
			content:        "戶號,區分比例\nA-101,1.25%\nA-102,0.0125\n,\n",
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name:           "replaces previous registry",
			filename:       "households.csv",
			content:        "household\nB-1\n",
			expectedStatus: http.StatusOK,
			expectedCount:  1,
		},
		{
			name:           "missing code column",
			filename:       "households.csv",
			content:        "name\nAlice\n",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "duplicate code",
			filename:       "households.csv",
			content:        "code\nC-1\nC-1\n",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "non-finite share",
			filename:       "households.csv",
			content:        "code,share\nD-1,0.5\nD-2,Inf\n",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unsupported format",
			filename:       "households.pdf",
			content:        "%PDF",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeUploadRequest("PUT", "/admin/households", tt.filename, []byte(tt.content), nil)
			w := httptest.NewRecorder()

			handler.UploadHouseholds(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			var resp models.UploadResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Count != tt.expectedCount {
				t.Errorf("Expected count %d, got %d", tt.expectedCount, resp.Count)
			}
		})
	}

	t.Run("rejected uploads keep the registry", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ListHouseholds(w, testutil.MakeRequest("GET", "/admin/households", nil, nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		var households []models.Household
		testutil.AssertJSON(t, w, &households)
		if len(households) != 1 || households[0].Code != "B-1" {
			t.Errorf("Expected registry [B-1], got %+v", households)
		}
	})

	t.Run("no file", func(t *testing.T) {
		req := testutil.MakeRequest("PUT", "/admin/households", nil, nil)
		w := httptest.NewRecorder()
		handler.UploadHouseholds(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestUploadTopics(t *testing.T) {
	env := newTestEnv(t)
	env.openWithHouseholds(t, []string{"A"}, "Old topic")
	testutil.SubmitTestBallot(t, env.store, "A", 1, "agree")

	handler := NewRegistryHandler(env.ledger, env.metrics, testutil.GetTestConfig())

	req := testutil.MakeUploadRequest("PUT", "/admin/topics", "topics.csv",
		[]byte("議題\nRepaint the lobby\n\nInstall EV chargers\n"), nil)
	w := httptest.NewRecorder()
	handler.UploadTopics(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.UploadResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Count != 2 {
		t.Errorf("Expected 2 topics, got %d", resp.Count)
	}

	w = httptest.NewRecorder()
	handler.ListTopics(w, testutil.MakeRequest("GET", "/admin/topics", nil, nil))
	var topics []models.Topic
	testutil.AssertJSON(t, w, &topics)
	if len(topics) != 2 || topics[0].ID != 1 || topics[1].Text != "Install EV chargers" {
		t.Errorf("Unexpected topics %+v", topics)
	}

	results, err := env.ledger.Tally(req.Context(), 1)
	if err != nil {
		t.Fatalf("Tally() error = %v", err)
	}
	if results.VotedCount != 0 {
		t.Errorf("Expected reload to clear ballots, got %d", results.VotedCount)
	}

	t.Run("missing text column", func(t *testing.T) {
		req := testutil.MakeUploadRequest("PUT", "/admin/topics", "topics.csv", []byte("title\nX\n"), nil)
		w := httptest.NewRecorder()
		handler.UploadTopics(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestSetTopicActive(t *testing.T) {
	env := newTestEnv(t)
	env.openWithHouseholds(t, []string{"A"}, "Repaint the lobby")
	handler := NewRegistryHandler(env.ledger, env.metrics, testutil.GetTestConfig())
	voting := NewVotingHandler(env.ledger, env.metrics)

	inactive := false
	tests := []struct {
		name           string
		id             string
		body           interface{}
		expectedStatus int
	}{
		{"deactivate", "1", models.SetTopicActiveRequest{Active: &inactive}, http.StatusNoContent},
		{"unknown topic", "7", models.SetTopicActiveRequest{Active: &inactive}, http.StatusNotFound},
		{"missing active", "1", map[string]string{}, http.StatusBadRequest},
		{"bad id", "one", models.SetTopicActiveRequest{Active: &inactive}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("PATCH", "/admin/topics/"+tt.id, tt.body, nil)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()
			handler.SetTopicActive(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	t.Run("inactive topic refuses ballots", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/vote?vote=A", models.CastVoteRequest{TopicID: 1, Decision: "agree"}, nil)
		w := httptest.NewRecorder()
		voting.CastVote(w, req)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestQRCodes(t *testing.T) {
	env := newTestEnv(t)
	handler := NewRegistryHandler(env.ledger, env.metrics, testutil.GetTestConfig())

	t.Run("empty registry", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.QRCodes(w, testutil.MakeRequest("GET", "/admin/households/qrcodes.zip", nil, nil))
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("one png and link per household", func(t *testing.T) {
		testutil.SeedHouseholds(t, env.store, "A-101", "A-102")

		w := httptest.NewRecorder()
		handler.QRCodes(w, testutil.MakeRequest("GET", "/admin/households/qrcodes.zip", nil, nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		if ct := w.Header().Get("Content-Type"); ct != "application/zip" {
			t.Errorf("Expected application/zip, got %q", ct)
		}

		body := w.Body.Bytes()
		zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
		if err != nil {
			t.Fatalf("Failed to read zip: %v", err)
		}
		names := map[string]bool{}
		for _, f := range zr.File {
			names[f.Name] = true
		}
		for _, want := range []string{"A-101.png", "A-101.txt", "A-102.png", "A-102.txt"} {
			if !names[want] {
				t.Errorf("Expected %s in bundle", want)
			}
		}
	})
}
