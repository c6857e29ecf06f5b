package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProgressDecodesOptionalFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/progress" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"completed": 5, "percentage": 62.7}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	progress, err := client.Progress(context.Background())
	if err != nil {
		t.Fatalf("expected progress fetch to succeed, got %v", err)
	}

	if progress.Completed == nil || *progress.Completed != 5 {
		t.Fatalf("expected completed 5, got %+v", progress.Completed)
	}
	if progress.Percentage == nil || *progress.Percentage != 62.7 {
		t.Fatalf("expected percentage 62.7, got %+v", progress.Percentage)
	}
	if progress.Total != nil {
		t.Fatalf("expected absent total to stay nil, got %d", *progress.Total)
	}
}

func TestUserStatsToleratesEmptyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	stats, err := client.UserStats(context.Background())
	if err != nil {
		t.Fatalf("expected stats fetch to succeed, got %v", err)
	}

	if stats.Level != nil || stats.TotalPoints != nil || stats.CurrentStreak != nil {
		t.Fatalf("expected all absent fields to stay nil, got %+v", stats)
	}
}

func TestAdaptiveLearningPathDecodesConcepts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/adaptive-learning-path" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"concepts": [{"id": "variables", "name": "Variables"}, {"id": "loops", "name": "Loops"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	path, err := client.AdaptiveLearningPath(context.Background())
	if err != nil {
		t.Fatalf("expected learning path fetch to succeed, got %v", err)
	}

	if len(path.Concepts) != 2 {
		t.Fatalf("expected two concepts, got %d", len(path.Concepts))
	}
	if path.Concepts[0].ID != "variables" || path.Concepts[0].Name != "Variables" {
		t.Fatalf("unexpected first concept %+v", path.Concepts[0])
	}
}

func TestNonOKStatusSurfacesAsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Recommendations(context.Background()); err == nil {
		t.Fatalf("expected non-OK status to surface as error")
	}
}

func TestMarkConceptCompletePostsToConceptEndpoint(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if err := client.MarkConceptComplete(context.Background(), "loops"); err != nil {
		t.Fatalf("expected mark complete to succeed, got %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Fatalf("expected POST, got %s", gotMethod)
	}
	if gotPath != "/api/concept/loops/complete" {
		t.Fatalf("unexpected path %q", gotPath)
	}
}
