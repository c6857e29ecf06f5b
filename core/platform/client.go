// Package platform is a read-mostly client for the learning platform REST
// API. Every response field the voice assistant consumes is optional; callers
// are expected to substitute literal fallbacks for absent fields.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

// Concept is a single node of the course graph.
type Concept struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LearningPath is the AI-ordered list of concepts recommended next.
type LearningPath struct {
	Concepts []Concept `json:"concepts"`
}

// Progress summarizes course completion for the current user.
type Progress struct {
	Completed  *int     `json:"completed"`
	Total      *int     `json:"total"`
	Percentage *float64 `json:"percentage"`
}

// UserStats carries the gamification counters for the current user.
type UserStats struct {
	Level         *int `json:"level"`
	TotalPoints   *int `json:"total_points"`
	CurrentStreak *int `json:"current_streak"`
}

// Recommendations carries the AI learning-pattern analysis.
type Recommendations struct {
	LearningStyle *string `json:"learning_style"`
	OptimalPace   *string `json:"optimal_pace"`
	NextStudyTime *string `json:"next_optimal_study_time"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
					return operationName + " " + request.URL.Path
				}),
			),
		},
	}
}

func (c *Client) AdaptiveLearningPath(ctx context.Context) (*LearningPath, error) {
	path := &LearningPath{}
	if err := c.getJSON(ctx, "/api/adaptive-learning-path", path); err != nil {
		return nil, err
	}
	return path, nil
}

func (c *Client) Progress(ctx context.Context) (*Progress, error) {
	progress := &Progress{}
	if err := c.getJSON(ctx, "/api/progress", progress); err != nil {
		return nil, err
	}
	return progress, nil
}

func (c *Client) UserStats(ctx context.Context) (*UserStats, error) {
	stats := &UserStats{}
	if err := c.getJSON(ctx, "/api/user-stats", stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *Client) Recommendations(ctx context.Context) (*Recommendations, error) {
	recommendations := &Recommendations{}
	if err := c.getJSON(ctx, "/api/ai-recommendations", recommendations); err != nil {
		return nil, err
	}
	return recommendations, nil
}

func (c *Client) Concept(ctx context.Context, conceptID string) (*Concept, error) {
	concept := &Concept{}
	if err := c.getJSON(ctx, "/api/concept/"+conceptID, concept); err != nil {
		return nil, err
	}
	return concept, nil
}

func (c *Client) MarkConceptComplete(ctx context.Context, conceptID string) error {
	ctx, span := tracer.Start(ctx, "mark concept complete")
	defer span.End()

	endpoint := "/api/concept/" + conceptID + "/complete"
	span.SetAttributes(attribute.String("request.path", endpoint))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(nil))
	if err != nil {
		err = fmt.Errorf("error creating HTTP request: %w", err)
		span.RecordError(err)
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("error sending request: %w", err)
		span.RecordError(err)
		return err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("non-OK HTTP status: %s", resp.Status)
		span.RecordError(err)
		return err
	}

	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	ctx, span := tracer.Start(ctx, "fetch platform resource")
	defer span.End()

	span.SetAttributes(attribute.String("request.path", endpoint))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		err = fmt.Errorf("error creating HTTP request: %w", err)
		span.RecordError(err)
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("error sending request: %w", err)
		span.RecordError(err)
		return err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		if errorBody, readErr := io.ReadAll(resp.Body); readErr == nil {
			span.SetAttributes(attribute.String("response.error", string(errorBody)))
		}

		err := fmt.Errorf("non-OK HTTP status: %s", resp.Status)
		span.RecordError(err)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		err = fmt.Errorf("error unmarshalling JSON: %w", err)
		span.RecordError(err)
		return err
	}

	logger.DebugContext(ctx, "fetched platform resource", "endpoint", endpoint)
	return nil
}
