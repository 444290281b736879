// Package gateway submits finished-run scores to the external score endpoint
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/lixenwraith/stacker/network"
)

// Submission is the score commit payload
// The session identity travels as a request header, never in the body
type Submission struct {
	Score  int `json:"score"`
	Season int `json:"season"`
	Combos int `json:"combos"`
}

// Receipt is the endpoint's accepted response
type Receipt struct {
	Fields map[string]any
}

var ErrInvalidSubmission = errors.New("submission needs a positive score and season")

// RejectedError reports a 2xx response whose body carries an error field
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return "score rejected: " + e.Reason
}

// Gateway posts submissions to one endpoint
type Gateway struct {
	endpoint string
	client   *network.Client
	logger   *log.Logger
}

// New creates a gateway posting to endpoint through client
func New(endpoint string, client *network.Client, logger *log.Logger) *Gateway {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Gateway{
		endpoint: endpoint,
		client:   client,
		logger:   logger,
	}
}

// Endpoint returns the submission URL
func (g *Gateway) Endpoint() string {
	return g.endpoint
}

// Submit posts one submission and classifies the response
// Non-2xx yields *network.StatusError, an error field yields *RejectedError; the caller decides on retries
func (g *Gateway) Submit(ctx context.Context, sub Submission) (*Receipt, error) {
	if sub.Score <= 0 || sub.Season <= 0 {
		return nil, ErrInvalidSubmission
	}

	body, err := g.client.PostJSON(ctx, g.endpoint, sub)
	if err != nil {
		g.logger.Printf("gateway: submit score=%d season=%d failed: %v", sub.Score, sub.Season, err)
		return nil, fmt.Errorf("submit score: %w", err)
	}

	fields := map[string]any{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &fields); err != nil {
			// A 2xx without a JSON object is still an acceptance
			fields = map[string]any{}
		}
	}

	if reason, rejected := rejection(fields); rejected {
		g.logger.Printf("gateway: submit score=%d season=%d rejected: %s", sub.Score, sub.Season, reason)
		return nil, &RejectedError{Reason: reason}
	}

	g.logger.Printf("gateway: committed score=%d season=%d combos=%d", sub.Score, sub.Season, sub.Combos)
	return &Receipt{Fields: fields}, nil
}

// rejection inspects the error field; null, false and empty values are not rejections
func rejection(fields map[string]any) (string, bool) {
	v, ok := fields["error"]
	if !ok || v == nil {
		return "", false
	}
	switch e := v.(type) {
	case string:
		return e, e != ""
	case bool:
		return "error", e
	case map[string]any:
		if msg, ok := e["message"].(string); ok && msg != "" {
			return msg, true
		}
		return fmt.Sprint(e), true
	default:
		return fmt.Sprint(e), true
	}
}
