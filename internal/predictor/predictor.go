// Package predictor is the client for the external mood-prediction service.
// The service is a black box: the client forwards text, returns the upstream
// JSON verbatim on success, and surfaces the upstream error detail on failure.
package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jurnalku/jurnalku/internal/models"
)

type upstreamError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// Client calls the prediction endpoint over HTTP.
type Client struct {
	client *resty.Client
	url    string
}

// New returns a Client for the given prediction endpoint URL.
func New(url string, timeout time.Duration) *Client {
	return &Client{
		client: resty.New().SetTimeout(timeout),
		url:    url,
	}
}

// Predict forwards text to the prediction service and returns its JSON
// response body unmodified. Any transport failure or non-2xx status is wrapped
// in models.ErrUpstream, with whatever error detail the upstream included.
func (c *Client) Predict(ctx context.Context, text string) (json.RawMessage, error) {
	response, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"text": text}).
		Post(c.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrUpstream, err)
	}

	if response.IsError() {
		return nil, fmt.Errorf("%w: %s", models.ErrUpstream, upstreamDetail(response.Body()))
	}

	return json.RawMessage(response.Body()), nil
}

// upstreamDetail pulls a human-readable message out of an upstream error body,
// falling back to the raw body when it is not the expected JSON shape.
func upstreamDetail(body []byte) string {
	var parsed upstreamError
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, detail := range []string{parsed.Detail, parsed.Message, parsed.Error} {
			if detail != "" {
				return detail
			}
		}
	}

	return string(body)
}
