package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shinobios/mission-api/internal/errors"
)

const defaultTimeout = 10 * time.Second

// HTTPConfig holds the settings for the HTTP narrative client
type HTTPConfig struct {
	// BaseURL is the narrative service root, e.g. http://narrative:8080
	BaseURL string
	// Timeout bounds each generation request; defaults to 10s
	Timeout time.Duration
	// HTTPClient overrides the underlying client, mainly for tests
	HTTPClient *http.Client
}

// Validate ensures the config is usable
func (c *HTTPConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.BaseURL == "" {
		vb.RequiredField("BaseURL")
	}

	return vb.Build()
}

// HTTPClient calls a remote narrative service over JSON/HTTP
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates an HTTP narrative client
func NewHTTPClient(cfg *HTTPConfig) (*HTTPClient, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &HTTPClient{
		baseURL: cfg.BaseURL,
		client:  client,
	}, nil
}

type generateRequest struct {
	ActorID    string `json:"actor_id"`
	ActorName  string `json:"actor_name"`
	Region     string `json:"region"`
	Difficulty string `json:"difficulty"`
}

type generateResponse struct {
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Requirements map[string]interface{} `json:"requirements"`
}

// GenerateMission requests mission text from the remote service
func (c *HTTPClient) GenerateMission(ctx context.Context, input *GenerateMissionInput) (*GenerateMissionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	body, err := json.Marshal(generateRequest{
		ActorID:    input.ActorID,
		ActorName:  input.ActorName,
		Region:     input.Region,
		Difficulty: string(input.Difficulty),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode generation request")
	}

	url := fmt.Sprintf("%s/v1/missions/generate", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build generation request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "narrative service unreachable").
			WithMeta("url", url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Unavailable(fmt.Sprintf("narrative service returned %d", resp.StatusCode)).
			WithMeta("url", url)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "failed to decode generation response")
	}
	if out.Title == "" {
		return nil, errors.Internal("narrative service returned an empty title")
	}

	return &GenerateMissionOutput{
		Title:        out.Title,
		Description:  out.Description,
		Requirements: out.Requirements,
	}, nil
}
