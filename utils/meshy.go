package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/raushankrgupta/chicforgeeks-api/models"
)

// MeshyClient calls the Meshy retexture endpoint.
type MeshyClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewMeshyClient(baseURL, apiKey string) *MeshyClient {
	return &MeshyClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Retexture forwards req and returns Meshy's status code and body. A body
// that is not a JSON object comes back as {"raw": <text>}.
func (c *MeshyClient) Retexture(ctx context.Context, req models.RetextureRequest) (int, map[string]interface{}, error) {
	if c.apiKey == "" {
		return 0, nil, fmt.Errorf("meshy api key not configured")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return 0, nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/retexture", bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	body := map[string]interface{}{}
	if err := json.Unmarshal(raw, &body); err != nil {
		body = map[string]interface{}{"raw": string(raw)}
	}
	return resp.StatusCode, body, nil
}
