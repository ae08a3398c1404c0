package inspection

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"inspecciones/webapp/internal/config"
	"inspecciones/webapp/internal/formstore"
	"inspecciones/webapp/internal/logger"
	jsonpkg "inspecciones/webapp/internal/pkg/json"
)

const maxUpstreamBody = 4 << 20

// API is the server-side system of record for inspections.
type API interface {
	Fetch(ctx context.Context, id int) (*Inspection, error)
	Submit(ctx context.Context, id int, state formstore.State) (map[string]any, error)
}

type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Status, e.Message)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(cfg *config.Config) *Client {
	transport := &http.Transport{
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}
	return &Client{
		httpClient: &http.Client{Transport: transport, Timeout: cfg.Timeout()},
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		token:      cfg.APIToken,
	}
}

func (c *Client) Fetch(ctx context.Context, id int) (*Inspection, error) {
	var out Inspection
	if err := c.do(ctx, http.MethodGet, c.inspectionURL(id), nil, &out); err != nil {
		return nil, err
	}
	if out.ID == 0 {
		out.ID = id
	}
	return &out, nil
}

func (c *Client) Submit(ctx context.Context, id int, state formstore.State) (map[string]any, error) {
	body, err := jsonpkg.Marshal(state)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := c.do(ctx, http.MethodPost, c.inspectionURL(id)+"/results", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) inspectionURL(id int) string {
	return c.baseURL + "/inspections/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Upstream(method, url, 0, time.Since(start))
		return err
	}
	defer resp.Body.Close()
	logger.Upstream(method, url, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: extractErrorMessage(data, resp.Status)}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return jsonpkg.Unmarshal(data, out)
}

// extractErrorMessage pulls a message out of {"error":"..."},
// {"error":{"message":"..."}} or {"message":"..."} bodies.
func extractErrorMessage(data []byte, fallback string) string {
	var body map[string]any
	if jsonpkg.Unmarshal(data, &body) == nil {
		if msg, ok := body["message"].(string); ok && msg != "" {
			return msg
		}
		switch e := body["error"].(type) {
		case string:
			if e != "" {
				return e
			}
		case map[string]any:
			if msg, ok := e["message"].(string); ok && msg != "" {
				return msg
			}
		}
	}
	if text := strings.TrimSpace(string(data)); text != "" && len(text) <= 200 {
		return text
	}
	return fallback
}
