package deployagent

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNoResult is returned when the agent stream ends without a JSON result line.
var ErrNoResult = errors.New("deploy agent finished without a result")

// Request is the payload accepted by the agent's /deploy endpoint.
type Request struct {
	Name  string `json:"name"`
	Image string `json:"image"`
	Port  int    `json:"port"`
}

// Result is the final JSON line of a deploy stream.
type Result struct {
	URL     string          `json:"url"`
	Status  string          `json:"status,omitempty"`
	Message string          `json:"message,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// APIError is a non-2xx answer from the agent.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("deploy agent: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

// WithTimeout bounds a whole deploy, stream included.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Minute},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Deploy posts req to the agent and reads its line-oriented stream. Non-empty plain lines
// go to onLog; the first line that parses as a JSON object is the result.
func (c *Client) Deploy(ctx context.Context, req Request, onLog func(line string)) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/deploy", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, readAPIError(res)
	}

	var result *Result
	sc := bufio.NewScanner(res.Body)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "{") {
			if result == nil {
				var r Result
				if err := json.Unmarshal([]byte(line), &r); err != nil {
					return nil, fmt.Errorf("deploy agent: malformed result: %w", err)
				}
				r.Raw = json.RawMessage(line)
				result = &r
			}
			continue
		}
		if onLog != nil {
			onLog(line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrNoResult
	}
	return result, nil
}

func readAPIError(res *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 64*1024))
	apiErr := &APIError{StatusCode: res.StatusCode, Message: "Deployment failed"}
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		apiErr.Message = body.Message
	}
	return apiErr
}
