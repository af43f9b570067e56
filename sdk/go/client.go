package guardianssdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL points at a local gq serve.
const DefaultBaseURL = "http://127.0.0.1:4000/api/v1"

// Client is a minimal Guardians HTTP API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Record is the wire projection of any entity.
type Record map[string]any

// ID returns the record id, or "" when absent.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Event represents a chronicle entry.
type Event struct {
	ID         int64          `json:"id"`
	TS         string         `json:"ts"`
	Type       string         `json:"type"`
	EntityKind string         `json:"entityKind"`
	EntityID   string         `json:"entityId"`
	Payload    map[string]any `json:"payload"`
}

type ChronicleFilter struct {
	Type       string
	EntityKind string
	EntityID   string
	Limit      int
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: status=%d code=%s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// Action describes one transition endpoint under /{resource}/{id}/.
type Action struct {
	Method string
	Path   string
	// PathParam, when set, names the body field that becomes the last path segment.
	PathParam string
}

// Actions lists the transition endpoints per resource, keyed by action name.
var Actions = map[string]map[string]Action{
	"guardians": {"assign": {Method: http.MethodPost, Path: "assignments"}},
	"bosses":    {"status": {Method: http.MethodPost, Path: "status"}},
	"arsenals": {
		"add-weapon":    {Method: http.MethodPost, Path: "weapons"},
		"remove-weapon": {Method: http.MethodDelete, Path: "weapons", PathParam: "weaponId"},
	},
	"weapons":   {"run": {Method: http.MethodPost, Path: "run"}},
	"campaigns": {"run": {Method: http.MethodPost, Path: "run"}},
	"wounds":    {"heal": {Method: http.MethodPost, Path: "heal"}},
	"battles":   {"resolve": {Method: http.MethodPost, Path: "resolve"}},
	"oracles":   {"predict": {Method: http.MethodPost, Path: "predict"}},
	"relics":    {"url": {Method: http.MethodPost, Path: "url"}},
	"alliances": {
		"add-member":    {Method: http.MethodPost, Path: "members"},
		"remove-member": {Method: http.MethodDelete, Path: "members", PathParam: "guildId"},
	},
}

// ActionNames returns the sorted action names of a resource.
func ActionNames(resource string) []string {
	names := make([]string, 0, len(Actions[resource]))
	for name := range Actions[resource] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns every record of a resource (e.g. "wounds").
func (c *Client) List(ctx context.Context, resource string) ([]Record, error) {
	var resp []Record
	err := c.do(ctx, http.MethodGet, resource, nil, &resp)
	return resp, err
}

func (c *Client) Get(ctx context.Context, resource, id string) (Record, error) {
	var resp Record
	err := c.do(ctx, http.MethodGet, itemPath(resource, id), nil, &resp)
	return resp, err
}

func (c *Client) Create(ctx context.Context, resource string, fields map[string]any) (Record, error) {
	var resp Record
	err := c.do(ctx, http.MethodPost, resource, fields, &resp)
	return resp, err
}

// Patch shallow-merges fields onto a record.
func (c *Client) Patch(ctx context.Context, resource, id string, fields map[string]any) (Record, error) {
	var resp Record
	err := c.do(ctx, http.MethodPatch, itemPath(resource, id), fields, &resp)
	return resp, err
}

// Delete removes a record; unknown ids succeed.
func (c *Client) Delete(ctx context.Context, resource, id string) error {
	return c.do(ctx, http.MethodDelete, itemPath(resource, id), nil, nil)
}

// Act invokes a named transition. The response is nil for actions that
// answer 204.
func (c *Client) Act(ctx context.Context, resource, id, action string, body map[string]any) (Record, error) {
	a, ok := Actions[resource][action]
	if !ok {
		return nil, fmt.Errorf("unknown action %q for %s (have %s)", action, resource, strings.Join(ActionNames(resource), ", "))
	}
	endpoint := itemPath(resource, id) + "/" + a.Path
	if a.PathParam != "" {
		v, _ := body[a.PathParam].(string)
		if v == "" {
			return nil, fmt.Errorf("%s %s requires %s", resource, action, a.PathParam)
		}
		endpoint += "/" + url.PathEscape(v)
		body = nil
	}
	if body == nil && a.Method == http.MethodPost {
		body = map[string]any{}
	}
	var resp Record
	if err := c.do(ctx, a.Method, endpoint, body, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Chronicle returns recent mutation events, newest first.
func (c *Client) Chronicle(ctx context.Context, f ChronicleFilter) ([]Event, error) {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.EntityKind != "" {
		q.Set("entityKind", f.EntityKind)
	}
	if f.EntityID != "" {
		q.Set("entityId", f.EntityID)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	endpoint := "chronicle"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	var resp struct {
		Items []Event `json:"items"`
	}
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp.Items, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(b)}
		var envelope struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(b, &envelope) == nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}
	if out != nil && resp.StatusCode != http.StatusNoContent {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func itemPath(resource, id string) string {
	return resource + "/" + url.PathEscape(id)
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
