package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TokenCache holds the app-only Graph access token for the process lifetime.
// It is injected into the client rather than kept as package state so each
// test run starts cold. A stale token simply fails one call and is refreshed
// on the next.
type TokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	now       func() time.Time
}

// NewTokenCache creates an empty token cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{now: time.Now}
}

// Get returns the cached token if it has not expired.
func (c *TokenCache) Get() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == "" || c.now().After(c.expiresAt) {
		return "", false
	}
	return c.token, true
}

// Put stores a token with its lifetime, keeping a safety margin so a token
// about to expire is never handed out.
func (c *TokenCache) Put(token string, expiresIn time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.expiresAt = c.now().Add(expiresIn - 60*time.Second)
}

// GraphCredentials are the app-only (client credentials) identity settings.
type GraphCredentials struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	// LoginURL overrides the Microsoft login host, for the local mock.
	LoginURL string
}

// GraphClient implements RowStore over the Microsoft Graph workbook tables
// API. Every operation is a single HTTP round-trip; there is no retry here.
// Consistency handling belongs to callers. A circuit breaker isolates the
// service when Graph is degraded so requests fail fast instead of piling up.
type GraphClient struct {
	client     *http.Client
	baseURL    string
	driveID    string
	workbookID string
	creds      GraphCredentials
	tokens     *TokenCache
	cb         *gobreaker.CircuitBreaker
}

// NewGraphClient creates a workbook client for one drive item.
func NewGraphClient(baseURL, driveID, workbookID string, creds GraphCredentials, tokens *TokenCache) *GraphClient {
	settings := gobreaker.Settings{
		Name:        "Graph-Workbook",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
	}

	return &GraphClient{
		client:     &http.Client{Timeout: 20 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		driveID:    driveID,
		workbookID: workbookID,
		creds:      creds,
		tokens:     tokens,
		cb:         gobreaker.NewCircuitBreaker(settings),
	}
}

// ListHeaders implements RowStore via the table's headerRowRange.
func (g *GraphClient) ListHeaders(ctx context.Context, table string) ([]string, error) {
	var payload struct {
		Values [][]any `json:"values"`
	}
	path := g.tablePath(table) + "/headerRowRange"
	if err := g.get(ctx, path, &payload); err != nil {
		return nil, err
	}
	if len(payload.Values) == 0 {
		return nil, fmt.Errorf("table %q has no header row", table)
	}
	return cellsToStrings(payload.Values[0]), nil
}

// ListRows implements RowStore. The Graph rows endpoint returns data rows
// only; the header row is not included.
func (g *GraphClient) ListRows(ctx context.Context, table string) ([][]string, error) {
	var payload struct {
		Value []struct {
			Values [][]any `json:"values"`
		} `json:"value"`
	}
	if err := g.get(ctx, g.tablePath(table)+"/rows", &payload); err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(payload.Value))
	for _, r := range payload.Value {
		if len(r.Values) == 0 {
			continue
		}
		rows = append(rows, cellsToStrings(r.Values[0]))
	}
	return rows, nil
}

// AppendValues implements RowStore by adding one row at the end of the table.
func (g *GraphClient) AppendValues(ctx context.Context, table string, values []string) error {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	body := map[string]any{"values": [][]any{cells}}
	return g.post(ctx, g.tablePath(table)+"/rows/add", body)
}

func (g *GraphClient) tablePath(table string) string {
	return fmt.Sprintf("%s/drives/%s/items/%s/workbook/tables/%s",
		g.baseURL, g.driveID, g.workbookID, url.PathEscape(table))
}

func (g *GraphClient) get(ctx context.Context, rawURL string, out any) error {
	return g.do(ctx, http.MethodGet, rawURL, nil, out)
}

func (g *GraphClient) post(ctx context.Context, rawURL string, body any) error {
	return g.do(ctx, http.MethodPost, rawURL, body, nil)
}

func (g *GraphClient) do(ctx context.Context, method, rawURL string, body, out any) error {
	tracer := otel.Tracer("graph-workbook")
	ctx, span := tracer.Start(ctx, "workbook_call",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", rawURL),
		),
	)
	defer span.End()

	_, err := g.cb.Execute(func() (any, error) {
		return nil, g.roundTrip(ctx, method, rawURL, body, out)
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (g *GraphClient) roundTrip(ctx context.Context, method, rawURL string, body, out any) error {
	token, err := g.accessToken(ctx)
	if err != nil {
		return err
	}

	var reader *strings.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal graph request body: %w", err)
		}
		reader = strings.NewReader(string(b))
	} else {
		reader = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("create graph request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("call graph api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("graph api returned status %d for %s", resp.StatusCode, rawURL)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode graph response: %w", err)
		}
	}
	return nil
}

// accessToken returns a cached token or fetches a fresh one with the client
// credentials flow.
func (g *GraphClient) accessToken(ctx context.Context) (string, error) {
	if token, ok := g.tokens.Get(); ok {
		return token, nil
	}

	loginURL := g.creds.LoginURL
	if loginURL == "" {
		loginURL = "https://login.microsoftonline.com"
	}
	tokenURL := fmt.Sprintf("%s/%s/oauth2/v2.0/token", strings.TrimRight(loginURL, "/"), g.creds.TenantID)

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", g.creds.ClientID)
	form.Set("client_secret", g.creds.ClientSecret)
	form.Set("scope", "https://graph.microsoft.com/.default")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch graph token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned empty token")
	}

	g.tokens.Put(payload.AccessToken, time.Duration(payload.ExpiresIn)*time.Second)
	return payload.AccessToken, nil
}

// cellsToStrings renders the loosely-typed workbook cells as strings. Numbers
// keep their shortest representation so employee numbers survive round-trips.
func cellsToStrings(cells []any) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		switch v := c.(type) {
		case string:
			out[i] = v
		case float64:
			out[i] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			out[i] = strconv.FormatBool(v)
		case nil:
			out[i] = ""
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}
