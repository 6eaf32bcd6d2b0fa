package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTokenCacheExpiry(t *testing.T) {
	cache := NewTokenCache()
	current := time.Unix(1750000000, 0)
	cache.now = func() time.Time { return current }

	if _, ok := cache.Get(); ok {
		t.Fatal("empty cache must miss")
	}

	cache.Put("tok-1", time.Hour)
	if token, ok := cache.Get(); !ok || token != "tok-1" {
		t.Fatalf("expected cached token, got %q ok=%v", token, ok)
	}

	// The safety margin expires the token a minute early.
	current = current.Add(time.Hour - 30*time.Second)
	if _, ok := cache.Get(); ok {
		t.Error("token inside the expiry margin must not be served")
	}
}

func TestCellsToStrings(t *testing.T) {
	got := cellsToStrings([]any{"text", float64(10234), 13.7563, true, nil})
	want := []string{"text", "10234", "13.7563", "true", ""}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cell %d = %q, want %q", i, got[i], want[i])
		}
	}
}

// graphHandler is a minimal workbook API double: token endpoint plus one
// table named Visits.
func graphHandler(t *testing.T) (http.Handler, *[][]string) {
	t.Helper()
	appended := &[][]string{}

	mux := http.NewServeMux()
	mux.HandleFunc("/tenant-1/oauth2/v2.0/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
			http.Error(w, "bad grant", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok-1", "expires_in": 3600})
	})
	mux.HandleFunc("/drives/drive-1/items/book-1/workbook/tables/Visits/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		switch {
		case strings.HasSuffix(r.URL.Path, "/headerRowRange"):
			_ = json.NewEncoder(w).Encode(map[string]any{
				"values": [][]any{{"Timestamp", "Email", "Location"}},
			})
		case strings.HasSuffix(r.URL.Path, "/rows/add"):
			var body struct {
				Values [][]any `json:"values"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Values) != 1 {
				http.Error(w, "bad body", http.StatusBadRequest)
				return
			}
			*appended = append(*appended, cellsToStrings(body.Values[0]))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte("{}"))
		case strings.HasSuffix(r.URL.Path, "/rows"):
			_ = json.NewEncoder(w).Encode(map[string]any{
				"value": []map[string]any{
					{"values": [][]any{{"2025-06-16T09:00:00Z", "a@x.com", "Store1"}}},
				},
			})
		default:
			http.NotFound(w, r)
		}
	})
	return mux, appended
}

func newTestGraphClient(t *testing.T) (*GraphClient, *[][]string) {
	t.Helper()
	handler, appended := graphHandler(t)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	creds := GraphCredentials{
		TenantID:     "tenant-1",
		ClientID:     "client-1",
		ClientSecret: "secret",
		LoginURL:     srv.URL,
	}
	return NewGraphClient(srv.URL, "drive-1", "book-1", creds, NewTokenCache()), appended
}

func TestGraphClientRoundTrip(t *testing.T) {
	client, appended := newTestGraphClient(t)
	ctx := context.Background()

	headers, err := client.ListHeaders(ctx, "Visits")
	if err != nil {
		t.Fatalf("headers: %v", err)
	}
	if len(headers) != 3 || headers[2] != "Location" {
		t.Errorf("unexpected headers: %v", headers)
	}

	rows, err := client.ListRows(ctx, "Visits")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 1 || rows[0][1] != "a@x.com" {
		t.Errorf("unexpected rows: %v", rows)
	}

	if err := client.AppendValues(ctx, "Visits", []string{"2025-06-17T09:00:00Z", "b@x.com", "Store2"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(*appended) != 1 || (*appended)[0][1] != "b@x.com" {
		t.Errorf("unexpected appended rows: %v", *appended)
	}
}

func TestGraphClientSurfacesUpstreamStatus(t *testing.T) {
	client, _ := newTestGraphClient(t)

	_, err := client.ListHeaders(context.Background(), "Missing")
	if err == nil {
		t.Fatal("expected error for unknown table")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("expected status in error, got %v", err)
	}
}
