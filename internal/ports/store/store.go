// Package store is the tabular store port: the workbook tables that act as
// the system's only persistence. Backends implement RowStore; everything
// above speaks named columns through the Adapter.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// RowStore is the raw workbook contract: ordered headers, positional data
// rows (header row excluded), and append of a positional value array.
type RowStore interface {
	ListHeaders(ctx context.Context, table string) ([]string, error)
	ListRows(ctx context.Context, table string) ([][]string, error)
	AppendValues(ctx context.Context, table string, values []string) error
}

// HeaderCache is a process-scoped TTL cache for table header shapes. It is
// injected into the Adapter rather than hidden in package state so tests get
// fresh cache instances. Header shapes change rarely; the TTL bounds how
// stale a shape can get after someone edits the workbook columns.
type HeaderCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]headerEntry
	now     func() time.Time
}

type headerEntry struct {
	headers   []string
	fetchedAt time.Time
}

// NewHeaderCache creates a header cache with the given entry lifetime.
func NewHeaderCache(ttl time.Duration) *HeaderCache {
	return &HeaderCache{
		ttl:     ttl,
		entries: make(map[string]headerEntry),
		now:     time.Now,
	}
}

func (c *HeaderCache) get(table string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[table]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.fetchedAt) > c.ttl {
		delete(c.entries, table)
		return nil, false
	}
	return entry.headers, true
}

func (c *HeaderCache) put(table string, headers []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[table] = headerEntry{headers: headers, fetchedAt: c.now()}
}

// AppendResult reports which named fields of an append were mapped to a
// column and which were dropped because no header matched. Callers that care
// about schema drift can log or reject on Dropped instead of losing data
// silently.
type AppendResult struct {
	Written []string
	Dropped []string
}

// Adapter translates named-column row maps to and from the positional arrays
// the workbook exposes, caching header shapes per table.
type Adapter struct {
	store RowStore
	cache *HeaderCache
}

// NewAdapter wires a backend and a header cache together.
func NewAdapter(s RowStore, cache *HeaderCache) *Adapter {
	return &Adapter{store: s, cache: cache}
}

// Headers returns the ordered column names of a table, served from the cache
// when fresh.
func (a *Adapter) Headers(ctx context.Context, table string) ([]string, error) {
	if headers, ok := a.cache.get(table); ok {
		return headers, nil
	}

	headers, err := a.store.ListHeaders(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("list headers for %q: %w", table, err)
	}

	a.cache.put(table, headers)
	return headers, nil
}

// Rows returns all data rows of a table as positional value arrays.
func (a *Adapter) Rows(ctx context.Context, table string) ([][]string, error) {
	rows, err := a.store.ListRows(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("list rows for %q: %w", table, err)
	}
	return rows, nil
}

// AppendRow maps named values onto the table's column order and appends the
// resulting positional row. Column matching is case-insensitive; columns with
// no value are written as empty string. Values whose name matches no column
// are reported in AppendResult.Dropped rather than silently discarded.
func (a *Adapter) AppendRow(ctx context.Context, table string, values map[string]string) (AppendResult, error) {
	headers, err := a.Headers(ctx, table)
	if err != nil {
		return AppendResult{}, err
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[normalizeColumn(h)] = i
	}

	row := make([]string, len(headers))
	result := AppendResult{}
	for name, value := range values {
		i, ok := index[normalizeColumn(name)]
		if !ok {
			result.Dropped = append(result.Dropped, name)
			continue
		}
		row[i] = value
		result.Written = append(result.Written, name)
	}

	if len(result.Dropped) > 0 {
		log.Ctx(ctx).Warn().
			Str("table", table).
			Strs("fields", result.Dropped).
			Msg("Append dropped fields with no matching column")
	}

	if err := a.store.AppendValues(ctx, table, row); err != nil {
		return result, fmt.Errorf("append row to %q: %w", table, err)
	}
	return result, nil
}

func normalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Column declares one recognized header name together with the positional
// index used when the header is absent. Legacy tables were created without
// headers for the ancillary columns; the fallback keeps them readable while
// making the magic number visible in the schema declaration.
type Column struct {
	Header   string
	Fallback int
}

// Resolve returns the index of the column in the given header row. A missing
// header falls back to the declared position and is logged as a configuration
// warning, not an error.
func (c Column) Resolve(ctx context.Context, table string, headers []string) int {
	want := normalizeColumn(c.Header)
	for i, h := range headers {
		if normalizeColumn(h) == want {
			return i
		}
	}
	log.Ctx(ctx).Warn().
		Str("table", table).
		Str("header", c.Header).
		Int("fallback", c.Fallback).
		Msg("Header not found, using positional fallback")
	return c.Fallback
}

// Cell returns the trimmed value at index i, or empty string when the row is
// shorter than the header shape.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
