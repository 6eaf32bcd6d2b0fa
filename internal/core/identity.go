package core

import (
	"context"
	"strings"

	"fieldops.service/internal/core/model"
	"fieldops.service/internal/ports/store"
)

// Directory is an in-memory lookup over the user directory table, keyed by
// normalized identity strings. It is rebuilt per request; the table is small
// and the workbook may be edited between requests.
type Directory struct {
	entries []model.UserDirectoryEntry
	index   map[string]int
}

// NewDirectory builds the lookup. Every entry is indexed under each of its
// identity strings (employee number, email, username, name); the first entry
// claiming a key keeps it.
func NewDirectory(entries []model.UserDirectoryEntry) *Directory {
	d := &Directory{
		entries: entries,
		index:   make(map[string]int),
	}
	for i, e := range entries {
		for _, key := range []string{e.EmployeeNo, e.Email, e.Username, e.Name} {
			k := normalizeKey(key)
			if k == "" {
				continue
			}
			if _, taken := d.index[k]; !taken {
				d.index[k] = i
			}
		}
	}
	return d
}

// Entries returns all directory rows in table order.
func (d *Directory) Entries() []model.UserDirectoryEntry {
	return d.entries
}

// Lookup tries the candidate identity strings in order and returns the first
// matching entry. Callers pass employee number first, then email/username,
// then plain name.
func (d *Directory) Lookup(candidates ...string) (model.UserDirectoryEntry, bool) {
	for _, c := range candidates {
		k := normalizeKey(c)
		if k == "" {
			continue
		}
		if i, ok := d.index[k]; ok {
			return d.entries[i], true
		}
	}
	return model.UserDirectoryEntry{}, false
}

// FillActivity populates identity attributes that are empty on the record
// from the directory. Event-level values are never overwritten: the row is
// primary, the directory fills gaps only.
func (d *Directory) FillActivity(rec *model.ActivityRecord) {
	entry, ok := d.Lookup(rec.EmployeeNo, rec.Email, rec.Name)
	if !ok {
		return
	}
	fillEmpty(&rec.Name, entry.Name)
	fillEmpty(&rec.Email, entry.Email)
	fillEmpty(&rec.EmployeeNo, entry.EmployeeNo)
	fillEmpty(&rec.District, entry.District)
	fillEmpty(&rec.Group, entry.Group)
}

// FillLeave is FillActivity for leave rows.
func (d *Directory) FillLeave(rec *model.LeaveRecord) {
	entry, ok := d.Lookup(rec.EmployeeNo, rec.Email, rec.Name)
	if !ok {
		return
	}
	fillEmpty(&rec.Name, entry.Name)
	fillEmpty(&rec.Email, entry.Email)
	fillEmpty(&rec.EmployeeNo, entry.EmployeeNo)
	fillEmpty(&rec.District, entry.District)
	fillEmpty(&rec.Group, entry.Group)
}

func fillEmpty(dst *string, value string) {
	if *dst == "" && value != "" {
		*dst = value
	}
}

func setNonEmpty(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// identityKey picks the grouping identity for a record: email first, then
// employee number, then name, then the literal "unknown" so every record
// lands in exactly one group even with missing identity data.
func identityKey(email, employeeNo, name string) string {
	for _, c := range []string{email, employeeNo, name} {
		if k := normalizeKey(c); k != "" {
			return k
		}
	}
	return "unknown"
}

// LoadDirectory reads the user table and builds the lookup.
func LoadDirectory(ctx context.Context, ad *store.Adapter, table string) (*Directory, error) {
	headers, err := ad.Headers(ctx, table)
	if err != nil {
		return nil, err
	}
	rows, err := ad.Rows(ctx, table)
	if err != nil {
		return nil, err
	}

	cols := resolveUserColumns(ctx, table, headers)
	entries := make([]model.UserDirectoryEntry, 0, len(rows))
	for _, row := range rows {
		entry := model.UserDirectoryEntry{
			Email:           store.Cell(row, cols.email),
			Username:        store.Cell(row, cols.username),
			Name:            store.Cell(row, cols.name),
			EmployeeNo:      store.Cell(row, cols.employeeNo),
			District:        store.Cell(row, cols.district),
			Group:           store.Cell(row, cols.group),
			SupervisorEmail: store.Cell(row, cols.supervisor),
			Province:        store.Cell(row, cols.province),
			Channel:         store.Cell(row, cols.channel),
			Role:            store.Cell(row, cols.role),
		}
		if entry.Email == "" && entry.Username == "" && entry.Name == "" && entry.EmployeeNo == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return NewDirectory(entries), nil
}
