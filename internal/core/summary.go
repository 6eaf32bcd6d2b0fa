package core

import (
	"context"
	"sort"
	"strings"

	"fieldops.service/internal/config"
	"fieldops.service/internal/core/model"
	"fieldops.service/internal/ports/store"
)

// SummaryService folds reconciled activity records into per-person totals
// over a date range.
type SummaryService struct {
	store      *store.Adapter
	tables     config.Tables
	activities *ActivityService
}

// NewSummaryService wires the aggregator to the store and the reconciler.
func NewSummaryService(ad *store.Adapter, tables config.Tables, activities *ActivityService) *SummaryService {
	return &SummaryService{store: ad, tables: tables, activities: activities}
}

type summaryGroup struct {
	name       string
	employeeNo string
	district   string
	group      string
	email      string
	total      int
	completed  int
	incomplete int
	ongoing    int
}

// Summarize groups activity records by identity (email, then employee
// number, then name, then "unknown") and counts visit outcomes. Identity
// attributes come from the contributing records; the directory fills a field
// only when no record in the group carried it. The email grouping key is not
// exposed in the output.
func (s *SummaryService) Summarize(ctx context.Context, filter ActivityFilter) ([]model.PersonSummary, error) {
	dir, err := LoadDirectory(ctx, s.store, s.tables.Users)
	if err != nil {
		return nil, err
	}

	records, err := s.activities.ReconcileWith(ctx, filter, dir)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*summaryGroup)
	order := make([]string, 0, len(records))

	for _, rec := range records {
		key := identityKey(rec.Email, rec.EmployeeNo, rec.Name)
		g, exists := groups[key]
		if !exists {
			g = &summaryGroup{}
			groups[key] = g
			order = append(order, key)
		}

		fillEmpty(&g.name, rec.Name)
		fillEmpty(&g.employeeNo, rec.EmployeeNo)
		fillEmpty(&g.district, rec.District)
		fillEmpty(&g.group, rec.Group)
		fillEmpty(&g.email, rec.Email)

		g.total++
		switch rec.Status {
		case model.StatusCompleted:
			g.completed++
		case model.StatusIncomplete:
			g.incomplete++
		case model.StatusOngoing:
			g.ongoing++
		}
	}

	out := make([]model.PersonSummary, 0, len(order))
	for _, key := range order {
		g := groups[key]

		// Directory backfill, only for fields absent on every record.
		if g.name == "" || g.district == "" || g.group == "" {
			if entry, ok := dir.Lookup(g.employeeNo, g.email, g.name); ok {
				fillEmpty(&g.name, entry.Name)
				fillEmpty(&g.employeeNo, entry.EmployeeNo)
				fillEmpty(&g.district, entry.District)
				fillEmpty(&g.group, entry.Group)
			}
		}

		out = append(out, model.PersonSummary{
			Name:       g.name,
			EmployeeNo: g.employeeNo,
			District:   g.district,
			Group:      g.group,
			Total:      g.total,
			Completed:  g.completed,
			Incomplete: g.incomplete,
			Ongoing:    g.ongoing,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		an, bn := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if an != bn {
			return an < bn
		}
		return out[i].EmployeeNo < out[j].EmployeeNo
	})

	return out, nil
}
