package core

import (
	"context"
	"sort"
	"strings"

	"fieldops.service/internal/config"
	"fieldops.service/internal/core/model"
	"fieldops.service/internal/ports/store"
	"fieldops.service/pkg/geo"
)

// ActivityService reconciles the independently appended check-in and checkout
// tables into per-visit activity records. Records are recomputed on every
// call; nothing is cached beyond the adapter's header shapes.
type ActivityService struct {
	store  *store.Adapter
	tables config.Tables
}

// NewActivityService wires the reconciler to the tabular store.
func NewActivityService(ad *store.Adapter, tables config.Tables) *ActivityService {
	return &ActivityService{store: ad, tables: tables}
}

// ActivityFilter narrows the reconciled set. Dates compare inclusively as
// calendar-date strings; Query matches name or email, District matches
// district, both case-insensitive substrings.
type ActivityFilter struct {
	StartDate string
	EndDate   string
	Query     string
	District  string
}

// Reconcile loads the directory and returns the filtered, sorted activity
// records.
func (s *ActivityService) Reconcile(ctx context.Context, filter ActivityFilter) ([]model.ActivityRecord, error) {
	dir, err := LoadDirectory(ctx, s.store, s.tables.Users)
	if err != nil {
		return nil, err
	}
	return s.ReconcileWith(ctx, filter, dir)
}

// ReconcileWith is Reconcile with a caller-provided directory, for callers
// that already loaded one for the same request.
//
// Any store failure aborts the whole reconciliation: a partial scan of either
// table would misclassify every visit whose counterpart row was not read.
func (s *ActivityService) ReconcileWith(ctx context.Context, filter ActivityFilter, dir *Directory) ([]model.ActivityRecord, error) {
	checkinHeaders, err := s.store.Headers(ctx, s.tables.Checkins)
	if err != nil {
		return nil, err
	}
	checkinRows, err := s.store.Rows(ctx, s.tables.Checkins)
	if err != nil {
		return nil, err
	}
	checkoutHeaders, err := s.store.Headers(ctx, s.tables.Checkouts)
	if err != nil {
		return nil, err
	}
	checkoutRows, err := s.store.Rows(ctx, s.tables.Checkouts)
	if err != nil {
		return nil, err
	}

	inCols := resolveCheckinColumns(ctx, s.tables.Checkins, checkinHeaders)
	outCols := resolveCheckoutColumns(ctx, s.tables.Checkouts, checkoutHeaders)

	// The two tables share no key; the only join available is the tuple
	// (lowercased email, UTC date, lowercased location). A wording mismatch
	// between the two hand-typed location names leaves two unmerged records,
	// one ongoing and one incomplete. That is deliberate: the mismatch must
	// stay visible in the report, not be fuzzily repaired.
	drafts := make(map[string]*model.ActivityRecord)
	order := make([]string, 0, len(checkinRows)+len(checkoutRows))

	for _, row := range checkinRows {
		email := store.Cell(row, inCols.email)
		date, clock := splitTimestamp(store.Cell(row, inCols.timestamp))
		location := store.Cell(row, inCols.location)
		key := joinKey(email, date, location)

		if _, exists := drafts[key]; !exists {
			order = append(order, key)
		}
		drafts[key] = &model.ActivityRecord{
			Date:        date,
			CheckinTime: clock,
			Location:    location,
			Detail:      store.Cell(row, inCols.detail),
			Status:      model.StatusOngoing,
			Name:        store.Cell(row, inCols.name),
			Email:       email,
			EmployeeNo:  store.Cell(row, inCols.employeeNo),
			District:    store.Cell(row, inCols.district),
			Group:       store.Cell(row, inCols.group),
			ImageIn:     store.Cell(row, inCols.image),
			CheckinGPS:  store.Cell(row, inCols.gps),
			Address:     store.Cell(row, inCols.address),
		}
	}

	for _, row := range checkoutRows {
		email := store.Cell(row, outCols.email)
		date, clock := splitTimestamp(store.Cell(row, outCols.timestamp))
		location := store.Cell(row, outCols.location)
		key := joinKey(email, date, location)

		draft, exists := drafts[key]
		if !exists {
			// Orphan checkout: no check-in was ever recorded under this
			// key. It surfaces as an incomplete record rather than being
			// dropped, so the data-quality problem is visible.
			rec := &model.ActivityRecord{
				Date:         date,
				CheckoutTime: clock,
				Location:     location,
				Detail:       store.Cell(row, outCols.remark),
				Status:       model.StatusIncomplete,
				Name:         store.Cell(row, outCols.name),
				Email:        email,
				EmployeeNo:   store.Cell(row, outCols.employeeNo),
				District:     store.Cell(row, outCols.district),
				Group:        store.Cell(row, outCols.group),
				ImageOut:     store.Cell(row, outCols.image),
				CheckoutGPS:  store.Cell(row, outCols.gps),
				Address:      store.Cell(row, outCols.address),
			}
			drafts[key] = rec
			order = append(order, key)
			continue
		}

		draft.CheckoutTime = clock
		draft.ImageOut = store.Cell(row, outCols.image)
		draft.CheckoutGPS = store.Cell(row, outCols.gps)
		// Completed requires a prior check-in. A draft created by an earlier
		// orphan checkout (double-submit) stays incomplete.
		if draft.Status == model.StatusOngoing {
			draft.Status = model.StatusCompleted
		}
		fillEmpty(&draft.Name, store.Cell(row, outCols.name))
		fillEmpty(&draft.EmployeeNo, store.Cell(row, outCols.employeeNo))
		fillEmpty(&draft.District, store.Cell(row, outCols.district))
		fillEmpty(&draft.Group, store.Cell(row, outCols.group))
		fillEmpty(&draft.Detail, store.Cell(row, outCols.remark))
		fillEmpty(&draft.Address, store.Cell(row, outCols.address))
	}

	records := make([]model.ActivityRecord, 0, len(order))
	for _, key := range order {
		rec := *drafts[key]
		attachCoordinates(&rec)
		if dir != nil {
			dir.FillActivity(&rec)
		}
		if !matchActivityFilter(rec, filter) {
			continue
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
		if a.Email != b.Email {
			return a.Email < b.Email
		}
		return strings.ToLower(a.Location) < strings.ToLower(b.Location)
	})

	return records, nil
}

func joinKey(email, date, location string) string {
	return strings.ToLower(email) + "|" + date + "|" + strings.ToLower(location)
}

// attachCoordinates parses the raw GPS strings and, when both fixes are
// present, attaches the rounded haversine distance.
func attachCoordinates(rec *model.ActivityRecord) {
	in, okIn := geo.ParseCoordinate(rec.CheckinGPS)
	if okIn {
		rec.CheckinLat, rec.CheckinLon = &in.Lat, &in.Lon
	}
	out, okOut := geo.ParseCoordinate(rec.CheckoutGPS)
	if okOut {
		rec.CheckoutLat, rec.CheckoutLon = &out.Lat, &out.Lon
	}
	if okIn && okOut {
		d := geo.RoundKm(geo.DistanceKm(in, out))
		rec.DistanceKm = &d
	}
}

func matchActivityFilter(rec model.ActivityRecord, f ActivityFilter) bool {
	if f.StartDate != "" && rec.Date < f.StartDate {
		return false
	}
	if f.EndDate != "" && rec.Date > f.EndDate {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(rec.Name), q) &&
			!strings.Contains(strings.ToLower(rec.Email), q) {
			return false
		}
	}
	if f.District != "" {
		if !strings.Contains(strings.ToLower(rec.District), strings.ToLower(f.District)) {
			return false
		}
	}
	return true
}
