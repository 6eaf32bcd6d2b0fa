package core

import (
	"context"
	"strings"
	"time"

	"fieldops.service/internal/config"
	"fieldops.service/internal/core/model"
	"fieldops.service/internal/ports/messaging"
	"fieldops.service/internal/ports/store"
	"fieldops.service/pkg/geo"
	"github.com/rs/zerolog/log"
)

// CheckinService records check-in and checkout submissions. A checkout is
// validated against the matching check-in's GPS fix (geofence) and publishes
// a notification event; the event is best effort and never fails the
// submission.
type CheckinService struct {
	store      *store.Adapter
	tables     config.Tables
	activities *ActivityService
	producer   messaging.EventPublisher
	maxKm      float64
	now        func() time.Time
}

// NewCheckinService creates the submission service. producer may be nil when
// notifications are disabled.
func NewCheckinService(ad *store.Adapter, tables config.Tables, activities *ActivityService, producer messaging.EventPublisher, maxKm float64) *CheckinService {
	return &CheckinService{
		store:      ad,
		tables:     tables,
		activities: activities,
		producer:   producer,
		maxKm:      maxKm,
		now:        time.Now,
	}
}

// CheckinRequest is one check-in submission from the mobile client.
type CheckinRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Location string `json:"location"`
	GPS      string `json:"gps"`
	Image    string `json:"image"`
	Detail   string `json:"detail"`
	Address  string `json:"address"`
}

// CheckoutRequest is one checkout submission. Location must repeat the
// check-in's location name for the visit to reconcile.
type CheckoutRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Location string `json:"location"`
	GPS      string `json:"gps"`
	Image    string `json:"image"`
	Remark   string `json:"remark"`
	Problem  string `json:"problem"`
	Address  string `json:"address"`
}

// CheckoutResult reports the geofence outcome of a checkout.
type CheckoutResult struct {
	DistanceKm *float64 `json:"distanceKm,omitempty"`
	OutOfArea  bool     `json:"outOfArea"`
}

// SubmitCheckin appends a check-in row, filling identity gaps from the
// directory.
func (s *CheckinService) SubmitCheckin(ctx context.Context, req CheckinRequest) error {
	dir, err := LoadDirectory(ctx, s.store, s.tables.Users)
	if err != nil {
		return err
	}

	entry, _ := dir.Lookup(req.Email, req.Name)
	name := req.Name
	fillEmpty(&name, entry.Name)

	_, err = s.store.AppendRow(ctx, s.tables.Checkins, map[string]string{
		"Timestamp":  s.now().UTC().Format(time.RFC3339),
		"Email":      req.Email,
		"Name":       name,
		"EmployeeNo": entry.EmployeeNo,
		"Location":   req.Location,
		"GPS":        req.GPS,
		"Image":      req.Image,
		"Detail":     req.Detail,
		"District":   entry.District,
		"Group":      entry.Group,
		"Address":    req.Address,
	})
	return err
}

// SubmitCheckout appends a checkout row. When the matching ongoing visit is
// found for today, the distance between the two fixes is computed and checked
// against the geofence; nothing blocks the submission, an out-of-area
// checkout is recorded and flagged.
func (s *CheckinService) SubmitCheckout(ctx context.Context, req CheckoutRequest) (CheckoutResult, error) {
	dir, err := LoadDirectory(ctx, s.store, s.tables.Users)
	if err != nil {
		return CheckoutResult{}, err
	}

	now := s.now().UTC()
	today := now.Format("2006-01-02")

	result := CheckoutResult{}
	var openVisit *model.ActivityRecord

	records, err := s.activities.ReconcileWith(ctx, ActivityFilter{StartDate: today, EndDate: today}, dir)
	if err != nil {
		return CheckoutResult{}, err
	}
	// Reconciled records carry trimmed cell values; trim the request the same
	// way or a stray space in the submitted location misses the open visit.
	want := joinKey(strings.TrimSpace(req.Email), today, strings.TrimSpace(req.Location))
	for i := range records {
		rec := &records[i]
		if rec.Status == model.StatusOngoing && joinKey(rec.Email, rec.Date, rec.Location) == want {
			openVisit = rec
			break
		}
	}

	if openVisit != nil {
		if in, okIn := geo.ParseCoordinate(openVisit.CheckinGPS); okIn {
			if out, okOut := geo.ParseCoordinate(req.GPS); okOut {
				d := geo.RoundKm(geo.DistanceKm(in, out))
				result.DistanceKm = &d
				result.OutOfArea = !geo.IsWithinRadius(in, out, s.maxKm)
			}
		}
	}

	entry, _ := dir.Lookup(req.Email, req.Name)
	name := req.Name
	fillEmpty(&name, entry.Name)

	_, err = s.store.AppendRow(ctx, s.tables.Checkouts, map[string]string{
		"Timestamp":  now.Format(time.RFC3339),
		"Email":      req.Email,
		"Name":       name,
		"EmployeeNo": entry.EmployeeNo,
		"Location":   req.Location,
		"GPS":        req.GPS,
		"Image":      req.Image,
		"Remark":     req.Remark,
		"District":   entry.District,
		"Group":      entry.Group,
		"Address":    req.Address,
		"Problem":    req.Problem,
	})
	if err != nil {
		return result, err
	}

	if s.producer != nil {
		event := messaging.CheckoutRecordedEvent{
			Email:           req.Email,
			Name:            name,
			Location:        req.Location,
			Date:            today,
			CheckoutTime:    now.Format("15:04"),
			DistanceKm:      result.DistanceKm,
			OutOfArea:       result.OutOfArea,
			SupervisorEmail: entry.SupervisorEmail,
			OccurredAt:      now,
		}
		if openVisit != nil {
			event.CheckinTime = openVisit.CheckinTime
		}
		if err := s.producer.PublishCheckout(ctx, event); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("email", req.Email).Msg("Failed to publish checkout event")
		}
	}

	return result, nil
}
