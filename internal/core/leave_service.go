package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"fieldops.service/internal/config"
	"fieldops.service/internal/core/model"
	"fieldops.service/internal/ports/store"
)

// LeaveService records and lists leave entries.
type LeaveService struct {
	store  *store.Adapter
	tables config.Tables
}

// NewLeaveService wires the leave service to the tabular store.
func NewLeaveService(ad *store.Adapter, tables config.Tables) *LeaveService {
	return &LeaveService{store: ad, tables: tables}
}

// LeaveRequest is one leave submission.
type LeaveRequest struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	LeaveType string `json:"leaveType"`
	Reason    string `json:"reason"`
}

// SubmitLeave appends a leave row, filling identity gaps from the directory.
func (s *LeaveService) SubmitLeave(ctx context.Context, req LeaveRequest) error {
	if req.Date == "" || req.LeaveType == "" {
		return fmt.Errorf("leave date and type are required")
	}

	dir, err := LoadDirectory(ctx, s.store, s.tables.Users)
	if err != nil {
		return err
	}
	entry, _ := dir.Lookup(req.Email, req.Name)
	name := req.Name
	fillEmpty(&name, entry.Name)

	_, err = s.store.AppendRow(ctx, s.tables.Leaves, map[string]string{
		"Date":       req.Date,
		"Email":      req.Email,
		"Name":       name,
		"EmployeeNo": entry.EmployeeNo,
		"LeaveType":  req.LeaveType,
		"Reason":     req.Reason,
		"District":   entry.District,
		"Group":      entry.Group,
	})
	return err
}

// LeaveFilter narrows the leave calendar by date range and identity.
type LeaveFilter struct {
	StartDate string
	EndDate   string
	Query     string
	District  string
}

// Leaves returns the filtered leave calendar, directory gaps filled, sorted
// by date then name.
func (s *LeaveService) Leaves(ctx context.Context, filter LeaveFilter) ([]model.LeaveRecord, error) {
	dir, err := LoadDirectory(ctx, s.store, s.tables.Users)
	if err != nil {
		return nil, err
	}
	leaves, err := loadLeaveRecords(ctx, s.store, s.tables.Leaves)
	if err != nil {
		return nil, err
	}

	out := make([]model.LeaveRecord, 0, len(leaves))
	for _, leave := range leaves {
		dir.FillLeave(&leave)
		if filter.StartDate != "" && leave.Date < filter.StartDate {
			continue
		}
		if filter.EndDate != "" && leave.Date > filter.EndDate {
			continue
		}
		if filter.Query != "" {
			q := strings.ToLower(filter.Query)
			if !strings.Contains(strings.ToLower(leave.Name), q) &&
				!strings.Contains(strings.ToLower(leave.Email), q) {
				continue
			}
		}
		if filter.District != "" &&
			!strings.Contains(strings.ToLower(leave.District), strings.ToLower(filter.District)) {
			continue
		}
		out = append(out, leave)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})

	return out, nil
}
