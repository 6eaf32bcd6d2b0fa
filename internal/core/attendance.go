package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"fieldops.service/internal/config"
	"fieldops.service/internal/core/model"
	"fieldops.service/internal/ports/store"
)

// AttendanceService folds reconciled activity records and leave rows into
// per-day attendance rows and the monthly calendar view.
type AttendanceService struct {
	store      *store.Adapter
	tables     config.Tables
	activities *ActivityService
}

// NewAttendanceService wires the aggregator to the store and the reconciler.
func NewAttendanceService(ad *store.Adapter, tables config.Tables, activities *ActivityService) *AttendanceService {
	return &AttendanceService{store: ad, tables: tables, activities: activities}
}

// AttendanceFilter narrows the aggregated rows by name and district,
// case-insensitive substring each, after aggregation.
type AttendanceFilter struct {
	StartDate string
	EndDate   string
	Name      string
	District  string
}

type dailyAccumulator struct {
	row       *model.DailyAttendanceRow
	bestFirst int
	bestLast  int
	locations map[string]bool
}

// Daily returns one row per (date, person) over the range: earliest check-in
// of the day, latest checkout, distinct locations visited, and any leave
// note.
func (s *AttendanceService) Daily(ctx context.Context, filter AttendanceFilter) ([]model.DailyAttendanceRow, error) {
	dir, err := LoadDirectory(ctx, s.store, s.tables.Users)
	if err != nil {
		return nil, err
	}

	records, err := s.activities.ReconcileWith(ctx, ActivityFilter{
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
	}, dir)
	if err != nil {
		return nil, err
	}

	leaves, err := loadLeaveRecords(ctx, s.store, s.tables.Leaves)
	if err != nil {
		return nil, err
	}

	acc := make(map[string]*dailyAccumulator)
	order := make([]string, 0, len(records))

	dayKey := func(date, email, employeeNo, name string) string {
		return date + "|" + identityKey(email, employeeNo, name)
	}

	for _, rec := range records {
		key := dayKey(rec.Date, rec.Email, rec.EmployeeNo, rec.Name)
		a, exists := acc[key]
		if !exists {
			a = &dailyAccumulator{
				row: &model.DailyAttendanceRow{
					Date:       rec.Date,
					Name:       rec.Name,
					Email:      rec.Email,
					EmployeeNo: rec.EmployeeNo,
					District:   rec.District,
					Group:      rec.Group,
				},
				bestFirst: firstSentinel,
				bestLast:  lastSentinel,
				locations: make(map[string]bool),
			}
			acc[key] = a
			order = append(order, key)
		}

		fillEmpty(&a.row.Name, rec.Name)
		fillEmpty(&a.row.Email, rec.Email)
		fillEmpty(&a.row.EmployeeNo, rec.EmployeeNo)
		fillEmpty(&a.row.District, rec.District)
		fillEmpty(&a.row.Group, rec.Group)

		// Earliest check-in wins the "first" slot; ties keep the record
		// seen first. Unparsable times carry the sentinel and never win.
		if m, ok := minutesOfDay(rec.CheckinTime); ok && m < a.bestFirst {
			a.bestFirst = m
			a.row.FirstCheckin = rec.CheckinTime
			a.row.FirstLocation = rec.Location
			a.row.FirstImage = rec.ImageIn
			a.row.FirstGPS = rec.CheckinGPS
			a.row.FirstAddress = rec.Address
		}

		// Latest checkout wins the "last" slot, but never blanks a photo,
		// fix or address an earlier record already provided; any record may
		// also backfill a "last" field nothing has claimed.
		if m, ok := minutesOfDay(rec.CheckoutTime); ok && m > a.bestLast {
			a.bestLast = m
			a.row.LastCheckout = rec.CheckoutTime
			a.row.LastLocation = rec.Location
			setNonEmpty(&a.row.LastImage, rec.ImageOut)
			setNonEmpty(&a.row.LastGPS, rec.CheckoutGPS)
			setNonEmpty(&a.row.LastAddress, rec.Address)
		}
		fillEmpty(&a.row.LastLocation, rec.Location)
		fillEmpty(&a.row.LastImage, rec.ImageOut)
		fillEmpty(&a.row.LastGPS, rec.CheckoutGPS)
		fillEmpty(&a.row.LastAddress, rec.Address)

		if loc := normalizeKey(rec.Location); loc != "" {
			a.locations[loc] = true
		}
	}

	for _, leave := range leaves {
		leave := leave
		dir.FillLeave(&leave)
		if filter.StartDate != "" && leave.Date < filter.StartDate {
			continue
		}
		if filter.EndDate != "" && leave.Date > filter.EndDate {
			continue
		}

		key := dayKey(leave.Date, leave.Email, leave.EmployeeNo, leave.Name)
		a, exists := acc[key]
		if !exists {
			a = &dailyAccumulator{
				row: &model.DailyAttendanceRow{
					Date:       leave.Date,
					Name:       leave.Name,
					Email:      leave.Email,
					EmployeeNo: leave.EmployeeNo,
					District:   leave.District,
					Group:      leave.Group,
				},
				bestFirst: firstSentinel,
				bestLast:  lastSentinel,
				locations: make(map[string]bool),
			}
			acc[key] = a
			order = append(order, key)
		}
		if a.row.LeaveNote == "" {
			a.row.LeaveNote = leave.LeaveType
		} else {
			a.row.LeaveNote += "; " + leave.LeaveType
		}
	}

	rows := make([]model.DailyAttendanceRow, 0, len(order))
	for _, key := range order {
		a := acc[key]
		a.row.LocationsVisited = len(a.locations)
		if !matchAttendanceFilter(*a.row, filter) {
			continue
		}
		rows = append(rows, *a.row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
		return a.EmployeeNo < b.EmployeeNo
	})

	return rows, nil
}

func matchAttendanceFilter(row model.DailyAttendanceRow, f AttendanceFilter) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(row.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.District != "" && !strings.Contains(strings.ToLower(row.District), strings.ToLower(f.District)) {
		return false
	}
	return true
}

// Monthly builds the calendar view: one row per directory entry, one cell per
// day of the month, each day classified as present, leave, holiday,
// weekly-off, day-off or absent, in that precedence order.
func (s *AttendanceService) Monthly(ctx context.Context, year int, month time.Month, filter AttendanceFilter) ([]model.MonthlyAttendanceRow, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	startDate := first.Format("2006-01-02")
	endDate := last.Format("2006-01-02")

	dir, err := LoadDirectory(ctx, s.store, s.tables.Users)
	if err != nil {
		return nil, err
	}

	daily, err := s.Daily(ctx, AttendanceFilter{StartDate: startDate, EndDate: endDate})
	if err != nil {
		return nil, err
	}

	leaves, err := loadLeaveRecords(ctx, s.store, s.tables.Leaves)
	if err != nil {
		return nil, err
	}
	holidays, err := loadDateSet(ctx, s.store, s.tables.Holidays)
	if err != nil {
		return nil, err
	}
	weeklyOff, err := loadWeekdaySet(ctx, s.store, s.tables.WeeklyOff)
	if err != nil {
		return nil, err
	}
	dayOffs, err := loadPersonDateSet(ctx, s.store, s.tables.DayOffs)
	if err != nil {
		return nil, err
	}

	dailyByKey := make(map[string]model.DailyAttendanceRow, len(daily))
	for _, row := range daily {
		dailyByKey[row.Date+"|"+identityKey(row.Email, row.EmployeeNo, row.Name)] = row
	}
	leaveTypeByKey := make(map[string]string, len(leaves))
	for _, leave := range leaves {
		leave := leave
		dir.FillLeave(&leave)
		key := leave.Date + "|" + identityKey(leave.Email, leave.EmployeeNo, leave.Name)
		if existing := leaveTypeByKey[key]; existing != "" {
			leaveTypeByKey[key] = existing + "; " + leave.LeaveType
		} else {
			leaveTypeByKey[key] = leave.LeaveType
		}
	}

	out := make([]model.MonthlyAttendanceRow, 0, len(dir.Entries()))
	for _, entry := range dir.Entries() {
		if filter.Name != "" && !strings.Contains(strings.ToLower(entry.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.District != "" && !strings.Contains(strings.ToLower(entry.District), strings.ToLower(filter.District)) {
			continue
		}

		person := identityKey(entry.Email, entry.EmployeeNo, entry.Name)
		row := model.MonthlyAttendanceRow{
			Name:       entry.Name,
			Email:      entry.Email,
			EmployeeNo: entry.EmployeeNo,
			District:   entry.District,
			Group:      entry.Group,
			Days:       make([]model.MonthlyDayCell, 0, last.Day()),
		}

		for day := 1; day <= last.Day(); day++ {
			date := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
			cell := model.MonthlyDayCell{Date: date}

			if d, ok := dailyByKey[date+"|"+person]; ok && (d.FirstCheckin != "" || d.LastCheckout != "") {
				cell.Status = model.DayPresent
				cell.FirstIn = d.FirstCheckin
				cell.LastOut = d.LastCheckout
			} else if lt, ok := leaveTypeByKey[date+"|"+person]; ok {
				cell.Status = model.DayLeave
				cell.LeaveType = lt
			} else if holidays[date] {
				cell.Status = model.DayHoliday
			} else if weeklyOff[strings.ToLower(time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Weekday().String())] {
				cell.Status = model.DayWeeklyOff
			} else if dayOffs[normalizeKey(entry.Email)+"|"+date] {
				cell.Status = model.DayDayOff
			} else {
				cell.Status = model.DayAbsent
			}
			row.Days = append(row.Days, cell)
		}

		out = append(out, row)
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
