package core

import (
	"context"

	"fieldops.service/internal/core/model"
	"fieldops.service/internal/ports/store"
)

// Column schemas for the workbook tables. Each column declares its header
// name and the positional fallback used when a legacy table is missing the
// header. The fallbacks match the column order the mobile client has appended
// since the first workbook version.

type checkinColumns struct {
	timestamp, email, name, employeeNo, location,
	gps, image, detail, district, group, address int
}

func resolveCheckinColumns(ctx context.Context, table string, headers []string) checkinColumns {
	return checkinColumns{
		timestamp:  store.Column{Header: "Timestamp", Fallback: 0}.Resolve(ctx, table, headers),
		email:      store.Column{Header: "Email", Fallback: 1}.Resolve(ctx, table, headers),
		name:       store.Column{Header: "Name", Fallback: 2}.Resolve(ctx, table, headers),
		employeeNo: store.Column{Header: "EmployeeNo", Fallback: 3}.Resolve(ctx, table, headers),
		location:   store.Column{Header: "Location", Fallback: 4}.Resolve(ctx, table, headers),
		gps:        store.Column{Header: "GPS", Fallback: 5}.Resolve(ctx, table, headers),
		image:      store.Column{Header: "Image", Fallback: 6}.Resolve(ctx, table, headers),
		detail:     store.Column{Header: "Detail", Fallback: 7}.Resolve(ctx, table, headers),
		district:   store.Column{Header: "District", Fallback: 8}.Resolve(ctx, table, headers),
		group:      store.Column{Header: "Group", Fallback: 9}.Resolve(ctx, table, headers),
		address:    store.Column{Header: "Address", Fallback: 10}.Resolve(ctx, table, headers),
	}
}

type checkoutColumns struct {
	timestamp, email, name, employeeNo, location,
	gps, image, remark, district, group, address, problem int
}

func resolveCheckoutColumns(ctx context.Context, table string, headers []string) checkoutColumns {
	return checkoutColumns{
		timestamp:  store.Column{Header: "Timestamp", Fallback: 0}.Resolve(ctx, table, headers),
		email:      store.Column{Header: "Email", Fallback: 1}.Resolve(ctx, table, headers),
		name:       store.Column{Header: "Name", Fallback: 2}.Resolve(ctx, table, headers),
		employeeNo: store.Column{Header: "EmployeeNo", Fallback: 3}.Resolve(ctx, table, headers),
		location:   store.Column{Header: "Location", Fallback: 4}.Resolve(ctx, table, headers),
		gps:        store.Column{Header: "GPS", Fallback: 5}.Resolve(ctx, table, headers),
		image:      store.Column{Header: "Image", Fallback: 6}.Resolve(ctx, table, headers),
		remark:     store.Column{Header: "Remark", Fallback: 7}.Resolve(ctx, table, headers),
		district:   store.Column{Header: "District", Fallback: 8}.Resolve(ctx, table, headers),
		group:      store.Column{Header: "Group", Fallback: 9}.Resolve(ctx, table, headers),
		address:    store.Column{Header: "Address", Fallback: 10}.Resolve(ctx, table, headers),
		problem:    store.Column{Header: "Problem", Fallback: 11}.Resolve(ctx, table, headers),
	}
}

type leaveColumns struct {
	date, email, name, employeeNo, leaveType, reason, district, group int
}

func resolveLeaveColumns(ctx context.Context, table string, headers []string) leaveColumns {
	return leaveColumns{
		date:       store.Column{Header: "Date", Fallback: 0}.Resolve(ctx, table, headers),
		email:      store.Column{Header: "Email", Fallback: 1}.Resolve(ctx, table, headers),
		name:       store.Column{Header: "Name", Fallback: 2}.Resolve(ctx, table, headers),
		employeeNo: store.Column{Header: "EmployeeNo", Fallback: 3}.Resolve(ctx, table, headers),
		leaveType:  store.Column{Header: "LeaveType", Fallback: 4}.Resolve(ctx, table, headers),
		reason:     store.Column{Header: "Reason", Fallback: 5}.Resolve(ctx, table, headers),
		district:   store.Column{Header: "District", Fallback: 6}.Resolve(ctx, table, headers),
		group:      store.Column{Header: "Group", Fallback: 7}.Resolve(ctx, table, headers),
	}
}

type userColumns struct {
	email, username, name, employeeNo, district,
	group, supervisor, province, channel, role int
}

func resolveUserColumns(ctx context.Context, table string, headers []string) userColumns {
	return userColumns{
		email:      store.Column{Header: "Email", Fallback: 0}.Resolve(ctx, table, headers),
		username:   store.Column{Header: "Username", Fallback: 1}.Resolve(ctx, table, headers),
		name:       store.Column{Header: "Name", Fallback: 2}.Resolve(ctx, table, headers),
		employeeNo: store.Column{Header: "EmployeeNo", Fallback: 3}.Resolve(ctx, table, headers),
		district:   store.Column{Header: "District", Fallback: 4}.Resolve(ctx, table, headers),
		group:      store.Column{Header: "Group", Fallback: 5}.Resolve(ctx, table, headers),
		supervisor: store.Column{Header: "SupervisorEmail", Fallback: 6}.Resolve(ctx, table, headers),
		province:   store.Column{Header: "Province", Fallback: 7}.Resolve(ctx, table, headers),
		channel:    store.Column{Header: "Channel", Fallback: 8}.Resolve(ctx, table, headers),
		role:       store.Column{Header: "Role", Fallback: 9}.Resolve(ctx, table, headers),
	}
}

// loadLeaveRecords reads the leave table into typed records.
func loadLeaveRecords(ctx context.Context, ad *store.Adapter, table string) ([]model.LeaveRecord, error) {
	headers, err := ad.Headers(ctx, table)
	if err != nil {
		return nil, err
	}
	rows, err := ad.Rows(ctx, table)
	if err != nil {
		return nil, err
	}

	cols := resolveLeaveColumns(ctx, table, headers)
	leaves := make([]model.LeaveRecord, 0, len(rows))
	for _, row := range rows {
		rec := model.LeaveRecord{
			Date:       store.Cell(row, cols.date),
			Email:      store.Cell(row, cols.email),
			Name:       store.Cell(row, cols.name),
			EmployeeNo: store.Cell(row, cols.employeeNo),
			LeaveType:  store.Cell(row, cols.leaveType),
			Reason:     store.Cell(row, cols.reason),
			District:   store.Cell(row, cols.district),
			Group:      store.Cell(row, cols.group),
		}
		if rec.Date == "" {
			continue
		}
		leaves = append(leaves, rec)
	}
	return leaves, nil
}

// loadDateSet reads a table whose first recognized column is a date and
// returns the set of dates. Used for the holiday table.
func loadDateSet(ctx context.Context, ad *store.Adapter, table string) (map[string]bool, error) {
	headers, err := ad.Headers(ctx, table)
	if err != nil {
		return nil, err
	}
	rows, err := ad.Rows(ctx, table)
	if err != nil {
		return nil, err
	}

	col := store.Column{Header: "Date", Fallback: 0}.Resolve(ctx, table, headers)
	set := make(map[string]bool)
	for _, row := range rows {
		if d := store.Cell(row, col); d != "" {
			set[d] = true
		}
	}
	return set, nil
}

// loadWeekdaySet reads the weekly-off config table: one weekday name per row.
func loadWeekdaySet(ctx context.Context, ad *store.Adapter, table string) (map[string]bool, error) {
	headers, err := ad.Headers(ctx, table)
	if err != nil {
		return nil, err
	}
	rows, err := ad.Rows(ctx, table)
	if err != nil {
		return nil, err
	}

	col := store.Column{Header: "Day", Fallback: 0}.Resolve(ctx, table, headers)
	set := make(map[string]bool)
	for _, row := range rows {
		if d := normalizeKey(store.Cell(row, col)); d != "" {
			set[d] = true
		}
	}
	return set, nil
}

// loadPersonDateSet reads the day-off table keyed by (email, date).
func loadPersonDateSet(ctx context.Context, ad *store.Adapter, table string) (map[string]bool, error) {
	headers, err := ad.Headers(ctx, table)
	if err != nil {
		return nil, err
	}
	rows, err := ad.Rows(ctx, table)
	if err != nil {
		return nil, err
	}

	emailCol := store.Column{Header: "Email", Fallback: 0}.Resolve(ctx, table, headers)
	dateCol := store.Column{Header: "Date", Fallback: 1}.Resolve(ctx, table, headers)
	set := make(map[string]bool)
	for _, row := range rows {
		email := normalizeKey(store.Cell(row, emailCol))
		date := store.Cell(row, dateCol)
		if email == "" || date == "" {
			continue
		}
		set[email+"|"+date] = true
	}
	return set, nil
}
