package core

import (
	"context"
	"time"

	"fieldops.service/internal/config"
	"fieldops.service/internal/ports/store"
)

// fixture seeds an in-memory workbook with the production table shapes.
type fixture struct {
	mem     *store.Memory
	adapter *store.Adapter
	tables  config.Tables
}

func newFixture() *fixture {
	mem := store.NewMemory()
	mem.Seed("CheckIns",
		[]string{"Timestamp", "Email", "Name", "EmployeeNo", "Location", "GPS", "Image", "Detail", "District", "Group", "Address"},
		nil)
	mem.Seed("CheckOuts",
		[]string{"Timestamp", "Email", "Name", "EmployeeNo", "Location", "GPS", "Image", "Remark", "District", "Group", "Address", "Problem"},
		nil)
	mem.Seed("Leaves",
		[]string{"Date", "Email", "Name", "EmployeeNo", "LeaveType", "Reason", "District", "Group"},
		nil)
	mem.Seed("Users",
		[]string{"Email", "Username", "Name", "EmployeeNo", "District", "Group", "SupervisorEmail", "Province", "Channel", "Role"},
		nil)
	mem.Seed("Holidays", []string{"Date", "Name"}, nil)
	mem.Seed("WeeklyOff", []string{"Day"}, nil)
	mem.Seed("DayOffs", []string{"Email", "Date"}, nil)

	return &fixture{
		mem:     mem,
		adapter: store.NewAdapter(mem, store.NewHeaderCache(time.Minute)),
		tables: config.Tables{
			Checkins:  "CheckIns",
			Checkouts: "CheckOuts",
			Leaves:    "Leaves",
			Users:     "Users",
			Holidays:  "Holidays",
			WeeklyOff: "WeeklyOff",
			DayOffs:   "DayOffs",
		},
	}
}

func (f *fixture) addCheckin(ts, email, name, location, gps, detail string) {
	_ = f.mem.AppendValues(context.Background(), "CheckIns",
		[]string{ts, email, name, "", location, gps, "", detail, "", "", ""})
}

func (f *fixture) addCheckinFull(ts, email, name, empNo, location, gps, image, detail, district, group, address string) {
	_ = f.mem.AppendValues(context.Background(), "CheckIns",
		[]string{ts, email, name, empNo, location, gps, image, detail, district, group, address})
}

func (f *fixture) addCheckout(ts, email, name, location, gps, remark string) {
	_ = f.mem.AppendValues(context.Background(), "CheckOuts",
		[]string{ts, email, name, "", location, gps, "", remark, "", "", "", ""})
}

func (f *fixture) addCheckoutFull(ts, email, name, empNo, location, gps, image, remark, district, group, address, problem string) {
	_ = f.mem.AppendValues(context.Background(), "CheckOuts",
		[]string{ts, email, name, empNo, location, gps, image, remark, district, group, address, problem})
}

func (f *fixture) addLeave(date, email, name, leaveType, reason string) {
	_ = f.mem.AppendValues(context.Background(), "Leaves",
		[]string{date, email, name, "", leaveType, reason, "", ""})
}

func (f *fixture) addUser(email, username, name, empNo, district, group, supervisor string) {
	_ = f.mem.AppendValues(context.Background(), "Users",
		[]string{email, username, name, empNo, district, group, supervisor, "", "", ""})
}

func (f *fixture) activities() *ActivityService {
	return NewActivityService(f.adapter, f.tables)
}

func (f *fixture) attendance() *AttendanceService {
	return NewAttendanceService(f.adapter, f.tables, f.activities())
}

func (f *fixture) summary() *SummaryService {
	return NewSummaryService(f.adapter, f.tables, f.activities())
}
