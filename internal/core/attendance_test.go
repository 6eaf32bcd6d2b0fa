package core

import (
	"context"
	"testing"
	"time"
)

func TestMinutesOfDayAcceptsBothSeparators(t *testing.T) {
	colon, ok := minutesOfDay("09:30")
	if !ok || colon != 570 {
		t.Fatalf("expected 570 for 09:30, got %d (ok=%v)", colon, ok)
	}
	dot, ok := minutesOfDay("09.30")
	if !ok || dot != 570 {
		t.Fatalf("expected 570 for 09.30, got %d (ok=%v)", dot, ok)
	}
	if colon != dot {
		t.Errorf("separators disagree: %d vs %d", colon, dot)
	}
}

func TestMinutesOfDayRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "25:00", "09:75", "midnight", "9", "09:30:00x"} {
		if _, ok := minutesOfDay(bad); ok {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestDailyFirstAndLast(t *testing.T) {
	f := newFixture()
	// Three visits the same day: check-ins 09:00, 08:30, 10:00 UTC and
	// checkouts 17:00, 18:30, 16:00.
	f.addCheckin("2025-06-16T09:00:00Z", "a@x.com", "Ann", "Store1", "", "")
	f.addCheckout("2025-06-16T17:00:00Z", "a@x.com", "Ann", "Store1", "", "")
	f.addCheckin("2025-06-16T08:30:00Z", "a@x.com", "Ann", "Store2", "", "")
	f.addCheckout("2025-06-16T18:30:00Z", "a@x.com", "Ann", "Store2", "", "")
	f.addCheckin("2025-06-16T10:00:00Z", "a@x.com", "Ann", "Store3", "", "")
	f.addCheckout("2025-06-16T16:00:00Z", "a@x.com", "Ann", "Store3", "", "")

	rows, err := f.attendance().Daily(context.Background(), AttendanceFilter{})
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row.FirstCheckin != "08:30" {
		t.Errorf("expected first check-in 08:30, got %q", row.FirstCheckin)
	}
	if row.FirstLocation != "Store2" {
		t.Errorf("expected first location Store2, got %q", row.FirstLocation)
	}
	if row.LastCheckout != "18:30" {
		t.Errorf("expected last checkout 18:30, got %q", row.LastCheckout)
	}
	if row.LastLocation != "Store2" {
		t.Errorf("expected last location Store2, got %q", row.LastLocation)
	}
	if row.LocationsVisited != 3 {
		t.Errorf("expected 3 distinct locations, got %d", row.LocationsVisited)
	}
}

func TestDailyDistinctLocationsIgnoreCaseAndWhitespace(t *testing.T) {
	f := newFixture()
	f.addCheckin("2025-06-16T09:00:00Z", "a@x.com", "Ann", "Store A", "", "")
	f.addCheckin("2025-06-16T10:00:00Z", "a@x.com", "Ann", "store a ", "", "")

	rows, err := f.attendance().Daily(context.Background(), AttendanceFilter{})
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].LocationsVisited != 1 {
		t.Errorf("expected 1 distinct location, got %d", rows[0].LocationsVisited)
	}
}

func TestDailyBackfillsLastFieldsOpportunistically(t *testing.T) {
	f := newFixture()
	// The record with the only checkout photo is not the latest checkout.
	f.addCheckoutFull("2025-06-16T15:00:00Z", "a@x.com", "Ann", "", "Store1", "", "photo1.jpg", "", "", "", "", "")
	f.addCheckoutFull("2025-06-16T18:00:00Z", "a@x.com", "Ann", "", "Store2", "", "", "", "", "", "", "")

	rows, err := f.attendance().Daily(context.Background(), AttendanceFilter{})
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row.LastCheckout != "18:00" {
		t.Errorf("expected last checkout 18:00, got %q", row.LastCheckout)
	}
	if row.LastImage != "photo1.jpg" {
		t.Errorf("expected the only available photo to backfill, got %q", row.LastImage)
	}
}

func TestDailyFoldsLeaveRecords(t *testing.T) {
	f := newFixture()
	f.addUser("a@x.com", "ann", "Ann", "E001", "North", "Retail", "")
	f.addLeave("2025-06-16", "a@x.com", "Ann", "sick", "flu")
	f.addLeave("2025-06-16", "a@x.com", "Ann", "personal", "errand")

	rows, err := f.attendance().Daily(context.Background(), AttendanceFilter{})
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].LeaveNote != "sick; personal" {
		t.Errorf("expected concatenated leave note, got %q", rows[0].LeaveNote)
	}
	if rows[0].District != "North" {
		t.Errorf("expected directory backfill on leave-only day, got %q", rows[0].District)
	}
}

func TestDailySortAndFilter(t *testing.T) {
	f := newFixture()
	f.addCheckinFull("2025-06-17T09:00:00Z", "b@x.com", "Bee", "E002", "Store1", "", "", "", "South", "", "")
	f.addCheckinFull("2025-06-16T09:00:00Z", "a@x.com", "Ann", "E001", "Store1", "", "", "", "North", "", "")

	rows, err := f.attendance().Daily(context.Background(), AttendanceFilter{})
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Date != "2025-06-16" {
		t.Errorf("expected date ascending, got %q first", rows[0].Date)
	}

	rows, err = f.attendance().Daily(context.Background(), AttendanceFilter{District: "south"})
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Bee" {
		t.Fatalf("district filter: expected Bee only, got %+v", rows)
	}
}

func TestMonthlyRollupDayStatuses(t *testing.T) {
	f := newFixture()
	f.addUser("a@x.com", "ann", "Ann", "E001", "North", "Retail", "")
	f.addCheckin("2025-06-16T09:00:00Z", "a@x.com", "Ann", "Store1", "", "")
	f.addLeave("2025-06-17", "a@x.com", "Ann", "sick", "flu")
	_ = f.mem.AppendValues(context.Background(), "Holidays", []string{"2025-06-03", "Holiday"})
	_ = f.mem.AppendValues(context.Background(), "WeeklyOff", []string{"Sunday"})
	_ = f.mem.AppendValues(context.Background(), "DayOffs", []string{"a@x.com", "2025-06-20"})

	rows, err := f.attendance().Monthly(context.Background(), 2025, time.June, AttendanceFilter{})
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 person, got %d", len(rows))
	}
	days := rows[0].Days
	if len(days) != 30 {
		t.Fatalf("expected 30 days in June, got %d", len(days))
	}

	byDate := map[string]int{}
	for i, d := range days {
		byDate[d.Date] = i
	}

	if got := days[byDate["2025-06-16"]]; got.Status != "present" || got.FirstIn != "09:00" {
		t.Errorf("expected 16th present at 09:00, got %+v", got)
	}
	if got := days[byDate["2025-06-17"]]; got.Status != "leave" || got.LeaveType != "sick" {
		t.Errorf("expected 17th leave/sick, got %+v", got)
	}
	if got := days[byDate["2025-06-03"]]; got.Status != "holiday" {
		t.Errorf("expected 3rd holiday, got %+v", got)
	}
	// 2025-06-08 is a Sunday.
	if got := days[byDate["2025-06-08"]]; got.Status != "weekly-off" {
		t.Errorf("expected the 8th weekly-off, got %+v", got)
	}
	if got := days[byDate["2025-06-20"]]; got.Status != "day-off" {
		t.Errorf("expected 20th day-off, got %+v", got)
	}
	if got := days[byDate["2025-06-18"]]; got.Status != "absent" {
		t.Errorf("expected 18th absent, got %+v", got)
	}
}
