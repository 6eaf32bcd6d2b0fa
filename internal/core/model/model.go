package model

// ActivityStatus is the lifecycle state of a reconciled field visit.
type ActivityStatus string

const (
	// StatusOngoing marks a visit with a check-in and no checkout yet.
	StatusOngoing ActivityStatus = "ongoing"
	// StatusIncomplete marks an orphan checkout with no recorded check-in.
	StatusIncomplete ActivityStatus = "incomplete"
	// StatusCompleted marks a visit with both a check-in and a checkout.
	StatusCompleted ActivityStatus = "completed"
)

// ActivityRecord is one reconciled visit to one location by one person on one
// date. It is materialized fresh on every query from the raw check-in and
// checkout tables and never persisted. Text fields are always present in the
// JSON payload, empty string when unknown, so the frontend never deals with
// nulls.
type ActivityRecord struct {
	Date         string         `json:"date"`
	CheckinTime  string         `json:"checkinTime"`
	CheckoutTime string         `json:"checkoutTime"`
	Location     string         `json:"location"`
	Detail       string         `json:"detail"`
	Status       ActivityStatus `json:"status"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	EmployeeNo   string         `json:"employeeNo"`
	District     string         `json:"district"`
	Group        string         `json:"group"`
	ImageIn      string         `json:"imageIn"`
	ImageOut     string         `json:"imageOut"`
	CheckinGPS   string         `json:"checkinGps"`
	CheckoutGPS  string         `json:"checkoutGps"`
	Address      string         `json:"address"`

	CheckinLat  *float64 `json:"checkinLat,omitempty"`
	CheckinLon  *float64 `json:"checkinLon,omitempty"`
	CheckoutLat *float64 `json:"checkoutLat,omitempty"`
	CheckoutLon *float64 `json:"checkoutLon,omitempty"`

	// DistanceKm is the haversine distance between the two GPS fixes,
	// present only when both parsed.
	DistanceKm *float64 `json:"distanceKm,omitempty"`
}

// UserDirectoryEntry is one row of the user directory table. The directory is
// a fallback source only: event rows keep precedence over it.
type UserDirectoryEntry struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Name            string `json:"name"`
	EmployeeNo      string `json:"employeeNo"`
	District        string `json:"district"`
	Group           string `json:"group"`
	SupervisorEmail string `json:"supervisorEmail"`
	Province        string `json:"province"`
	Channel         string `json:"channel"`
	Role            string `json:"role"`
}

// LeaveRecord is one leave entry for a person on a date.
type LeaveRecord struct {
	Date       string `json:"date"`
	LeaveType  string `json:"leaveType"`
	Reason     string `json:"reason"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	EmployeeNo string `json:"employeeNo"`
	District   string `json:"district"`
	Group      string `json:"group"`
}

// DailyAttendanceRow is the per (date, person) fold of all visits that day:
// earliest check-in, latest checkout, distinct locations visited, plus any
// leave note. Computed, transient, never persisted.
type DailyAttendanceRow struct {
	Date       string `json:"date"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	EmployeeNo string `json:"employeeNo"`
	District   string `json:"district"`
	Group      string `json:"group"`

	FirstCheckin  string `json:"firstCheckin"`
	FirstLocation string `json:"firstLocation"`
	FirstImage    string `json:"firstImage"`
	FirstGPS      string `json:"firstGps"`
	FirstAddress  string `json:"firstAddress"`

	LastCheckout string `json:"lastCheckout"`
	LastLocation string `json:"lastLocation"`
	LastImage    string `json:"lastImage"`
	LastGPS      string `json:"lastGps"`
	LastAddress  string `json:"lastAddress"`

	LocationsVisited int    `json:"locationsVisited"`
	LeaveNote        string `json:"leaveNote"`
}

// PersonSummary is the per-person rollup over a date range. Email is used as
// the internal grouping key but deliberately not exposed in the payload.
type PersonSummary struct {
	Name       string `json:"name"`
	EmployeeNo string `json:"employeeNo"`
	District   string `json:"district"`
	Group      string `json:"group"`
	Total      int    `json:"total"`
	Completed  int    `json:"completed"`
	Incomplete int    `json:"incomplete"`
	Ongoing    int    `json:"ongoing"`
}

// DayStatus classifies one calendar day in the monthly rollup.
type DayStatus string

const (
	DayPresent   DayStatus = "present"
	DayLeave     DayStatus = "leave"
	DayHoliday   DayStatus = "holiday"
	DayWeeklyOff DayStatus = "weekly-off"
	DayDayOff    DayStatus = "day-off"
	DayAbsent    DayStatus = "absent"
)

// MonthlyDayCell is one calendar day for one person in the monthly view.
type MonthlyDayCell struct {
	Date      string    `json:"date"`
	Status    DayStatus `json:"status"`
	LeaveType string    `json:"leaveType"`
	FirstIn   string    `json:"firstIn"`
	LastOut   string    `json:"lastOut"`
}

// MonthlyAttendanceRow is one person's calendar for a month.
type MonthlyAttendanceRow struct {
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	EmployeeNo string           `json:"employeeNo"`
	District   string           `json:"district"`
	Group      string           `json:"group"`
	Days       []MonthlyDayCell `json:"days"`
}
