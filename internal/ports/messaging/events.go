package messaging

import "time"

// CheckoutRecordedEvent is the JSON payload published after a checkout row is
// appended. The notify worker turns it into a visit-summary email to the
// field rep's supervisor.
type CheckoutRecordedEvent struct {
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Location        string    `json:"location"`
	Date            string    `json:"date"`
	CheckinTime     string    `json:"checkinTime"`
	CheckoutTime    string    `json:"checkoutTime"`
	DistanceKm      *float64  `json:"distanceKm,omitempty"`
	OutOfArea       bool      `json:"outOfArea"`
	SupervisorEmail string    `json:"supervisorEmail"`
	OccurredAt      time.Time `json:"occurredAt"`
}
