package sendlog

import (
	"strings"
	"time"
)

// DateLayout is how sent dates are keyed in storage.
const DateLayout = "2006-01-02"

// RetentionDays is how long entries are kept before purge.
const RetentionDays = 30

// Key identifies one delivered reminder. Date is a calendar date in the configured timezone.
type Key struct {
	EmployeeName   string    `json:"employee_name"`
	LeaderEmail    string    `json:"leader_email"`
	EvaluationType string    `json:"evaluation_type"`
	Date           time.Time `json:"-"`
}

// NewKey normalizes the key fields: names are trimmed and the leader email lower-cased.
func NewKey(employeeName, leaderEmail, evaluationType string, date time.Time) Key {
	return Key{
		EmployeeName:   strings.TrimSpace(employeeName),
		LeaderEmail:    strings.ToLower(strings.TrimSpace(leaderEmail)),
		EvaluationType: evaluationType,
		Date:           time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
	}
}

// DateString returns the ISO date of the key.
func (k Key) DateString() string {
	return k.Date.Format(DateLayout)
}

// ID is the per-day identity used by the file store: "employee|leader_email|evaluation_type".
func (k Key) ID() string {
	return k.EmployeeName + "|" + k.LeaderEmail + "|" + k.EvaluationType
}

// Entry is a persisted send record.
type Entry struct {
	Key
	SentDate string    `json:"sent_date"`
	SentAt   time.Time `json:"sent_at"`
}

// NewEntry stamps a key with its send time.
func NewEntry(k Key, sentAt time.Time) Entry {
	return Entry{Key: k, SentDate: k.DateString(), SentAt: sentAt}
}
