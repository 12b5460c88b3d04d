package evaluation

import "time"

// Obligation is one employee's pending evaluation for a single kind.
// It is rebuilt on every classification pass and never stored.
type Obligation struct {
	EmployeeName      string    `json:"employee_name"`
	EmployeeCRM       string    `json:"employee_crm,omitempty"`
	Position          string    `json:"position,omitempty"`
	Department        string    `json:"department"`
	LeaderName        string    `json:"leader_name"`
	LeaderEmail       string    `json:"leader_email"`
	SecondLeaderEmail string    `json:"second_leader_email,omitempty"`
	Kind              Kind      `json:"evaluation_type"`
	Deadline          time.Time `json:"deadline"`
	DaysRemaining     int       `json:"days_remaining"`
	EndDate           time.Time `json:"end_date"`

	// SourceIndex points back at the row in the fetched slice.
	SourceIndex int `json:"-"`
}
