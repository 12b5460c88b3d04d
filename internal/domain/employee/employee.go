package employee

import "strings"

// DefaultLeaderName is used in greetings when the source row has no leader name.
const DefaultLeaderName = "Manager"

// StatusEmailSent is written into Row.ReminderStatus after a successful dispatch.
const StatusEmailSent = "Email Sent"

// Attachment describes a file stored in the data source (e.g. separation papers).
type Attachment struct {
	FileToken string `json:"file_token"`
	Name      string `json:"name"`
	URL       string `json:"url,omitempty"`
	Size      int64  `json:"size,omitempty"`
}

// Row is one normalized employee record as produced by the data source boundary.
// The remaining-days fields keep the source text; evaluation.ParseDays interprets them.
type Row struct {
	EmployeeName      string `json:"employee_name"`
	LeaderName        string `json:"leader_name"`
	LeaderEmail       string `json:"leader_email"`
	SecondLeaderEmail string `json:"second_leader_email,omitempty"`
	Status            string `json:"employee_status"`
	Position          string `json:"position"`
	Department        string `json:"department"`
	EmployeeCRM       string `json:"employee_crm,omitempty"`
	LeaderCRM         string `json:"leader_crm,omitempty"`

	ProbationRemainingDays string `json:"probation_remaining_days,omitempty"`
	ContractRemainingDays  string `json:"contract_remaining_days,omitempty"`

	// Separation fields, only read by the separation pipeline.
	ExitDate         string       `json:"exit_date,omitempty"`
	ExitType         string       `json:"exit_type,omitempty"`
	ExitReason       string       `json:"exit_reason,omitempty"`
	ContractCompany  string       `json:"contract_company,omitempty"`
	NationalID       string       `json:"national_id,omitempty"`
	SeparationPapers []Attachment `json:"separation_papers,omitempty"`

	// ReminderStatus is in-memory only; set to StatusEmailSent once a reminder went out this cycle.
	ReminderStatus string `json:"reminder_status,omitempty"`
}

// HasName reports whether the row carries a non-empty employee name.
func (r Row) HasName() bool {
	return strings.TrimSpace(r.EmployeeName) != ""
}

// DisplayLeaderName returns the leader name or DefaultLeaderName.
func (r Row) DisplayLeaderName() string {
	if name := strings.TrimSpace(r.LeaderName); name != "" {
		return name
	}
	return DefaultLeaderName
}

// IsActive reports whether the row is eligible for evaluation reminders.
func (r Row) IsActive() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), "active")
}

// IsSeparated reports whether the row is eligible for separation notices.
// "seperated" is a misspelling that exists in the source data.
func (r Row) IsSeparated() bool {
	switch strings.ToLower(strings.TrimSpace(r.Status)) {
	case "separated", "seperated", "terminated":
		return true
	}
	return false
}

// WithNames drops rows without an employee name.
func WithNames(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.HasName() {
			out = append(out, r)
		}
	}
	return out
}
