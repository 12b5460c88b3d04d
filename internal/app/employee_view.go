package app

import (
	"context"

	"hr_evaluation_reminder/internal/domain/employee"
	"hr_evaluation_reminder/internal/domain/evaluation"
)

// EmployeeView is a normalized row with its parsed day counts and current obligation, for inspection.
type EmployeeView struct {
	employee.Row
	ProbationDays *int                   `json:"probation_days"`
	ContractDays  *int                   `json:"contract_days"`
	ValidEmail    bool                   `json:"leader_email_valid"`
	Obligation    *evaluation.Obligation `json:"obligation,omitempty"`
}

// Employees returns every named row as it would be seen by the classifier today.
func (s *ReminderService) Employees(ctx context.Context) ([]EmployeeView, error) {
	rows, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	today := s.sendLog.Today()

	views := make([]EmployeeView, 0, len(rows))
	for _, r := range employee.WithNames(rows) {
		v := EmployeeView{Row: r, ValidEmail: evaluation.IsValidLeaderEmail(r.LeaderEmail)}
		if d, ok := evaluation.ParseDays(r.ProbationRemainingDays); ok {
			v.ProbationDays = &d
		}
		if d, ok := evaluation.ParseDays(r.ContractRemainingDays); ok {
			v.ContractDays = &d
		}
		if ob, ok := evaluation.Classify(r, today); ok {
			v.Obligation = &ob
		}
		views = append(views, v)
	}
	return views, nil
}
