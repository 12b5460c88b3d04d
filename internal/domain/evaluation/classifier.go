package evaluation

import (
	"strings"
	"time"

	"hr_evaluation_reminder/internal/domain/employee"
)

// window is one deadline source evaluated against today.
type window struct {
	kind          Kind
	daysRemaining int
	remaining     int
}

func evaluateSource(kind Kind, raw string) (window, bool) {
	remaining, ok := ParseDays(raw)
	if !ok {
		return window{}, false
	}
	if !InWindow(remaining) {
		return window{}, false
	}
	return window{kind: kind, daysRemaining: remaining - LeadDays, remaining: remaining}, true
}

// InWindow reports whether a remaining-days value puts the evaluation inside the trigger band.
func InWindow(remainingDays int) bool {
	evalDays := remainingDays - LeadDays
	return evalDays >= WindowMinDays && evalDays <= WindowMaxDays
}

// Classify turns a row into at most one obligation. Probation wins when both
// sources are in the window. today must be a local calendar date (see DateOf).
func Classify(row employee.Row, today time.Time) (Obligation, bool) {
	if !row.HasName() || !row.IsActive() {
		return Obligation{}, false
	}

	w, ok := evaluateSource(KindProbation, row.ProbationRemainingDays)
	if !ok {
		w, ok = evaluateSource(KindContractRenewal, row.ContractRemainingDays)
	}
	if !ok {
		return Obligation{}, false
	}

	today = DateOf(today)
	return Obligation{
		EmployeeName:      strings.TrimSpace(row.EmployeeName),
		EmployeeCRM:       row.EmployeeCRM,
		Position:          row.Position,
		Department:        strings.TrimSpace(row.Department),
		LeaderName:        row.DisplayLeaderName(),
		LeaderEmail:       strings.TrimSpace(row.LeaderEmail),
		SecondLeaderEmail: strings.TrimSpace(row.SecondLeaderEmail),
		Kind:              w.kind,
		Deadline:          today.AddDate(0, 0, w.daysRemaining),
		DaysRemaining:     w.daysRemaining,
		EndDate:           today.AddDate(0, 0, w.remaining),
	}, true
}
