package separation

import (
	"strings"
	"time"

	"hr_evaluation_reminder/internal/domain/employee"
	"hr_evaluation_reminder/internal/domain/evaluation"
)

// Separated is a separated employee with a resolved exit date.
type Separated struct {
	Row      employee.Row `json:"employee"`
	ExitDate time.Time    `json:"exit_date"`
	Vendor   Vendor       `json:"vendor"`
}

// VendorBatch is one outbound vendor email.
type VendorBatch struct {
	Vendor    Vendor      `json:"vendor"`
	Employees []Separated `json:"employees"`
}

// Plan is the result of selecting and grouping separated employees.
type Plan struct {
	Matched  []Separated    `json:"matched"`
	Batches  []*VendorBatch `json:"batches"`
	NoAction []Separated    `json:"no_action"`
	Unknown  []Separated    `json:"unknown_vendor"`
}

// Select returns separated rows whose exit date resolves and matches f, in source order.
func Select(rows []employee.Row, f Filter, loc *time.Location) []Separated {
	var out []Separated
	for _, r := range rows {
		if !r.HasName() || !r.IsSeparated() {
			continue
		}
		exit, ok := evaluation.ParseDate(r.ExitDate, loc)
		if !ok || !f.Match(exit) {
			continue
		}
		out = append(out, Separated{Row: r, ExitDate: exit})
	}
	return out
}

// BuildPlan selects matching rows and groups them by vendor (email, name).
func BuildPlan(rows []employee.Row, f Filter, dir *Directory, loc *time.Location) Plan {
	var plan Plan
	byVendor := make(map[Vendor]*VendorBatch)

	for _, s := range Select(rows, f, loc) {
		vendor, res := dir.Resolve(s.Row.ContractCompany)
		s.Vendor = vendor
		plan.Matched = append(plan.Matched, s)

		switch res {
		case ResolutionNoAction:
			plan.NoAction = append(plan.NoAction, s)
		case ResolutionUnknown:
			plan.Unknown = append(plan.Unknown, s)
		default:
			key := Vendor{Email: strings.ToLower(strings.TrimSpace(vendor.Email)), Name: vendor.Name}
			b, ok := byVendor[key]
			if !ok {
				b = &VendorBatch{Vendor: vendor}
				byVendor[key] = b
				plan.Batches = append(plan.Batches, b)
			}
			b.Employees = append(b.Employees, s)
		}
	}
	return plan
}
