package evaluation

// Kind identifies which evaluation a leader owes for an employee.
// The string value is what the send log stores as evaluation_type.
type Kind string

const (
	KindProbation       Kind = "Probation Period Evaluation"
	KindContractRenewal Kind = "Contract Renewal Evaluation"
)

// Label is the short name used in summaries and subjects.
func (k Kind) Label() string {
	switch k {
	case KindProbation:
		return "Probation Period"
	case KindContractRenewal:
		return "Contract Renewal"
	default:
		return string(k)
	}
}

func (k Kind) IsValid() bool {
	switch k {
	case KindProbation, KindContractRenewal:
		return true
	}
	return false
}

const (
	// LeadDays is how many days before the period end the evaluation is due.
	LeadDays = 7
	// WindowMinDays and WindowMaxDays bound the trigger band on evaluation days remaining.
	WindowMinDays = 15
	WindowMaxDays = 22
)
