package separation

import "strings"

// Vendor is the outsourcing company contact that handles contract paperwork.
type Vendor struct {
	Email string `json:"email" yaml:"email"`
	Name  string `json:"name" yaml:"name"`
}

// UnknownVendor is reported for contract companies no rule recognizes.
var UnknownVendor = Vendor{Name: "Unknown Vendor"}

// Resolution is the outcome of mapping a contract company to a vendor.
type Resolution int

const (
	ResolutionVendor Resolution = iota
	// ResolutionNoAction means the company needs no vendor notice (e.g. direct hires).
	ResolutionNoAction
	ResolutionUnknown
)

// Rule maps contract companies containing any of Contains (case-insensitive) to a vendor.
// A rule with an empty Email resolves to ResolutionNoAction.
type Rule struct {
	Contains []string `yaml:"contains"`
	Vendor   `yaml:",inline"`
}

// Directory resolves contract companies with ordered rules; the first match wins.
type Directory struct {
	rules []Rule
}

func NewDirectory(rules []Rule) *Directory {
	return &Directory{rules: rules}
}

// Resolve maps a free-text contract company to its vendor.
func (d *Directory) Resolve(contractCompany string) (Vendor, Resolution) {
	company := strings.ToLower(strings.TrimSpace(contractCompany))
	if company == "" {
		return UnknownVendor, ResolutionUnknown
	}
	for _, r := range d.rules {
		for _, needle := range r.Contains {
			needle = strings.ToLower(strings.TrimSpace(needle))
			if needle == "" || !strings.Contains(company, needle) {
				continue
			}
			if strings.TrimSpace(r.Email) == "" {
				return Vendor{Name: r.Name}, ResolutionNoAction
			}
			return r.Vendor, ResolutionVendor
		}
	}
	return UnknownVendor, ResolutionUnknown
}
