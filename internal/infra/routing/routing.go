// Package routing loads who gets copied on reminders and which vendor handles which contract company.
package routing

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"hr_evaluation_reminder/internal/domain/evaluation"
	"hr_evaluation_reminder/internal/domain/separation"

	"gopkg.in/yaml.v3"
)

const DefaultHRAddress = "hr@51talk.com"

// Table is the routing configuration. The zero value is not useful; start from Default or Load.
type Table struct {
	HRAddress    string              `yaml:"hr_address"`
	Departments  map[string][]string `yaml:"departments"`
	Vendors      []separation.Rule   `yaml:"vendors"`
	SeparationCC []string            `yaml:"separation_cc"`
}

// Default returns the built-in routing used when no file is configured.
func Default() *Table {
	return &Table{
		HRAddress: DefaultHRAddress,
		Departments: map[string][]string{
			"CC": {"wuchuan@51talk.com"},
		},
		Vendors: []separation.Rule{
			// Direct hires have no outsourcing vendor to notify.
			{Contains: []string{"51talk"}, Vendor: separation.Vendor{Name: "51Talk"}},
		},
	}
}

// Load reads a YAML routing file and layers it over Default.
// File departments override defaults per code; file vendor rules are tried before the defaults.
// An empty path returns Default.
func Load(path string) (*Table, error) {
	t := Default()
	if path == "" {
		return t, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("routing file %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read routing file: %w", err)
	}

	var file Table
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse routing file %s: %w", path, err)
	}
	if err := file.validate(); err != nil {
		return nil, fmt.Errorf("invalid routing file %s: %w", path, err)
	}

	if file.HRAddress != "" {
		t.HRAddress = strings.TrimSpace(file.HRAddress)
	}
	for code, addrs := range file.Departments {
		t.Departments[strings.ToUpper(strings.TrimSpace(code))] = addrs
	}
	t.Vendors = append(file.Vendors, t.Vendors...)
	t.SeparationCC = file.SeparationCC
	return t, nil
}

func (t *Table) validate() error {
	for i, r := range t.Vendors {
		if len(r.Contains) == 0 {
			return fmt.Errorf("vendor rule %d has no contains patterns", i+1)
		}
		if r.Name == "" {
			return fmt.Errorf("vendor rule %d has no name", i+1)
		}
		if r.Email != "" && !strings.Contains(r.Email, "@") {
			return fmt.Errorf("vendor rule %d (%s) has invalid email %q", i+1, r.Name, r.Email)
		}
	}
	return nil
}

// CCRouter builds the department CC router, adding the caller's extra CC list.
func (t *Table) CCRouter(extraCC string) *evaluation.CCRouter {
	return evaluation.NewCCRouter(t.HRAddress, t.Departments, extraCC)
}

// Directory builds the vendor directory from the rules in order.
func (t *Table) Directory() *separation.Directory {
	return separation.NewDirectory(t.Vendors)
}

// SeparationRecipients are copied on vendor notices; the HR address when none are configured.
func (t *Table) SeparationRecipients() []string {
	if len(t.SeparationCC) > 0 {
		return t.SeparationCC
	}
	return []string{t.HRAddress}
}
