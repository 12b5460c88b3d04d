package mailer

import (
	"embed"
	"fmt"
	"strings"

	"hr_evaluation_reminder/internal/domain/evaluation"
	"hr_evaluation_reminder/internal/domain/separation"

	"github.com/osteele/liquid"
)

//go:embed templates/*.liquid
var templatesFS embed.FS

const dateLayout = "2006-01-02"

// FormLinks are the evaluation form URLs linked from reminder emails.
type FormLinks struct {
	Probation       string
	ContractRenewal string
}

func (f FormLinks) forKind(k evaluation.Kind) string {
	switch k {
	case evaluation.KindProbation:
		return f.Probation
	case evaluation.KindContractRenewal:
		return f.ContractRenewal
	}
	return ""
}

// Templates renders reminder and separation emails from the embedded Liquid templates.
type Templates struct {
	forms             FormLinks
	reminderSubject   *liquid.Template
	reminderBody      *liquid.Template
	separationSubject *liquid.Template
	separationBody    *liquid.Template
}

// NewTemplates parses the embedded templates once.
func NewTemplates(forms FormLinks) (*Templates, error) {
	engine := liquid.NewEngine()
	t := &Templates{forms: forms}

	for name, dst := range map[string]**liquid.Template{
		"reminder_subject":   &t.reminderSubject,
		"reminder_body":      &t.reminderBody,
		"separation_subject": &t.separationSubject,
		"separation_body":    &t.separationBody,
	} {
		src, err := templatesFS.ReadFile("templates/" + name + ".liquid")
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", name, err)
		}
		tpl, perr := engine.ParseString(string(src))
		if perr != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, perr)
		}
		*dst = tpl
	}
	return t, nil
}

// RenderReminder renders the email for one leader batch.
func (t *Templates) RenderReminder(b *evaluation.Batch) (string, string, error) {
	employees := make([]map[string]any, 0, b.Len())
	for _, o := range b.Obligations {
		employees = append(employees, map[string]any{
			"name":           o.EmployeeName,
			"position":       o.Position,
			"department":     o.Department,
			"crm":            o.EmployeeCRM,
			"end_date":       o.EndDate.Format(dateLayout),
			"deadline":       o.Deadline.Format(dateLayout),
			"days_remaining": o.DaysRemaining,
		})
	}
	bindings := liquid.Bindings{
		"leader_name": b.LeaderName,
		"kind_label":  b.Key.Kind.Label(),
		"department":  b.Key.Department,
		"count":       b.Len(),
		"employees":   employees,
		"form_url":    t.forms.forKind(b.Key.Kind),
	}
	return render(t.reminderSubject, t.reminderBody, bindings)
}

// RenderSeparation renders the notice for one vendor.
func (t *Templates) RenderSeparation(b *separation.VendorBatch) (string, string, error) {
	employees := make([]map[string]any, 0, len(b.Employees))
	for _, s := range b.Employees {
		employees = append(employees, map[string]any{
			"name":             s.Row.EmployeeName,
			"national_id":      s.Row.NationalID,
			"position":         s.Row.Position,
			"exit_date":        s.ExitDate.Format(dateLayout),
			"exit_type":        s.Row.ExitType,
			"exit_reason":      s.Row.ExitReason,
			"contract_company": s.Row.ContractCompany,
		})
	}
	bindings := liquid.Bindings{
		"vendor_name": b.Vendor.Name,
		"count":       len(b.Employees),
		"employees":   employees,
	}
	return render(t.separationSubject, t.separationBody, bindings)
}

func render(subjectTpl, bodyTpl *liquid.Template, bindings liquid.Bindings) (string, string, error) {
	subject, err := subjectTpl.RenderString(bindings)
	if err != nil {
		return "", "", fmt.Errorf("failed to render subject: %w", err)
	}
	body, err := bodyTpl.RenderString(bindings)
	if err != nil {
		return "", "", fmt.Errorf("failed to render body: %w", err)
	}
	return strings.TrimSpace(subject), body, nil
}
