package lark

import (
	"strconv"
	"strings"
	"unicode"

	"hr_evaluation_reminder/internal/domain/employee"
)

// Column aliases per row field. Headers are matched after normalizeHeader.
var (
	colEmployeeName     = []string{"Employee Name", "Name", "English Name"}
	colLeaderName       = []string{"Leader Name", "Direct Leader", "Leader"}
	colLeaderEmail      = []string{"Leader Email", "Leader Work Email", "Work Email"}
	colSecondLeader     = []string{"Second Leader Email", "2nd Leader Email", "Secondary Leader Email"}
	colStatus           = []string{"Employee Status", "Status"}
	colPosition         = []string{"Position", "Job Title"}
	colDepartment       = []string{"Department", "Dept"}
	colEmployeeCRM      = []string{"Employee CRM", "CRM"}
	colLeaderCRM        = []string{"Leader CRM"}
	colProbationDays    = []string{"Probation Remaining Days", "Probation Period Remaining Days", "Days Until Probation End"}
	colContractDays     = []string{"Contract Remaining Days", "Contract Renewal Remaining Days", "Days Until Contract End"}
	colExitDate         = []string{"Exit Date", "Last Working Day", "Separation Date"}
	colExitType         = []string{"Exit Type", "Separation Type"}
	colExitReason       = []string{"Exit Reason", "Reason for Leaving"}
	colContractCompany  = []string{"Contract Company", "Contracting Company"}
	colNationalID       = []string{"National ID", "ID Number"}
	colSeparationPapers = []string{"Separation Papers", "Separation Documents", "Clearance"}
	colReminderStatus   = []string{"Reminder Status"}
)

// normalizeHeader lower-cases a column name and drops everything but letters and digits.
func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type fieldSet map[string]any

func newFieldSet(raw map[string]any) fieldSet {
	fs := make(fieldSet, len(raw))
	for k, v := range raw {
		key := normalizeHeader(k)
		if _, taken := fs[key]; !taken {
			fs[key] = v
		}
	}
	return fs
}

func (fs fieldSet) value(aliases []string) (any, bool) {
	for _, a := range aliases {
		if v, ok := fs[normalizeHeader(a)]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (fs fieldSet) text(aliases []string) string {
	v, _ := fs.value(aliases)
	return strings.TrimSpace(textOf(v))
}

func (fs fieldSet) email(aliases []string) string {
	v, _ := fs.value(aliases)
	return strings.TrimSpace(emailOf(v))
}

// NormalizeRecord maps a Base record onto the fixed row contract.
func NormalizeRecord(rec Record) employee.Row {
	fs := newFieldSet(rec.Fields)

	row := employee.Row{
		EmployeeName:           fs.text(colEmployeeName),
		LeaderName:             fs.text(colLeaderName),
		LeaderEmail:            fs.email(colLeaderEmail),
		SecondLeaderEmail:      fs.email(colSecondLeader),
		Status:                 fs.text(colStatus),
		Position:               fs.text(colPosition),
		Department:             fs.text(colDepartment),
		EmployeeCRM:            fs.text(colEmployeeCRM),
		LeaderCRM:              fs.text(colLeaderCRM),
		ProbationRemainingDays: fs.text(colProbationDays),
		ContractRemainingDays:  fs.text(colContractDays),
		ExitDate:               fs.text(colExitDate),
		ExitType:               fs.text(colExitType),
		ExitReason:             fs.text(colExitReason),
		ContractCompany:        fs.text(colContractCompany),
		NationalID:             fs.text(colNationalID),
		ReminderStatus:         fs.text(colReminderStatus),
	}
	if row.LeaderEmail == "" {
		// A person-typed leader column carries the address itself.
		row.LeaderEmail = fs.email(colLeaderName)
	}
	if v, ok := fs.value(colSeparationPapers); ok {
		row.SeparationPapers = attachmentsOf(v)
	}
	return row
}

// NormalizeRecords keeps only rows with an employee name.
func NormalizeRecords(records []Record) []employee.Row {
	rows := make([]employee.Row, 0, len(records))
	for _, rec := range records {
		row := NormalizeRecord(rec)
		if row.HasName() {
			rows = append(rows, row)
		}
	}
	return rows
}

// textOf flattens the cell shapes the API returns: plain strings, numbers,
// rich-text segments, people, links, lookup wrappers and multi-selects.
func textOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := textOf(item); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 && isSegmentList(t) {
			return strings.Join(parts, "")
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		for _, k := range []string{"text", "name", "en_name", "value", "link"} {
			if inner, ok := t[k]; ok {
				if s := textOf(inner); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// isSegmentList reports whether a list is rich text, whose segments are concatenated rather than comma-joined.
func isSegmentList(items []any) bool {
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return false
		}
		if _, ok := m["type"]; !ok {
			return false
		}
		if _, ok := m["text"]; !ok {
			return false
		}
	}
	return true
}

// emailOf prefers an explicit email attribute (person cells, mailto links) over the display text.
func emailOf(v any) string {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s := emailOf(item); s != "" {
				return s
			}
		}
		return ""
	case map[string]any:
		if e, ok := t["email"].(string); ok && e != "" {
			return e
		}
		if link, ok := t["link"].(string); ok && strings.HasPrefix(link, "mailto:") {
			return strings.TrimPrefix(link, "mailto:")
		}
		if inner, ok := t["value"]; ok {
			return emailOf(inner)
		}
	}
	s := textOf(v)
	if strings.Contains(s, "@") {
		return s
	}
	if _, isMap := v.(map[string]any); isMap {
		return ""
	}
	return s
}

func attachmentsOf(v any) []employee.Attachment {
	list, ok := v.([]any)
	if !ok {
		if m, isMap := v.(map[string]any); isMap {
			if inner, ok := m["value"]; ok {
				return attachmentsOf(inner)
			}
		}
		return nil
	}

	var out []employee.Attachment
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		att := employee.Attachment{
			FileToken: stringField(m, "file_token"),
			Name:      stringField(m, "name"),
			URL:       stringField(m, "url"),
		}
		if att.URL == "" {
			att.URL = stringField(m, "tmp_url")
		}
		if size, ok := m["size"].(float64); ok {
			att.Size = int64(size)
		}
		if att.FileToken != "" || att.URL != "" {
			out = append(out, att)
		}
	}
	return out
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
