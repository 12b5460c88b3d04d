package lark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRecord_FieldShapes(t *testing.T) {
	rec := Record{Fields: map[string]any{
		"employee_name": []any{
			map[string]any{"type": "text", "text": "Alice "},
			map[string]any{"type": "text", "text": "Wong"},
		},
		"Leader Name":              []any{map[string]any{"id": "ou_1", "name": "Bob", "email": "bob@co.com"}},
		"Second Leader Email":      map[string]any{"text": "Amy", "link": "mailto:amy@co.com"},
		"EMPLOYEE STATUS":          "Active",
		"Department":               []any{"CC - Manila"},
		"Probation Remaining Days": 27.0,
		"Contract Remaining Days":  map[string]any{"type": 2, "value": []any{"45.5"}},
		"Exit Date":                1704067200000.0,
		"Separation Papers": []any{
			map[string]any{"file_token": "boxA", "name": "release.pdf", "size": 2048.0, "url": "https://x/boxA"},
			map[string]any{"name": "no-token"},
		},
	}}

	row := NormalizeRecord(rec)
	assert.Equal(t, "Alice Wong", row.EmployeeName)
	assert.Equal(t, "Bob", row.LeaderName)
	assert.Equal(t, "bob@co.com", row.LeaderEmail, "person column supplies the leader email")
	assert.Equal(t, "amy@co.com", row.SecondLeaderEmail)
	assert.Equal(t, "Active", row.Status)
	assert.Equal(t, "CC - Manila", row.Department)
	assert.Equal(t, "27", row.ProbationRemainingDays)
	assert.Equal(t, "45.5", row.ContractRemainingDays)
	assert.Equal(t, "1704067200000", row.ExitDate)
	require.Len(t, row.SeparationPapers, 1)
	assert.Equal(t, "boxA", row.SeparationPapers[0].FileToken)
	assert.Equal(t, int64(2048), row.SeparationPapers[0].Size)
}

func TestNormalizeRecord_ExplicitEmailWins(t *testing.T) {
	row := NormalizeRecord(Record{Fields: map[string]any{
		"Employee Name": "Carol",
		"Leader":        []any{map[string]any{"name": "Bob", "email": "bob@co.com"}},
		"Work Email":    "N/A",
	}})
	assert.Equal(t, "N/A", row.LeaderEmail, "placeholders pass through for the validator to reject")
}

func TestNormalizeRecords_DropsNamelessRows(t *testing.T) {
	rows := NormalizeRecords([]Record{
		{Fields: map[string]any{"Name": "Dan"}},
		{Fields: map[string]any{"Name": "   "}},
		{Fields: map[string]any{}},
	})
	require.Len(t, rows, 1)
	assert.Equal(t, "Dan", rows[0].EmployeeName)
}

func TestTextOf_MultiSelect(t *testing.T) {
	assert.Equal(t, "A, B", textOf([]any{"A", "B"}))
	assert.Equal(t, "", textOf(nil))
	assert.Equal(t, "true", textOf(true))
}
