package evaluation

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr_evaluation_reminder/internal/domain/employee"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func activeRow(name string) employee.Row {
	return employee.Row{
		EmployeeName: name,
		LeaderName:   "Bob",
		LeaderEmail:  "bob@co.com",
		Status:       "Active",
		Department:   "CC",
	}
}

func TestClassify_WindowBoundaries(t *testing.T) {
	today := day(2024, 1, 1)
	for remaining := 0; remaining <= 40; remaining++ {
		row := activeRow("Alice")
		row.ContractRemainingDays = strconv.Itoa(remaining)

		ob, ok := Classify(row, today)
		if remaining >= 22 && remaining <= 29 {
			require.True(t, ok, "remaining=%d should be in window", remaining)
			assert.Equal(t, remaining-LeadDays, ob.DaysRemaining)
			assert.Equal(t, KindContractRenewal, ob.Kind)
			assert.Equal(t, today.AddDate(0, 0, remaining-LeadDays), ob.Deadline)
			assert.Equal(t, today.AddDate(0, 0, remaining), ob.EndDate)
		} else {
			assert.False(t, ok, "remaining=%d should be outside window", remaining)
		}
	}
}

func TestClassify_ProbationWinsTie(t *testing.T) {
	row := activeRow("Alice")
	row.ProbationRemainingDays = "29"
	row.ContractRemainingDays = "22"

	ob, ok := Classify(row, day(2024, 1, 1))
	require.True(t, ok)
	assert.Equal(t, KindProbation, ob.Kind)
	assert.Equal(t, 22, ob.DaysRemaining)
}

func TestClassify_FallsBackToContractWhenProbationOutOfWindow(t *testing.T) {
	row := activeRow("Alice")
	row.ProbationRemainingDays = "90"
	row.ContractRemainingDays = "25"

	ob, ok := Classify(row, day(2024, 1, 1))
	require.True(t, ok)
	assert.Equal(t, KindContractRenewal, ob.Kind)
}

func TestClassify_Skips(t *testing.T) {
	tests := []struct {
		name string
		row  employee.Row
	}{
		{"inactive", func() employee.Row { r := activeRow("Alice"); r.Status = "Separated"; r.ProbationRemainingDays = "27"; return r }()},
		{"blank name", func() employee.Row { r := activeRow("  "); r.ProbationRemainingDays = "27"; return r }()},
		{"non numeric", func() employee.Row { r := activeRow("Alice"); r.ProbationRemainingDays = "soon"; return r }()},
		{"missing days", activeRow("Alice")},
		{"negative", func() employee.Row { r := activeRow("Alice"); r.ContractRemainingDays = "3"; return r }()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Classify(tt.row, day(2024, 1, 1))
			assert.False(t, ok)
		})
	}
}

func TestClassify_StatusIsCaseInsensitive(t *testing.T) {
	row := activeRow("Alice")
	row.Status = " ACTIVE "
	row.ProbationRemainingDays = "27.0"

	_, ok := Classify(row, day(2024, 1, 1))
	assert.True(t, ok)
}

func TestClassify_AliceScenario(t *testing.T) {
	row := activeRow("Alice")
	row.ProbationRemainingDays = "27"
	row.LeaderName = ""

	ob, ok := Classify(row, day(2024, 1, 1))
	require.True(t, ok)
	assert.Equal(t, KindProbation, ob.Kind)
	assert.Equal(t, day(2024, 1, 21), ob.Deadline)
	assert.Equal(t, day(2024, 1, 28), ob.EndDate)
	assert.Equal(t, 20, ob.DaysRemaining)
	assert.Equal(t, employee.DefaultLeaderName, ob.LeaderName)
}
