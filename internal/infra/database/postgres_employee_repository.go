// internal/infra/database/postgres_employee_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"hr_evaluation_reminder/internal/domain/employee"

	"github.com/lib/pq" // For pq.Array
)

// PostgresEmployeeRepository keeps the employees table as a snapshot of the last fetched rows.
type PostgresEmployeeRepository struct {
	db *sql.DB
}

func NewPostgresEmployeeRepository(db *sql.DB) *PostgresEmployeeRepository {
	return &PostgresEmployeeRepository{db: db}
}

var _ employee.SnapshotRepository = (*PostgresEmployeeRepository)(nil)

// ReplaceAll swaps the snapshot in one transaction; readers never see a partial table.
func (r *PostgresEmployeeRepository) ReplaceAll(ctx context.Context, rows []employee.Row) error {
	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for employee snapshot: %w", err)
	}
	defer txn.Rollback() // Rollback if not committed

	if _, err := txn.ExecContext(ctx, `DELETE FROM employees`); err != nil {
		return fmt.Errorf("failed to clear employee snapshot: %w", err)
	}

	stmt, err := txn.PrepareContext(ctx, `INSERT INTO employees (employee_name, leader_name, leader_email, second_leader_email, status,
                                            position, department, employee_crm, leader_crm, probation_remaining_days,
                                            contract_remaining_days, exit_date, exit_type, contract_company, separation_papers)
                                          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for employee snapshot: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		papers := make([]string, 0, len(row.SeparationPapers))
		for _, a := range row.SeparationPapers {
			papers = append(papers, a.Name)
		}
		_, err := stmt.ExecContext(ctx, row.EmployeeName, row.LeaderName, row.LeaderEmail, row.SecondLeaderEmail, row.Status,
			row.Position, row.Department, row.EmployeeCRM, row.LeaderCRM, row.ProbationRemainingDays,
			row.ContractRemainingDays, row.ExitDate, row.ExitType, row.ContractCompany, pq.Array(papers))
		if err != nil {
			return fmt.Errorf("error inserting employee snapshot row (%s): %w", row.EmployeeName, err)
		}
	}

	return txn.Commit()
}
