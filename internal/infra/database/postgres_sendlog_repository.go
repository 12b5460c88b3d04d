// internal/infra/database/postgres_sendlog_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hr_evaluation_reminder/internal/domain/sendlog"
)

// PostgresSendLogRepository stores delivered reminders in sent_emails.
// The table's unique constraint makes Insert idempotent per (employee, leader email, type, date).
type PostgresSendLogRepository struct {
	db *sql.DB
}

func NewPostgresSendLogRepository(db *sql.DB) *PostgresSendLogRepository {
	return &PostgresSendLogRepository{db: db}
}

var _ sendlog.Store = (*PostgresSendLogRepository)(nil)

func (r *PostgresSendLogRepository) Exists(ctx context.Context, key sendlog.Key) (bool, error) {
	query := `SELECT EXISTS (
                SELECT 1 FROM sent_emails
                WHERE employee_name = $1 AND leader_email = $2 AND evaluation_type = $3 AND sent_date = $4::date
              )`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, key.EmployeeName, key.LeaderEmail, key.EvaluationType, key.DateString()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking sent email: %w", err)
	}
	return exists, nil
}

func (r *PostgresSendLogRepository) Insert(ctx context.Context, entry sendlog.Entry) (bool, error) {
	query := `INSERT INTO sent_emails (employee_name, leader_email, evaluation_type, sent_date, sent_at)
              VALUES ($1, $2, $3, $4::date, $5)
              ON CONFLICT (employee_name, leader_email, evaluation_type, sent_date) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, entry.EmployeeName, entry.LeaderEmail, entry.EvaluationType, entry.DateString(), entry.SentAt)
	if err != nil {
		return false, fmt.Errorf("error recording sent email: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading affected rows: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresSendLogRepository) PurgeOnOrBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sent_emails WHERE sent_date <= $1::date`, cutoff.Format(sendlog.DateLayout))
	if err != nil {
		return 0, fmt.Errorf("error purging sent emails: %w", err)
	}
	return res.RowsAffected()
}

func (r *PostgresSendLogRepository) ListByDate(ctx context.Context, date time.Time) ([]sendlog.Entry, error) {
	query := `SELECT employee_name, leader_email, evaluation_type, sent_at
              FROM sent_emails
              WHERE sent_date = $1::date
              ORDER BY sent_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, date.Format(sendlog.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("error listing sent emails: %w", err)
	}
	defer rows.Close()

	var entries []sendlog.Entry
	for rows.Next() {
		var employeeName, leaderEmail, evaluationType string
		var sentAt time.Time
		if err := rows.Scan(&employeeName, &leaderEmail, &evaluationType, &sentAt); err != nil {
			return nil, fmt.Errorf("error scanning sent email: %w", err)
		}
		key := sendlog.NewKey(employeeName, leaderEmail, evaluationType, date)
		entries = append(entries, sendlog.NewEntry(key, sentAt))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sent emails: %w", err)
	}
	return entries, nil
}
