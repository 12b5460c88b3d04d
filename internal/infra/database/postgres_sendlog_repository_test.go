package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"hr_evaluation_reminder/internal/domain/sendlog"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSendLogRepo(t *testing.T) (*PostgresSendLogRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresSendLogRepository(db), mock
}

var logDay = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestPostgresSendLogRepository_Exists(t *testing.T) {
	repo, mock := newSendLogRepo(t)
	key := sendlog.NewKey("Alice", "Bob@Co.com", "Probation Period Evaluation", logDay)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("Alice", "bob@co.com", "Probation Period Evaluation", "2024-01-01").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSendLogRepository_InsertIsIdempotent(t *testing.T) {
	repo, mock := newSendLogRepo(t)
	sentAt := logDay.Add(9 * time.Hour)
	entry := sendlog.NewEntry(sendlog.NewKey("Alice", "bob@co.com", "Probation Period Evaluation", logDay), sentAt)

	insert := regexp.QuoteMeta("INSERT INTO sent_emails") + ".*" + regexp.QuoteMeta("ON CONFLICT")
	mock.ExpectExec(insert).
		WithArgs("Alice", "bob@co.com", "Probation Period Evaluation", "2024-01-01", sentAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insert).
		WithArgs("Alice", "bob@co.com", "Probation Period Evaluation", "2024-01-01", sentAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err := repo.Insert(context.Background(), entry)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Insert(context.Background(), entry)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSendLogRepository_InsertError(t *testing.T) {
	repo, mock := newSendLogRepo(t)
	mock.ExpectExec("INSERT INTO sent_emails").WillReturnError(errors.New("connection reset"))

	_, err := repo.Insert(context.Background(), sendlog.NewEntry(sendlog.NewKey("A", "b@c.d", "t", logDay), logDay))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestPostgresSendLogRepository_PurgeOnOrBefore(t *testing.T) {
	repo, mock := newSendLogRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sent_emails WHERE sent_date <= $1::date")).
		WithArgs("2023-12-02").
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.PurgeOnOrBefore(context.Background(), logDay.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSendLogRepository_ListByDate(t *testing.T) {
	repo, mock := newSendLogRepo(t)
	late := logDay.Add(10 * time.Hour)
	early := logDay.Add(9 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("FROM sent_emails")).
		WithArgs("2024-01-01").
		WillReturnRows(sqlmock.NewRows([]string{"employee_name", "leader_email", "evaluation_type", "sent_at"}).
			AddRow("Carol", "bob@co.com", "Contract Renewal Evaluation", late).
			AddRow("Alice", "bob@co.com", "Probation Period Evaluation", early))

	entries, err := repo.ListByDate(context.Background(), logDay)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Carol", entries[0].EmployeeName)
	assert.Equal(t, "2024-01-01", entries[0].SentDate)
	assert.Equal(t, early, entries[1].SentAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
