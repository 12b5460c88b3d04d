package lark

import (
	"context"
	"sync"
	"time"

	"hr_evaluation_reminder/internal/domain/employee"

	"github.com/sirupsen/logrus"
)

// RowSource is the employee.Source backed by a Base table, memoizing the last fetch for ttl.
// Failed fetches are not cached.
type RowSource struct {
	client *Client
	ttl    time.Duration
	now    func() time.Time
	logger *logrus.Entry

	mu        sync.Mutex
	rows      []employee.Row
	fetchedAt time.Time
}

func NewRowSource(client *Client, ttl time.Duration, logger *logrus.Entry) *RowSource {
	return &RowSource{client: client, ttl: ttl, now: time.Now, logger: logger}
}

var _ employee.Source = (*RowSource)(nil)

// FetchRows returns a copy of the cached rows, refetching once the cache is older than ttl.
func (s *RowSource) FetchRows(ctx context.Context) ([]employee.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rows != nil && s.now().Sub(s.fetchedAt) < s.ttl {
		return copyRows(s.rows), nil
	}

	records, err := s.client.ListRecords(ctx)
	if err != nil {
		return nil, err
	}
	s.rows = NormalizeRecords(records)
	s.fetchedAt = s.now()
	s.logger.WithFields(logrus.Fields{
		"records": len(records),
		"rows":    len(s.rows),
	}).Debug("Fetched employee records from Lark")
	return copyRows(s.rows), nil
}

// Invalidate drops the cached rows so the next fetch hits the API.
func (s *RowSource) Invalidate() {
	s.mu.Lock()
	s.rows = nil
	s.mu.Unlock()
}

func copyRows(rows []employee.Row) []employee.Row {
	out := make([]employee.Row, len(rows))
	copy(out, rows)
	return out
}
