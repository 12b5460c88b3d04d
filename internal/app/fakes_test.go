package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"hr_evaluation_reminder/internal/domain/employee"
	"hr_evaluation_reminder/internal/domain/evaluation"
	"hr_evaluation_reminder/internal/domain/mail"
	"hr_evaluation_reminder/internal/domain/sendlog"
	"hr_evaluation_reminder/internal/domain/separation"

	"github.com/sirupsen/logrus"
)

type fakeSource struct {
	rows []employee.Row
	err  error
}

func (f *fakeSource) FetchRows(context.Context) ([]employee.Row, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]employee.Row, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

type fakeSender struct {
	mu     sync.Mutex
	sent   []mail.Message
	failTo map[string]bool
}

func (f *fakeSender) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(msg.To) > 0 && f.failTo[msg.To[0]] {
		return errors.New("smtp: connection refused")
	}
	f.sent = append(f.sent, msg)
	return nil
}

type stubRenderer struct{}

func (stubRenderer) RenderReminder(b *evaluation.Batch) (string, string, error) {
	return "Reminder: " + b.Key.Kind.Label(), "<p>" + b.LeaderName + "</p>", nil
}

func (stubRenderer) RenderSeparation(b *separation.VendorBatch) (string, string, error) {
	return "Separated employees: " + b.Vendor.Name, "<p>notice</p>", nil
}

type memStore struct {
	mu        sync.Mutex
	entries   map[string]sendlog.Entry
	existsErr error
}

func newMemStore() *memStore { return &memStore{entries: make(map[string]sendlog.Entry)} }

func (m *memStore) Exists(_ context.Context, k sendlog.Key) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.entries[k.DateString()+"/"+k.ID()]
	return ok, nil
}

func (m *memStore) Insert(_ context.Context, e sendlog.Entry) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := e.DateString() + "/" + e.ID()
	if _, ok := m.entries[id]; ok {
		return false, nil
	}
	m.entries[id] = e
	return true, nil
}

func (m *memStore) PurgeOnOrBefore(context.Context, time.Time) (int64, error) { return 0, nil }

func (m *memStore) ListByDate(context.Context, time.Time) ([]sendlog.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sendlog.Entry
	for _, e := range m.entries {
		out = append(out, e)
	}
	return out, nil
}

type heldLock struct{}

func (heldLock) Acquire(context.Context) (bool, error) { return false, nil }
func (heldLock) Release(context.Context) error         { return nil }

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
