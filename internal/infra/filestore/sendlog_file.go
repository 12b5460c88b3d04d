// Package filestore keeps the send log in a local JSON file when no database is reachable.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"hr_evaluation_reminder/internal/domain/sendlog"
)

// fileData maps sent_date -> "employee|leader_email|evaluation_type" -> entry.
type fileData map[string]map[string]sendlog.Entry

// SendLogFile is a sendlog.Store backed by a JSON document.
// Writes replace the file atomically through a temp file in the same directory.
type SendLogFile struct {
	path string

	mu     sync.Mutex
	data   fileData
	loaded bool
}

func NewSendLogFile(path string) *SendLogFile {
	return &SendLogFile{path: path}
}

var _ sendlog.Store = (*SendLogFile)(nil)

func (s *SendLogFile) Exists(_ context.Context, key sendlog.Key) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return false, err
	}
	_, ok := s.data[key.DateString()][key.ID()]
	return ok, nil
}

func (s *SendLogFile) Insert(_ context.Context, entry sendlog.Entry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return false, err
	}

	day := entry.DateString()
	if _, ok := s.data[day][entry.ID()]; ok {
		return false, nil
	}
	if s.data[day] == nil {
		s.data[day] = make(map[string]sendlog.Entry)
	}
	s.data[day][entry.ID()] = entry
	if err := s.save(); err != nil {
		delete(s.data[day], entry.ID())
		return false, err
	}
	return true, nil
}

func (s *SendLogFile) PurgeOnOrBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return 0, err
	}

	limit := cutoff.Format(sendlog.DateLayout)
	var removed int64
	for day, entries := range s.data {
		// ISO dates order lexically.
		if day <= limit {
			removed += int64(len(entries))
			delete(s.data, day)
		}
	}
	if removed == 0 {
		return 0, nil
	}
	if err := s.save(); err != nil {
		s.loaded = false // force a reload so memory matches the file again
		return 0, err
	}
	return removed, nil
}

func (s *SendLogFile) ListByDate(_ context.Context, date time.Time) ([]sendlog.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return nil, err
	}

	day := s.data[date.Format(sendlog.DateLayout)]
	entries := make([]sendlog.Entry, 0, len(day))
	for _, e := range day {
		entries = append(entries, e)
	}
	SortNewestFirst(entries)
	return entries, nil
}

// load reads the file once; a missing file is an empty log.
func (s *SendLogFile) load() error {
	if s.loaded {
		return nil
	}
	data := make(fileData)
	raw, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("failed to read send log file: %w", err)
	case len(raw) > 0:
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("failed to decode send log file %s: %w", s.path, err)
		}
	}

	// Date is not serialized per entry; restore it from the day key.
	for day, entries := range data {
		d, err := time.Parse(sendlog.DateLayout, day)
		if err != nil {
			return fmt.Errorf("invalid date %q in send log file: %w", day, err)
		}
		for id, e := range entries {
			e.Date = d
			e.SentDate = day
			entries[id] = e
		}
	}
	s.data = data
	s.loaded = true
	return nil
}

func (s *SendLogFile) save() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode send log: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create send log temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write send log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write send log: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace send log file: %w", err)
	}
	return nil
}

// SortNewestFirst orders entries by send time, newest first.
func SortNewestFirst(entries []sendlog.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SentAt.After(entries[j].SentAt)
	})
}
