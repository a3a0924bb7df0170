package ingest

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/recrutment/hireai/services/audit-service/internal/domain"
)

type fakeStore struct {
	mu      sync.Mutex
	records []domain.AuditRecord
	err     error
}

func (f *fakeStore) Insert(_ context.Context, rec *domain.AuditRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, *rec)
	return nil
}

func (f *fakeStore) all() []domain.AuditRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.AuditRecord(nil), f.records...)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var ingestNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, store RecordStore) (*Service, *bytes.Buffer) {
	t.Helper()

	var logs bytes.Buffer
	svc := NewService(store, fixedClock{t: ingestNow}, zerolog.New(&logs))

	ids := []uuid.UUID{
		uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		uuid.MustParse("00000000-0000-0000-0000-000000000002"),
		uuid.MustParse("00000000-0000-0000-0000-000000000003"),
	}
	var n int
	svc.newID = func() uuid.UUID {
		id := ids[n%len(ids)]
		n++
		return id
	}
	return svc, &logs
}

func strp(s string) *string { return &s }
