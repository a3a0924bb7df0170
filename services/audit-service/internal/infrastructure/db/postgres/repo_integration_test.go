//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/recrutment/hireai/services/audit-service/internal/domain"
)

func startPostgres(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:17",
		tcpostgres.WithDatabase("audit"),
		tcpostgres.WithUsername("audit"),
		tcpostgres.WithPassword("audit"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := ctr.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRepo_Integration_AppendOnly(t *testing.T) {
	db := startPostgres(t)
	repo := New(db)
	ctx := context.Background()

	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx), "schema is idempotent")

	changes := `{"oldRoles":["CANDIDATE"],"newRoles":["CANDIDATE","RECRUITER"]}`
	target := "USER"
	targetID := "user-uuid"
	now := time.Now().UTC().Truncate(time.Microsecond)

	eventID := uuid.New()
	for i := 0; i < 2; i++ {
		rec := &domain.AuditRecord{
			ID:          uuid.New(),
			EventID:     eventID,
			EventType:   "ROLE_UPDATE",
			OccurredAt:  now,
			Producer:    "gatewayserver",
			ActorUserID: "admin-uuid",
			TargetType:  &target,
			TargetID:    &targetID,
			Changes:     &changes,
			CreatedAt:   now.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Insert(ctx, rec), "duplicate event ids are stored")
	}

	out, err := repo.List(ctx, domain.RecordFilter{TargetType: "USER", TargetID: "user-uuid", Limit: 10})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, eventID, out[0].EventID)
	require.NotNil(t, out[0].Changes)
	assert.JSONEq(t, changes, *out[0].Changes)

	_, err = db.ExecContext(ctx, `UPDATE audit_logs SET reason = 'x'`)
	assert.Error(t, err, "updates are rejected")
	_, err = db.ExecContext(ctx, `DELETE FROM audit_logs`)
	assert.Error(t, err, "deletes are rejected")
}

func TestRepo_Integration_FreeFormFields(t *testing.T) {
	db := startPostgres(t)
	repo := New(db)
	ctx := context.Background()
	require.NoError(t, repo.EnsureSchema(ctx))

	longType := strings.Repeat("X", 300)
	changes := `{"note":{"old":"a\u0000b","new":"c"},"budget":{"old":9007199254740993,"new":1}}`
	target := strings.Repeat("T", 80)
	rec := &domain.AuditRecord{
		ID:          uuid.New(),
		EventID:     uuid.New(),
		EventType:   longType,
		OccurredAt:  time.Now().UTC(),
		Producer:    strings.Repeat("p", 200),
		ActorUserID: strings.Repeat("a", 200),
		TargetType:  &target,
		Changes:     &changes,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.Insert(ctx, rec))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, longType, got.EventType)
	require.NotNil(t, got.Changes)
	assert.Equal(t, changes, *got.Changes, "changes are stored byte for byte")
}
