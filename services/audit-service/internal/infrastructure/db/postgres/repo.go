package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/recrutment/hireai/services/audit-service/internal/domain"
)

// Repo stores audit records. It exposes insert and read operations only.
type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// EnsureSchema applies the audit_logs DDL. Safe to run on every start.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

func (r *Repo) Insert(ctx context.Context, rec *domain.AuditRecord) error {
	_, err := r.db.ExecContext(ctx, insertRecordSQL,
		rec.ID, rec.EventID, rec.EventType, rec.OccurredAt, rec.Producer,
		rec.ActorUserID, rec.ActorRoles, rec.TargetType, rec.TargetID, rec.Reason,
		rec.Changes, rec.Payload, rec.CorrelationID, rec.CreatedAt,
	)
	return err
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.AuditRecord, error) {
	row := r.db.QueryRowContext(ctx, selectRecordSQL+` WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AuditRecord{}, domain.ErrNotFound("audit record not found")
	}
	if err != nil {
		return domain.AuditRecord{}, err
	}
	return rec, nil
}

// List returns records newest first.
func (r *Repo) List(ctx context.Context, f domain.RecordFilter) ([]domain.AuditRecord, error) {
	var (
		conds []string
		args  []any
	)
	add := func(col, val string) {
		if val == "" {
			return
		}
		args = append(args, val)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	add("target_type", f.TargetType)
	add("target_id", f.TargetID)
	add("event_type", f.EventType)
	add("actor_user_id", f.ActorID)

	q := selectRecordSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, f.Limit)
	q += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.AuditRecord, 0, f.Limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (domain.AuditRecord, error) {
	var (
		rec                           domain.AuditRecord
		roles, tType, tID, reason     sql.NullString
		changes, payload, correlation sql.NullString
	)
	err := s.Scan(
		&rec.ID, &rec.EventID, &rec.EventType, &rec.OccurredAt, &rec.Producer,
		&rec.ActorUserID, &roles, &tType, &tID, &reason,
		&changes, &payload, &correlation, &rec.CreatedAt,
	)
	if err != nil {
		return domain.AuditRecord{}, err
	}
	rec.ActorRoles = nullable(roles)
	rec.TargetType = nullable(tType)
	rec.TargetID = nullable(tID)
	rec.Reason = nullable(reason)
	rec.Changes = nullable(changes)
	rec.Payload = nullable(payload)
	rec.CorrelationID = nullable(correlation)
	return rec, nil
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
