package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rlst8/rlst8/platform/go/tenant"
)

const VisitorLogsTable = "visitor_logs"

// Visitor log statuses. A log only ever moves from entered to exited.
const (
	VisitorStatusEntered = "entered"
	VisitorStatusExited  = "exited"
)

// VisitorLog is a gate entry record.
type VisitorLog struct {
	ID            uuid.UUID  `db:"id"`
	TenantID      uuid.UUID  `db:"tenant_id"`
	VisitorName   string     `db:"visitor_name"`
	VisitorPhone  *string    `db:"visitor_phone"`
	VisitingUnit  string     `db:"visiting_unit"`
	HostName      *string    `db:"host_name"`
	Purpose       *string    `db:"purpose"`
	VehiclePlate  *string    `db:"vehicle_plate"`
	Status        string     `db:"status"`
	EntryTime     time.Time  `db:"entry_time"`
	ExitTime      *time.Time `db:"exit_time"`
	LoggedByGuard *uuid.UUID `db:"logged_by_guard"`
	CreatedAt     time.Time  `db:"created_at"`
}

type VisitorStore struct {
	pool *pgxpool.Pool
}

func NewVisitorStore(pool *pgxpool.Pool) (*VisitorStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &VisitorStore{pool: pool}, nil
}

const visitorColumns = "id, tenant_id, visitor_name, visitor_phone, visiting_unit, host_name, purpose, vehicle_plate, status, entry_time, exit_time, logged_by_guard, created_at"

// List returns the scope's most recent visitor logs, newest entry first.
func (s *VisitorStore) List(ctx context.Context, scope tenant.Scope, limit int) ([]VisitorLog, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT `+visitorColumns+`
        FROM visitor_logs
        WHERE tenant_id = $1
        ORDER BY entry_time DESC
        LIMIT $2
    `, scope.TenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("list visitor logs: %w", err)
	}
	defer rows.Close()

	logs := make([]VisitorLog, 0)
	for rows.Next() {
		log, err := scanVisitorLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan visitor log: %w", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visitor logs: %w", err)
	}
	return logs, nil
}

type CreateVisitorLogParams struct {
	VisitorName  string
	VisitorPhone *string
	VisitingUnit string
	HostName     *string
	Purpose      *string
	VehiclePlate *string
}

// Insert records a new entry. The entry time is set server-side and the
// log is attributed to the guard in scope.
func (s *VisitorStore) Insert(ctx context.Context, scope tenant.Scope, params CreateVisitorLogParams) (VisitorLog, error) {
	row := s.pool.QueryRow(ctx, `
        INSERT INTO visitor_logs (tenant_id, visitor_name, visitor_phone, visiting_unit, host_name, purpose, vehicle_plate, status, entry_time, logged_by_guard)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), $9)
        RETURNING `+visitorColumns+`
    `, scope.TenantID, params.VisitorName, params.VisitorPhone, params.VisitingUnit,
		params.HostName, params.Purpose, params.VehiclePlate, VisitorStatusEntered, scope.UserID)

	log, err := scanVisitorLog(row)
	if err != nil {
		return VisitorLog{}, fmt.Errorf("insert visitor log: %w", err)
	}
	return log, nil
}

// MarkExit flips an entered log to exited and stamps the exit time. The
// status guard in the UPDATE makes the transition one-directional; a second
// exit for the same log returns ErrVisitorExited.
func (s *VisitorStore) MarkExit(ctx context.Context, scope tenant.Scope, id uuid.UUID) (VisitorLog, error) {
	row := s.pool.QueryRow(ctx, `
        UPDATE visitor_logs
        SET status = $3, exit_time = NOW()
        WHERE tenant_id = $1 AND id = $2 AND status = $4
        RETURNING `+visitorColumns+`
    `, scope.TenantID, id, VisitorStatusExited, VisitorStatusEntered)

	log, err := scanVisitorLog(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			exists, existsErr := s.exists(ctx, scope, id)
			if existsErr != nil {
				return VisitorLog{}, existsErr
			}
			if exists {
				return VisitorLog{}, ErrVisitorExited
			}
			return VisitorLog{}, ErrVisitorNotFound
		}
		return VisitorLog{}, fmt.Errorf("mark visitor exit: %w", err)
	}
	return log, nil
}

func (s *VisitorStore) exists(ctx context.Context, scope tenant.Scope, id uuid.UUID) (bool, error) {
	var found bool
	err := s.pool.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM visitor_logs WHERE tenant_id = $1 AND id = $2)
    `, scope.TenantID, id).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("check visitor log: %w", err)
	}
	return found, nil
}

func scanVisitorLog(row pgx.Row) (VisitorLog, error) {
	var v VisitorLog
	if err := row.Scan(&v.ID, &v.TenantID, &v.VisitorName, &v.VisitorPhone, &v.VisitingUnit,
		&v.HostName, &v.Purpose, &v.VehiclePlate, &v.Status, &v.EntryTime, &v.ExitTime,
		&v.LoggedByGuard, &v.CreatedAt); err != nil {
		return VisitorLog{}, err
	}
	return v, nil
}
