package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rlst8/rlst8/platform/go/tenant"
)

const ParkingSlotsTable = "parking_slots"

// ParkingSlot is a numbered slot, optionally assigned to a unit.
type ParkingSlot struct {
	ID           uuid.UUID `db:"id"`
	TenantID     uuid.UUID `db:"tenant_id"`
	SlotNumber   string    `db:"slot_number"`
	SlotType     *string   `db:"slot_type"`
	AssignedUnit *string   `db:"assigned_unit"`
	VehiclePlate *string   `db:"vehicle_plate"`
	IsOccupied   bool      `db:"is_occupied"`
	CreatedAt    time.Time `db:"created_at"`
}

type ParkingStore struct {
	pool *pgxpool.Pool
}

func NewParkingStore(pool *pgxpool.Pool) (*ParkingStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &ParkingStore{pool: pool}, nil
}

// List returns the scope's parking slots ordered by slot number.
func (s *ParkingStore) List(ctx context.Context, scope tenant.Scope) ([]ParkingSlot, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT id, tenant_id, slot_number, slot_type, assigned_unit, vehicle_plate, is_occupied, created_at
        FROM parking_slots
        WHERE tenant_id = $1
        ORDER BY slot_number ASC
    `, scope.TenantID)
	if err != nil {
		return nil, fmt.Errorf("list parking slots: %w", err)
	}
	defer rows.Close()

	slots := make([]ParkingSlot, 0)
	for rows.Next() {
		var slot ParkingSlot
		if err := rows.Scan(&slot.ID, &slot.TenantID, &slot.SlotNumber, &slot.SlotType,
			&slot.AssignedUnit, &slot.VehiclePlate, &slot.IsOccupied, &slot.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan parking slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parking slots: %w", err)
	}
	return slots, nil
}
