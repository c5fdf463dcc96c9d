package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rlst8/rlst8/platform/go/tenant"
)

const PaymentsTable = "payments"

// Payment statuses.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Payment is a rent or deposit payment against a tenancy. OccupantName,
// PropertyName and UnitNumber are joined in for list views.
type Payment struct {
	ID                   uuid.UUID  `db:"id"`
	TenantID             uuid.UUID  `db:"tenant_id"`
	TenancyID            uuid.UUID  `db:"tenancy_id"`
	Amount               float64    `db:"amount"`
	PaymentDate          *time.Time `db:"payment_date"`
	DueDate              *time.Time `db:"due_date"`
	Status               string     `db:"status"`
	PaymentMethod        *string    `db:"payment_method"`
	TransactionReference *string    `db:"transaction_reference"`
	Description          *string    `db:"description"`
	CreatedAt            time.Time  `db:"created_at"`
	OccupantName         string     `db:"occupant_name"`
	PropertyName         string     `db:"property_name"`
	UnitNumber           string     `db:"unit_number"`
}

type PaymentStore struct {
	pool *pgxpool.Pool
}

func NewPaymentStore(pool *pgxpool.Pool) (*PaymentStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &PaymentStore{pool: pool}, nil
}

const paymentSelect = `
        SELECT pay.id, pay.tenant_id, pay.tenancy_id, pay.amount, pay.payment_date, pay.due_date,
               pay.status, pay.payment_method, pay.transaction_reference, pay.description, pay.created_at,
               t.first_name || ' ' || t.last_name AS occupant_name,
               p.name AS property_name,
               t.unit_number
        FROM payments pay
        JOIN tenancies t ON t.id = pay.tenancy_id
        JOIN properties p ON p.id = t.property_id`

// List returns the scope's payments with occupant/property context, newest
// payment first. Dashboard revenue/overdue reductions run over these rows.
func (s *PaymentStore) List(ctx context.Context, scope tenant.Scope) ([]Payment, error) {
	rows, err := s.pool.Query(ctx, paymentSelect+`
        WHERE pay.tenant_id = $1
        ORDER BY pay.payment_date DESC NULLS LAST, pay.created_at DESC
    `, scope.TenantID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	return collectPayments(rows)
}

// Search finds payments whose transaction reference matches the term.
func (s *PaymentStore) Search(ctx context.Context, scope tenant.Scope, term string, limit int) ([]Payment, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"

	rows, err := s.pool.Query(ctx, paymentSelect+`
        WHERE pay.tenant_id = $1
          AND LOWER(COALESCE(pay.transaction_reference, '')) LIKE $2
        ORDER BY pay.payment_date DESC NULLS LAST
        LIMIT $3
    `, scope.TenantID, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search payments: %w", err)
	}
	defer rows.Close()

	return collectPayments(rows)
}

func collectPayments(rows pgx.Rows) ([]Payment, error) {
	payments := make([]Payment, 0)
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return payments, nil
}

func scanPayment(row pgx.Row) (Payment, error) {
	var p Payment
	if err := row.Scan(&p.ID, &p.TenantID, &p.TenancyID, &p.Amount, &p.PaymentDate, &p.DueDate,
		&p.Status, &p.PaymentMethod, &p.TransactionReference, &p.Description, &p.CreatedAt,
		&p.OccupantName, &p.PropertyName, &p.UnitNumber); err != nil {
		return Payment{}, err
	}
	return p, nil
}
