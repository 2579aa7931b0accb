package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/salones-api/internal/domain/entity"
	"github.com/jhoicas/salones-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MaxMovementsPage límite de filas por consulta del libro.
const MaxMovementsPage = 100

// MovementRepo libro de movimientos. Solo INSERT y SELECT: ninguna ruta de código lo modifica.
type MovementRepo struct {
	q Querier
}

func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append inserta el movimiento y completa ID, TransactionID y CreatedAt.
func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) error {
	if m.TransactionID == "" {
		m.TransactionID = uuid.New().String()
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO inventory_movements
			(transaction_id, item_id, kind, origin, destination, quantity, reason, contract_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		RETURNING id, created_at`,
		m.TransactionID, m.ItemID, m.Kind, m.Origin, m.Destination, m.Quantity, m.Reason, m.ContractID, m.UserID,
	).Scan(&m.ID, &m.CreatedAt)
	return classify("insert inventory_movement", err)
}

// List más recientes primero; Limit se acota a MaxMovementsPage.
func (r *MovementRepo) List(ctx context.Context, f entity.MovementFilter) ([]*entity.Movement, error) {
	query := `
		SELECT id, transaction_id, item_id, kind, origin, destination, quantity, reason, contract_id, user_id, created_at
		FROM inventory_movements WHERE 1=1`
	var args []any
	pos := 1
	if f.ItemID != nil {
		query += fmt.Sprintf(" AND item_id = $%d", pos)
		args = append(args, *f.ItemID)
		pos++
	}
	if f.Kind != "" {
		query += fmt.Sprintf(" AND kind = $%d", pos)
		args = append(args, f.Kind)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	limit := f.Limit
	if limit <= 0 || limit > MaxMovementsPage {
		limit = MaxMovementsPage
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", pos)
	args = append(args, limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify("list inventory_movements", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.ItemID, &m.Kind, &m.Origin, &m.Destination,
			&m.Quantity, &m.Reason, &m.ContractID, &m.UserID, &m.CreatedAt); err != nil {
			return nil, classify("scan inventory_movement", err)
		}
		list = append(list, &m)
	}
	return list, classify("list inventory_movements", rows.Err())
}
