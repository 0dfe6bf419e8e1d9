package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/donaciones-api/internal/domain"
	"github.com/jhoicas/donaciones-api/internal/domain/entity"
	"github.com/jhoicas/donaciones-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación de LotRepository sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// Create persiste un lote nuevo (estado disponible).
func (r *LotRepo) Create(lot *entity.Lot) error {
	query := `
		INSERT INTO lots (id, product_id, quantity, expiration_date, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.ProductID, lot.Quantity, lot.ExpirationDate, lot.State, lot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *LotRepo) GetByID(id string) (*entity.Lot, error) {
	query := `
		SELECT id, product_id, quantity, expiration_date, state, created_at
		FROM lots WHERE id = $1`
	var l entity.Lot
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&l.ID, &l.ProductID, &l.Quantity, &l.ExpirationDate, &l.State, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return &l, nil
}

// MarkAssigned transiciona el lote disponible → asignada.
func (r *LotRepo) MarkAssigned(id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE lots SET state = $2 WHERE id = $1 AND state = $3`,
		id, entity.LotStateAssigned, entity.LotStateAvailable,
	)
	if err != nil {
		return fmt.Errorf("mark lot assigned: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// ListExpiring devuelve lotes disponibles cuyo vencimiento cae dentro de withinDays días.
func (r *LotRepo) ListExpiring(withinDays int) ([]*entity.Lot, error) {
	query := `
		SELECT id, product_id, quantity, expiration_date, state, created_at
		FROM lots
		WHERE state = $1
		  AND expiration_date IS NOT NULL
		  AND expiration_date <= now() + make_interval(days => $2)
		ORDER BY expiration_date`
	rows, err := r.q.Query(context.Background(), query, entity.LotStateAvailable, withinDays)
	if err != nil {
		return nil, fmt.Errorf("list expiring lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lot
	for rows.Next() {
		var l entity.Lot
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Quantity, &l.ExpirationDate, &l.State, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
