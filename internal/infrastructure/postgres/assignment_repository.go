package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/donaciones-api/internal/domain/entity"
	"github.com/jhoicas/donaciones-api/internal/domain/repository"
)

var _ repository.AssignmentRepository = (*AssignmentRepo)(nil)

// AssignmentRepo implementación de AssignmentRepository sobre PostgreSQL (usable con pool o tx).
type AssignmentRepo struct {
	q Querier
}

// NewAssignmentRepository construye el adaptador de asignaciones. Pasar pool o tx (Querier).
func NewAssignmentRepository(q Querier) *AssignmentRepo {
	return &AssignmentRepo{q: q}
}

// Create persiste la cabecera de la asignación.
func (r *AssignmentRepo) Create(assignment *entity.Assignment) error {
	query := `
		INSERT INTO assignments (id, request_id, receptor_id, state, delivery_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		assignment.ID, assignment.RequestID, assignment.ReceptorID,
		assignment.State, assignment.DeliveryDate, assignment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

// CreateDetail persiste una línea comprometida. position conserva el orden de la lista.
func (r *AssignmentRepo) CreateDetail(detail *entity.AssignmentDetail) error {
	query := `
		INSERT INTO assignment_details (id, assignment_id, product_id, quantity, unit, lot_id, position)
		VALUES ($1, $2, $3, $4, $5, $6,
		        (SELECT COALESCE(MAX(position), 0) + 1 FROM assignment_details WHERE assignment_id = $2))`
	_, err := r.q.Exec(context.Background(), query,
		detail.ID, detail.AssignmentID, detail.ProductID, detail.Quantity, detail.Unit, detail.LotID,
	)
	if err != nil {
		return fmt.Errorf("insert assignment detail: %w", err)
	}
	return nil
}

// GetByID obtiene la asignación con sus detalles en orden de inserción.
func (r *AssignmentRepo) GetByID(id string) (*entity.Assignment, error) {
	query := `
		SELECT id, request_id, receptor_id, state, delivery_date, created_at
		FROM assignments WHERE id = $1`
	var a entity.Assignment
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&a.ID, &a.RequestID, &a.ReceptorID, &a.State, &a.DeliveryDate, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	if err := r.loadDetails(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssignmentRepo) loadDetails(a *entity.Assignment) error {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, assignment_id, product_id, quantity, unit, lot_id
		FROM assignment_details WHERE assignment_id = $1 ORDER BY position`, a.ID)
	if err != nil {
		return fmt.Errorf("get assignment details: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var det entity.AssignmentDetail
		if err := rows.Scan(&det.ID, &det.AssignmentID, &det.ProductID, &det.Quantity, &det.Unit, &det.LotID); err != nil {
			return fmt.Errorf("scan assignment detail: %w", err)
		}
		a.Details = append(a.Details, det)
	}
	return rows.Err()
}

// UpdateState cambia el estado solo si el actual es from; la fecha de entrega
// solo se escribe al pasar a entregada.
func (r *AssignmentRepo) UpdateState(id, from, to string, deliveryDate *time.Time) (bool, error) {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE assignments
		SET state = $3, delivery_date = COALESCE($4, delivery_date)
		WHERE id = $1 AND state = $2`,
		id, from, to, deliveryDate,
	)
	if err != nil {
		return false, fmt.Errorf("update assignment state: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// ListByState devuelve asignaciones en un estado, más recientes primero.
func (r *AssignmentRepo) ListByState(state string) ([]*entity.Assignment, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, request_id, receptor_id, state, delivery_date, created_at
		FROM assignments WHERE state = $1 ORDER BY created_at DESC`, state)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Assignment
	for rows.Next() {
		var a entity.Assignment
		if err := rows.Scan(&a.ID, &a.RequestID, &a.ReceptorID, &a.State, &a.DeliveryDate, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		list = append(list, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, a := range list {
		if err := r.loadDetails(a); err != nil {
			return nil, err
		}
	}
	return list, nil
}
