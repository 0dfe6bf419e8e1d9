package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/donaciones-api/internal/domain/entity"
	"github.com/jhoicas/donaciones-api/internal/domain/repository"
)

var _ repository.RequestRepository = (*RequestRepo)(nil)

// RequestRepo implementación de RequestRepository sobre PostgreSQL (usable con pool o tx).
type RequestRepo struct {
	q Querier
}

// NewRequestRepository construye el adaptador de solicitudes. Pasar pool o tx (Querier).
func NewRequestRepository(q Querier) *RequestRepo {
	return &RequestRepo{q: q}
}

// Create persiste la cabecera de la solicitud.
func (r *RequestRepo) Create(request *entity.Request) error {
	query := `
		INSERT INTO requests (id, receptor_id, state, priority, motive, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		request.ID, request.ReceptorID, request.State, request.Priority, request.Motive, request.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// CreateDetail persiste una línea de detalle. position conserva el orden de la lista.
func (r *RequestRepo) CreateDetail(detail *entity.RequestDetail) error {
	query := `
		INSERT INTO request_details (id, request_id, product_id, quantity_requested, quantity_allocated, unit, position)
		VALUES ($1, $2, $3, $4, $5, $6,
		        (SELECT COALESCE(MAX(position), 0) + 1 FROM request_details WHERE request_id = $2))`
	_, err := r.q.Exec(context.Background(), query,
		detail.ID, detail.RequestID, detail.ProductID,
		detail.QuantityRequested, detail.QuantityAllocated, detail.Unit,
	)
	if err != nil {
		return fmt.Errorf("insert request detail: %w", err)
	}
	return nil
}

// GetByID obtiene la solicitud con sus detalles en orden de inserción.
func (r *RequestRepo) GetByID(id string) (*entity.Request, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene la solicitud bloqueando su fila (SELECT FOR UPDATE).
func (r *RequestRepo) GetForUpdate(id string) (*entity.Request, error) {
	return r.get(id, true)
}

func (r *RequestRepo) get(id string, forUpdate bool) (*entity.Request, error) {
	query := `
		SELECT id, receptor_id, state, priority, motive, submitted_at
		FROM requests WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var req entity.Request
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&req.ID, &req.ReceptorID, &req.State, &req.Priority, &req.Motive, &req.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	if err := r.loadDetails(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepo) loadDetails(req *entity.Request) error {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, request_id, product_id, quantity_requested, quantity_allocated, unit
		FROM request_details WHERE request_id = $1 ORDER BY position`, req.ID)
	if err != nil {
		return fmt.Errorf("get request details: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var det entity.RequestDetail
		if err := rows.Scan(&det.ID, &det.RequestID, &det.ProductID, &det.QuantityRequested, &det.QuantityAllocated, &det.Unit); err != nil {
			return fmt.Errorf("scan request detail: %w", err)
		}
		req.Details = append(req.Details, det)
	}
	return rows.Err()
}

// UpdateState cambia el estado solo si el actual es from.
func (r *RequestRepo) UpdateState(id, from, to string) (bool, error) {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE requests SET state = $3 WHERE id = $1 AND state = $2`,
		id, from, to,
	)
	if err != nil {
		return false, fmt.Errorf("update request state: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// AddAllocated incrementa cantidad_asignada del detalle, sin superar lo pedido.
func (r *RequestRepo) AddAllocated(detailID string, quantity decimal.Decimal) error {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE request_details
		SET quantity_allocated = quantity_allocated + $2
		WHERE id = $1 AND quantity_allocated + $2 <= quantity_requested`,
		detailID, quantity,
	)
	if err != nil {
		return fmt.Errorf("add allocated: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("add allocated: detalle %s superaría lo solicitado", detailID)
	}
	return nil
}

// ListByState devuelve solicitudes en un estado, urgentes primero y luego por fecha de envío.
func (r *RequestRepo) ListByState(state string) ([]*entity.Request, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, receptor_id, state, priority, motive, submitted_at
		FROM requests WHERE state = $1
		ORDER BY CASE priority
			WHEN 'urgente' THEN 0
			WHEN 'alta' THEN 1
			WHEN 'normal' THEN 2
			ELSE 3
		END, submitted_at`, state)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.Request
	for rows.Next() {
		var req entity.Request
		if err := rows.Scan(&req.ID, &req.ReceptorID, &req.State, &req.Priority, &req.Motive, &req.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		list = append(list, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, req := range list {
		if err := r.loadDetails(req); err != nil {
			return nil, err
		}
	}
	return list, nil
}
