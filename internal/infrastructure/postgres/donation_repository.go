package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/donaciones-api/internal/domain/entity"
	"github.com/jhoicas/donaciones-api/internal/domain/repository"
)

var _ repository.DonationRepository = (*DonationRepo)(nil)

// DonationRepo implementación de DonationRepository sobre PostgreSQL (usable con pool o tx).
type DonationRepo struct {
	q Querier
}

// NewDonationRepository construye el adaptador de donaciones. Pasar pool o tx (Querier).
func NewDonationRepository(q Querier) *DonationRepo {
	return &DonationRepo{q: q}
}

// Create persiste la cabecera de la donación.
func (r *DonationRepo) Create(donation *entity.Donation) error {
	query := `
		INSERT INTO donations (id, donor_id, state, notes, submitted_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		donation.ID, donation.DonorID, donation.State, donation.Notes, donation.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert donation: %w", err)
	}
	return nil
}

// CreateDetail persiste una línea de detalle. position conserva el orden de la lista.
func (r *DonationRepo) CreateDetail(detail *entity.DonationDetail) error {
	query := `
		INSERT INTO donation_details (id, donation_id, product_id, quantity, unit, expiration_date, notes, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
		        (SELECT COALESCE(MAX(position), 0) + 1 FROM donation_details WHERE donation_id = $2))`
	_, err := r.q.Exec(context.Background(), query,
		detail.ID, detail.DonationID, detail.ProductID, detail.Quantity,
		detail.Unit, detail.ExpirationDate, detail.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert donation detail: %w", err)
	}
	return nil
}

// GetByID obtiene la donación con sus detalles en orden de inserción.
func (r *DonationRepo) GetByID(id string) (*entity.Donation, error) {
	query := `
		SELECT id, donor_id, state, notes, submitted_at
		FROM donations WHERE id = $1`
	var d entity.Donation
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&d.ID, &d.DonorID, &d.State, &d.Notes, &d.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get donation: %w", err)
	}

	rows, err := r.q.Query(context.Background(), `
		SELECT id, donation_id, product_id, quantity, unit, expiration_date, notes
		FROM donation_details WHERE donation_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get donation details: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var det entity.DonationDetail
		if err := rows.Scan(&det.ID, &det.DonationID, &det.ProductID, &det.Quantity, &det.Unit, &det.ExpirationDate, &det.Notes); err != nil {
			return nil, fmt.Errorf("scan donation detail: %w", err)
		}
		d.Details = append(d.Details, det)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateState cambia el estado solo si el actual es from. Devuelve false si
// ninguna fila coincidió (la donación cambió concurrentemente).
func (r *DonationRepo) UpdateState(id, from, to string) (bool, error) {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE donations SET state = $3 WHERE id = $1 AND state = $2`,
		id, from, to,
	)
	if err != nil {
		return false, fmt.Errorf("update donation state: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
