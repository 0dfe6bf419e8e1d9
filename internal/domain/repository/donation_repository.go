package repository

import "github.com/jhoicas/donaciones-api/internal/domain/entity"

// DonationRepository define el puerto de persistencia para donaciones.
type DonationRepository interface {
	Create(donation *entity.Donation) error
	CreateDetail(detail *entity.DonationDetail) error
	// GetByID devuelve la donación con sus detalles en orden de inserción.
	GetByID(id string) (*entity.Donation, error)
	// UpdateState cambia el estado solo si el actual es from (update condicional).
	// Devuelve false si ninguna fila coincidió: la donación cambió concurrentemente.
	UpdateState(id, from, to string) (bool, error)
}
