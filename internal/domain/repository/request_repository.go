package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/donaciones-api/internal/domain/entity"
)

// RequestRepository define el puerto de persistencia para solicitudes.
type RequestRepository interface {
	Create(request *entity.Request) error
	CreateDetail(detail *entity.RequestDetail) error
	// GetByID devuelve la solicitud con sus detalles en orden de inserción.
	GetByID(id string) (*entity.Request, error)
	// GetForUpdate bloquea la fila de la solicitud antes de asignar contra ella.
	GetForUpdate(id string) (*entity.Request, error)
	// UpdateState cambia el estado solo si el actual es from (update condicional).
	UpdateState(id, from, to string) (bool, error)
	// AddAllocated incrementa cantidad_asignada del detalle.
	AddAllocated(detailID string, quantity decimal.Decimal) error
	// ListByState devuelve solicitudes en un estado, urgentes primero y luego por
	// fecha de envío.
	ListByState(state string) ([]*entity.Request, error)
}
