package repository

import (
	"time"

	"github.com/jhoicas/donaciones-api/internal/domain/entity"
)

// AssignmentRepository define el puerto de persistencia para asignaciones.
type AssignmentRepository interface {
	Create(assignment *entity.Assignment) error
	CreateDetail(detail *entity.AssignmentDetail) error
	// GetByID devuelve la asignación con sus detalles en orden de inserción.
	GetByID(id string) (*entity.Assignment, error)
	// UpdateState cambia el estado solo si el actual es from; deliveryDate solo se
	// escribe al pasar a entregada.
	UpdateState(id, from, to string, deliveryDate *time.Time) (bool, error)
	ListByState(state string) ([]*entity.Assignment, error)
}
