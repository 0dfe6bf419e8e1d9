package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/donaciones-api/internal/domain"
)

// Estados del ciclo de vida de una asignación.
const (
	AssignmentStatePending   = "pendiente"
	AssignmentStateDelivered = "entregada"
	AssignmentStateCancelled = "cancelada"
)

// Tabla de transiciones de asignación. entregada exige fecha de entrega.
// Cancelar no devuelve stock al libro (la mercancía se da por baja).
var assignmentTransitions = map[string][]string{
	AssignmentStatePending:   {AssignmentStateDelivered, AssignmentStateCancelled},
	AssignmentStateDelivered: {},
	AssignmentStateCancelled: {},
}

// ValidAssignmentState indica si el estado pertenece al ciclo de vida de asignación.
func ValidAssignmentState(s string) bool {
	_, ok := assignmentTransitions[s]
	return ok
}

// ValidateAssignmentTransition valida from → to contra la tabla.
func ValidateAssignmentTransition(from, to string) error {
	allowed, ok := assignmentTransitions[from]
	if !ok {
		return domain.ErrInvalidInput
	}
	for _, s := range allowed {
		if s == to {
			return nil
		}
	}
	return &domain.InvalidTransitionError{Entity: "assignment", From: from, To: to, Allowed: allowed}
}

// Assignment es el cumplimiento respaldado por stock de una solicitud, parcial o
// total. Se crea atómicamente con sus detalles; después solo cambian estado y
// fecha de entrega.
type Assignment struct {
	ID           string
	RequestID    string
	ReceptorID   string
	State        string
	DeliveryDate *time.Time
	CreatedAt    time.Time
	Details      []AssignmentDetail
}

// AssignmentDetail es una línea comprometida contra el libro de existencias.
// LotID es opcional: referencia el lote comprometido cuando el operador lo indicó.
type AssignmentDetail struct {
	ID           string
	AssignmentID string
	ProductID    string
	Quantity     decimal.Decimal
	Unit         string
	LotID        *string
}
