package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/donaciones-api/internal/domain"
)

// Estados del ciclo de vida de una solicitud.
const (
	RequestStatePending   = "pendiente"
	RequestStateApproved  = "aprobada"
	RequestStateRejected  = "rechazada"
	RequestStateCompleted = "completada"
	RequestStateCancelled = "cancelada"
)

// Prioridades de una solicitud.
const (
	PriorityLow    = "baja"
	PriorityNormal = "normal"
	PriorityHigh   = "alta"
	PriorityUrgent = "urgente"
)

// ValidPriority indica si la prioridad es una de las admitidas.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Tabla de transiciones de solicitud. La aprobación (pendiente → aprobada) solo
// ocurre dentro del motor de asignación, como parte de la misma transacción que
// crea la asignación; transitionRequest cubre el resto de caminos.
var requestTransitions = map[string][]string{
	RequestStatePending:   {RequestStateApproved, RequestStateRejected},
	RequestStateApproved:  {RequestStateCompleted, RequestStateCancelled},
	RequestStateRejected:  {},
	RequestStateCompleted: {},
	RequestStateCancelled: {},
}

// ValidRequestState indica si el estado pertenece al ciclo de vida de solicitud.
func ValidRequestState(s string) bool {
	_, ok := requestTransitions[s]
	return ok
}

// ValidateRequestTransition valida from → to contra la tabla.
func ValidateRequestTransition(from, to string) error {
	allowed, ok := requestTransitions[from]
	if !ok {
		return domain.ErrInvalidInput
	}
	for _, s := range allowed {
		if s == to {
			return nil
		}
	}
	return &domain.InvalidTransitionError{Entity: "request", From: from, To: to, Allowed: allowed}
}

// Request representa la necesidad declarada por un receptor (solicitud).
type Request struct {
	ID          string
	ReceptorID  string
	State       string
	Priority    string
	Motive      string
	SubmittedAt time.Time
	Details     []RequestDetail
}

// RequestDetail es una línea de la solicitud. QuantityAllocated inicia en 0 y
// solo crece, nunca por encima de QuantityRequested.
type RequestDetail struct {
	ID                string
	RequestID         string
	ProductID         string
	QuantityRequested decimal.Decimal
	QuantityAllocated decimal.Decimal
	Unit              string
}
