package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/donaciones-api/internal/domain"
)

// Estados del ciclo de vida de una donación.
const (
	DonationStatePending   = "pendiente"
	DonationStateReceived  = "recibida"
	DonationStateProcessed = "procesada"
	DonationStateRejected  = "rechazada"
)

// Tabla de transiciones de donación. procesada y rechazada son terminales.
// Entrar a procesada es la única transición con efecto: crea lotes y suma stock.
var donationTransitions = map[string][]string{
	DonationStatePending:   {DonationStateReceived, DonationStateRejected},
	DonationStateReceived:  {DonationStateProcessed, DonationStateRejected},
	DonationStateProcessed: {},
	DonationStateRejected:  {},
}

// ValidDonationState indica si el estado pertenece al ciclo de vida de donación.
func ValidDonationState(s string) bool {
	_, ok := donationTransitions[s]
	return ok
}

// ValidateDonationTransition valida from → to contra la tabla.
func ValidateDonationTransition(from, to string) error {
	allowed, ok := donationTransitions[from]
	if !ok {
		return domain.ErrInvalidInput
	}
	for _, s := range allowed {
		if s == to {
			return nil
		}
	}
	return &domain.InvalidTransitionError{Entity: "donation", From: from, To: to, Allowed: allowed}
}

// Donation representa una donación de bienes de un donante.
type Donation struct {
	ID          string
	DonorID     string
	State       string
	Notes       string
	SubmittedAt time.Time
	Details     []DonationDetail
}

// DonationDetail es una línea de la donación. Al procesar, cantidad y
// vencimiento se copian al lote creado.
type DonationDetail struct {
	ID             string
	DonationID     string
	ProductID      string
	Quantity       decimal.Decimal
	Unit           string
	ExpirationDate *time.Time
	Notes          string
}
