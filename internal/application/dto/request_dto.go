package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/donaciones-api/internal/domain/entity"
)

// RequestDetailRequest línea de una solicitud entrante.
type RequestDetailRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
}

// CreateRequestRequest body para POST /api/requests.
type CreateRequestRequest struct {
	Priority string                 `json:"priority"`
	Motive   string                 `json:"motive,omitempty"`
	Details  []RequestDetailRequest `json:"details"`
}

// RequestDetailResponse línea de solicitud en respuestas.
type RequestDetailResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	QuantityRequested decimal.Decimal `json:"quantity_requested"`
	QuantityAllocated decimal.Decimal `json:"quantity_allocated"`
	Unit              string          `json:"unit"`
}

// RequestResponse representación HTTP de una solicitud.
type RequestResponse struct {
	ID          string                  `json:"id"`
	ReceptorID  string                  `json:"receptor_id"`
	State       string                  `json:"state"`
	Priority    string                  `json:"priority"`
	Motive      string                  `json:"motive,omitempty"`
	SubmittedAt time.Time               `json:"submitted_at"`
	Details     []RequestDetailResponse `json:"details"`
}

// NewRequestResponse mapea la entidad a su DTO.
func NewRequestResponse(r *entity.Request) RequestResponse {
	details := make([]RequestDetailResponse, 0, len(r.Details))
	for _, det := range r.Details {
		details = append(details, RequestDetailResponse{
			ID:                det.ID,
			ProductID:         det.ProductID,
			QuantityRequested: det.QuantityRequested,
			QuantityAllocated: det.QuantityAllocated,
			Unit:              det.Unit,
		})
	}
	return RequestResponse{
		ID:          r.ID,
		ReceptorID:  r.ReceptorID,
		State:       r.State,
		Priority:    r.Priority,
		Motive:      r.Motive,
		SubmittedAt: r.SubmittedAt,
		Details:     details,
	}
}
