package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/donaciones-api/internal/domain/entity"
)

// AllocateOverride confirma comprometer una cantidad parcial para un producto en
// lugar de la solicitada, y opcionalmente referencia el lote del que sale.
type AllocateOverride struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	LotID     string          `json:"lot_id,omitempty"`
}

// AllocateRequest body para POST /api/requests/:id/assignments.
// ConfirmPartial autoriza de antemano el cumplimiento parcial de cualquier línea;
// sin él, las líneas parciales sin override devuelven requires_confirmation.
type AllocateRequest struct {
	ConfirmPartial bool               `json:"confirm_partial"`
	Overrides      []AllocateOverride `json:"overrides,omitempty"`
}

// PartialLine describe una línea que quedaría (o quedó) por debajo de lo pedido.
type PartialLine struct {
	ProductID string          `json:"product_id"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
}

// AllocationResult resultado de approveAndAllocate. Si RequiresConfirmation es
// true no se creó asignación ni se tocó stock: Partials lista las líneas que el
// caller debe confirmar. Si Assignment no es nil, Partials son las advertencias
// de cumplimiento parcial ya comprometido.
type AllocationResult struct {
	RequiresConfirmation bool                `json:"requires_confirmation"`
	Partials             []PartialLine       `json:"partials,omitempty"`
	Assignment           *AssignmentResponse `json:"assignment,omitempty"`
}

// AssignmentDetailResponse línea de asignación en respuestas.
type AssignmentDetailResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	LotID     *string         `json:"lot_id,omitempty"`
}

// AssignmentResponse representación HTTP de una asignación.
type AssignmentResponse struct {
	ID           string                     `json:"id"`
	RequestID    string                     `json:"request_id"`
	ReceptorID   string                     `json:"receptor_id"`
	State        string                     `json:"state"`
	DeliveryDate *time.Time                 `json:"delivery_date,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`
	Details      []AssignmentDetailResponse `json:"details"`
}

// TransitionAssignmentRequest body para PATCH /api/assignments/:id/state.
type TransitionAssignmentRequest struct {
	State        string     `json:"state"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
}

// NewAssignmentResponse mapea la entidad a su DTO.
func NewAssignmentResponse(a *entity.Assignment) *AssignmentResponse {
	details := make([]AssignmentDetailResponse, 0, len(a.Details))
	for _, det := range a.Details {
		details = append(details, AssignmentDetailResponse{
			ID:        det.ID,
			ProductID: det.ProductID,
			Quantity:  det.Quantity,
			Unit:      det.Unit,
			LotID:     det.LotID,
		})
	}
	return &AssignmentResponse{
		ID:           a.ID,
		RequestID:    a.RequestID,
		ReceptorID:   a.ReceptorID,
		State:        a.State,
		DeliveryDate: a.DeliveryDate,
		CreatedAt:    a.CreatedAt,
		Details:      details,
	}
}
