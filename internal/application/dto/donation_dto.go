package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/donaciones-api/internal/domain/entity"
)

// DonationDetailRequest línea de una donación entrante.
type DonationDetailRequest struct {
	ProductID      string          `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

// CreateDonationRequest body para POST /api/donations.
type CreateDonationRequest struct {
	Notes   string                  `json:"notes,omitempty"`
	Details []DonationDetailRequest `json:"details"`
}

// TransitionRequest body para PATCH .../state (donaciones y solicitudes).
type TransitionRequest struct {
	State string `json:"state"`
}

// DonationDetailResponse línea de donación en respuestas.
type DonationDetailResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

// DonationResponse representación HTTP de una donación.
type DonationResponse struct {
	ID          string                   `json:"id"`
	DonorID     string                   `json:"donor_id"`
	State       string                   `json:"state"`
	Notes       string                   `json:"notes,omitempty"`
	SubmittedAt time.Time                `json:"submitted_at"`
	Details     []DonationDetailResponse `json:"details"`
}

// NewDonationResponse mapea la entidad a su DTO.
func NewDonationResponse(d *entity.Donation) DonationResponse {
	details := make([]DonationDetailResponse, 0, len(d.Details))
	for _, det := range d.Details {
		details = append(details, DonationDetailResponse{
			ID:             det.ID,
			ProductID:      det.ProductID,
			Quantity:       det.Quantity,
			Unit:           det.Unit,
			ExpirationDate: det.ExpirationDate,
			Notes:          det.Notes,
		})
	}
	return DonationResponse{
		ID:          d.ID,
		DonorID:     d.DonorID,
		State:       d.State,
		Notes:       d.Notes,
		SubmittedAt: d.SubmittedAt,
		Details:     details,
	}
}
