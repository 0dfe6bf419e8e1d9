package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/donaciones-api/internal/application/donation"
	"github.com/jhoicas/donaciones-api/internal/application/dto"
)

// DonationHandler maneja las peticiones HTTP del ciclo de donación (protegido).
type DonationHandler struct {
	uc *donation.UseCase
}

// NewDonationHandler construye el handler.
func NewDonationHandler(uc *donation.UseCase) *DonationHandler {
	return &DonationHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar una donación
// @Tags         donations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDonationRequest  true  "detalles: product_id, quantity, unit, expiration_date opcional"
// @Success      201   {object}  dto.DonationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/donations [post]
func (h *DonationHandler) Create(c *fiber.Ctx) error {
	donorID := GetUserID(c)
	if donorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateDonationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Create(c.Context(), donorID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByID godoc
// @Summary      Consultar una donación
// @Tags         donations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la donación"
// @Success      200  {object}  dto.DonationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/donations/{id} [get]
func (h *DonationHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Transition godoc
// @Summary      Cambiar el estado de una donación
// @Description  pendiente → recibida → procesada, con rechazo desde pendiente o
//	recibida. Entrar a procesada crea lotes y suma stock una sola vez.
// @Tags         donations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la donación"
// @Param        body  body  dto.TransitionRequest  true  "state destino"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/donations/{id}/state [patch]
func (h *DonationHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Transition(c.Context(), c.Params("id"), in.State); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "estado actualizado", "state": in.State})
}
