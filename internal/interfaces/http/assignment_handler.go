package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/donaciones-api/internal/application/allocation"
	"github.com/jhoicas/donaciones-api/internal/application/dto"
)

// AssignmentHandler maneja las peticiones HTTP del motor de asignación (solo admin).
type AssignmentHandler struct {
	uc *allocation.UseCase
}

// NewAssignmentHandler construye el handler.
func NewAssignmentHandler(uc *allocation.UseCase) *AssignmentHandler {
	return &AssignmentHandler{uc: uc}
}

// Allocate godoc
// @Summary      Aprobar una solicitud y crear su asignación
// @Description  Operación atómica: aprueba la solicitud pendiente y compromete
//	stock por cada línea. Si alguna línea quedaría parcial y no viene
//	confirm_partial ni override, responde 200 con requires_confirmation y no toca
//	stock; con líneas sin existencias responde 409 INSUFFICIENT_STOCK.
// @Tags         assignments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la solicitud"
// @Param        body  body  dto.AllocateRequest  true  "confirm_partial y overrides por producto"
// @Success      200   {object}  dto.AllocationResult  "requiere confirmación"
// @Success      201   {object}  dto.AllocationResult
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/assignments [post]
func (h *AssignmentHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	result, err := h.uc.ApproveAndAllocate(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	if result.RequiresConfirmation {
		return c.JSON(result)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Transition godoc
// @Summary      Cambiar el estado de una asignación
// @Description  pendiente → entregada (exige delivery_date) o pendiente →
//	cancelada. Cancelar no devuelve stock al libro.
// @Tags         assignments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true  "ID de la asignación"
// @Param        body  body  dto.TransitionAssignmentRequest  true  "state destino y delivery_date"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/assignments/{id}/state [patch]
func (h *AssignmentHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionAssignmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.TransitionAssignment(c.Context(), c.Params("id"), in.State, in.DeliveryDate); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "estado actualizado", "state": in.State})
}

// GetByID godoc
// @Summary      Consultar una asignación
// @Tags         assignments
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la asignación"
// @Success      200  {object}  dto.AssignmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/assignments/{id} [get]
func (h *AssignmentHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.GetAssignment(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// ListByState godoc
// @Summary      Listar asignaciones por estado
// @Tags         assignments
// @Security     Bearer
// @Produce      json
// @Param        state  query  string  true  "pendiente|entregada|cancelada"
// @Success      200  {array}   dto.AssignmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/assignments [get]
func (h *AssignmentHandler) ListByState(c *fiber.Ctx) error {
	list, err := h.uc.ListByState(c.Context(), c.Query("state"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "assignments": list})
}
