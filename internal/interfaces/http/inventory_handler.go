package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/donaciones-api/internal/application/dto"
	"github.com/jhoicas/donaciones-api/internal/application/inventory"
)

// InventoryHandler maneja las consultas de inventario (protegido).
type InventoryHandler struct {
	queries *inventory.QueriesUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(queries *inventory.QueriesUseCase) *InventoryHandler {
	return &InventoryHandler{queries: queries}
}

// LowStock godoc
// @Summary      Productos bajo el umbral de reposición
// @Description  Devuelve los productos con stock_actual <= stock_minimo con su déficit.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.LowStockProductDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.queries.LowStockProducts(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "products": list})
}

// ExpiringLots godoc
// @Summary      Lotes disponibles próximos a vencer
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días (por defecto 30)"
// @Success      200  {array}   dto.ExpiringLotDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/expiring-lots [get]
func (h *InventoryHandler) ExpiringLots(c *fiber.Ctx) error {
	days := 30
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "days debe ser un entero"})
		}
		days = n
	}
	list, err := h.queries.ExpiringLots(c.Context(), days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "lots": list})
}
