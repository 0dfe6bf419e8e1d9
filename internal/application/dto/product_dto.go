package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/donaciones-api/internal/domain/entity"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name        string          `json:"name"`
	CategoryID  string          `json:"category_id"`
	Unit        string          `json:"unit"`
	StockMinimo decimal.Decimal `json:"stock_minimo"`
}

// ProductResponse representación HTTP de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	CategoryID  string          `json:"category_id"`
	Unit        string          `json:"unit"`
	StockActual decimal.Decimal `json:"stock_actual"`
	StockMinimo decimal.Decimal `json:"stock_minimo"`
	LowStock    bool            `json:"low_stock"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewProductResponse mapea la entidad a su DTO.
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		CategoryID:  p.CategoryID,
		Unit:        p.Unit,
		StockActual: p.StockActual,
		StockMinimo: p.StockMinimo,
		LowStock:    p.LowStock(),
		CreatedAt:   p.CreatedAt,
	}
}
