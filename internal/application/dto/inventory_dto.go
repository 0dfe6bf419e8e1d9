package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockProductDTO producto por debajo de su umbral de reposición.
type LowStockProductDTO struct {
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name"`
	Unit        string          `json:"unit"`
	StockActual decimal.Decimal `json:"stock_actual"`
	StockMinimo decimal.Decimal `json:"stock_minimo"`
	Deficit     decimal.Decimal `json:"deficit"` // stock_minimo - stock_actual
}

// ExpiringLotDTO lote disponible próximo a vencer.
type ExpiringLotDTO struct {
	LotID          string          `json:"lot_id"`
	ProductID      string          `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	ExpirationDate time.Time       `json:"expiration_date"`
	DaysLeft       int             `json:"days_left"`
}
