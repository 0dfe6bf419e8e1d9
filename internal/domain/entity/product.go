package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida admitidas para productos y líneas de detalle.
const (
	UnitKg    = "kg"
	UnitUnit  = "unit"
	UnitLiter = "liter"
	UnitBox   = "box"
	UnitBag   = "bag"
)

// ValidUnit indica si la unidad de medida es una de las admitidas.
func ValidUnit(u string) bool {
	switch u {
	case UnitKg, UnitUnit, UnitLiter, UnitBox, UnitBag:
		return true
	}
	return false
}

// Product representa un producto del catálogo de ayudas.
// StockActual es el libro de existencias: solo lo mutan el procesamiento de
// donaciones (suma, vía lotes) y el motor de asignación (resta). Nunca es negativo.
type Product struct {
	ID          string
	Name        string
	CategoryID  string
	Unit        string          // kg | unit | liter | box | bag
	StockActual decimal.Decimal
	StockMinimo decimal.Decimal // umbral de reposición
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LowStock es una propiedad derivada, no almacenada: StockActual <= StockMinimo.
func (p *Product) LowStock() bool {
	return p.StockActual.LessThanOrEqual(p.StockMinimo)
}
