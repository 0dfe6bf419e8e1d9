package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote.
const (
	LotStateAvailable = "disponible"
	LotStateAssigned  = "asignada"
)

// Lot es un lote fechado de existencias de un producto, creado al procesar una
// donación. Pasa a asignada cuando parte de su cantidad se compromete en un
// detalle de asignación; la referencia no implica consumo exacto del lote.
type Lot struct {
	ID             string
	ProductID      string
	Quantity       decimal.Decimal
	ExpirationDate *time.Time
	State          string
	CreatedAt      time.Time
}
