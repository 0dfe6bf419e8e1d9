package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/donaciones-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product y su libro de
// existencias (DIP). IncreaseStock/DecreaseStock se usan dentro de transacciones.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) para leer el
	// stock dentro de la transacción que va a mutarlo.
	GetForUpdate(id string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	// ListLowStock devuelve los productos con stock_actual <= stock_minimo.
	ListLowStock() ([]*entity.Product, error)
	// IncreaseStock suma quantity a stock_actual.
	IncreaseStock(productID string, quantity decimal.Decimal) error
	// DecreaseStock resta min(quantity, stock_actual) y devuelve la cantidad
	// realmente retirada. stock_actual nunca queda negativo.
	DecreaseStock(productID string, quantity decimal.Decimal) (decimal.Decimal, error)
}
