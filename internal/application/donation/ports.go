package donation

import (
	"context"

	"github.com/jhoicas/donaciones-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que crear la donación con sus detalles,
// y procesar (crear lotes + sumar stock), sean operaciones todo-o-nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		donationRepo repository.DonationRepository,
		lotRepo repository.LotRepository,
		productRepo repository.ProductRepository,
	) error) error
}
