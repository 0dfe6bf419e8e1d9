package request

import (
	"context"

	"github.com/jhoicas/donaciones-api/internal/domain/repository"
)

// TxRunner garantiza que cabecera y detalles de una solicitud se creen juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(requestRepo repository.RequestRepository) error) error
}
