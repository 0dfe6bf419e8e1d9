package allocation

import (
	"context"

	"github.com/jhoicas/donaciones-api/internal/domain/repository"
)

// TxRunner ejecuta el motor de asignación dentro de una única transacción:
// lectura-decisión-descuento de stock por línea, actualización de
// cantidad_asignada, creación de la asignación con sus detalles y aprobación de
// la solicitud son todo-o-nada. La serialización entre asignaciones concurrentes
// la da el almacén (bloqueo de fila), no ningún lock en proceso.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		requestRepo repository.RequestRepository,
		assignmentRepo repository.AssignmentRepository,
		productRepo repository.ProductRepository,
		lotRepo repository.LotRepository,
	) error) error
}
