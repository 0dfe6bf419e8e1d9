package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/donaciones-api/internal/application/allocation"
	"github.com/jhoicas/donaciones-api/internal/application/donation"
	"github.com/jhoicas/donaciones-api/internal/application/request"
	"github.com/jhoicas/donaciones-api/internal/domain/repository"
)

// Ensure TxRunner implements the application-layer runner ports.
var _ donation.TxRunner = (*TxRunner)(nil)
var _ allocation.TxRunner = (*AllocationTxRunner)(nil)
var _ request.TxRunner = (*RequestTxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con los
// repositorios del ciclo de donación atados a la tx.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	donationRepo repository.DonationRepository,
	lotRepo repository.LotRepository,
	productRepo repository.ProductRepository,
) error) error {
	return runInTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(NewDonationRepository(tx), NewLotRepository(tx), NewProductRepository(tx))
	})
}

// AllocationTxRunner transacciones del motor de asignación.
type AllocationTxRunner struct {
	pool *pgxpool.Pool
}

// NewAllocationTxRunner construye el runner con el pool.
func NewAllocationTxRunner(pool *pgxpool.Pool) *AllocationTxRunner {
	return &AllocationTxRunner{pool: pool}
}

// Run inicia la transacción de asignación con los cuatro repositorios atados a la tx.
func (r *AllocationTxRunner) Run(ctx context.Context, fn func(
	requestRepo repository.RequestRepository,
	assignmentRepo repository.AssignmentRepository,
	productRepo repository.ProductRepository,
	lotRepo repository.LotRepository,
) error) error {
	return runInTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(NewRequestRepository(tx), NewAssignmentRepository(tx), NewProductRepository(tx), NewLotRepository(tx))
	})
}

// RequestTxRunner transacción para crear solicitud con detalles.
type RequestTxRunner struct {
	pool *pgxpool.Pool
}

// NewRequestTxRunner construye el runner con el pool.
func NewRequestTxRunner(pool *pgxpool.Pool) *RequestTxRunner {
	return &RequestTxRunner{pool: pool}
}

// Run inicia la transacción con el repositorio de solicitudes atado a la tx.
func (r *RequestTxRunner) Run(ctx context.Context, fn func(requestRepo repository.RequestRepository) error) error {
	return runInTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(NewRequestRepository(tx))
	})
}

// runInTx abre la transacción, ejecuta fn y hace Commit; el Rollback diferido
// cubre cualquier salida temprana.
func runInTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
