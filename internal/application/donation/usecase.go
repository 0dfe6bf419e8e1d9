package donation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/donaciones-api/internal/application/dto"
	"github.com/jhoicas/donaciones-api/internal/application/inventory"
	"github.com/jhoicas/donaciones-api/internal/domain"
	"github.com/jhoicas/donaciones-api/internal/domain/entity"
	"github.com/jhoicas/donaciones-api/internal/domain/repository"
	"github.com/jhoicas/donaciones-api/internal/infrastructure/cache"
	"github.com/jhoicas/donaciones-api/pkg/logger"
)

// UseCase gestiona el ciclo de vida de una donación:
// pendiente → recibida → procesada, con rechazo desde pendiente o recibida.
// Entrar a procesada crea un lote por detalle y suma stock, una sola vez y en
// una sola transacción.
type UseCase struct {
	txRunner     TxRunner
	donationRepo repository.DonationRepository
	productRepo  repository.ProductRepository
	cache        cache.Client
	log          *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	donationRepo repository.DonationRepository,
	productRepo repository.ProductRepository,
	c cache.Client,
	log *logger.Logger,
) *UseCase {
	if c == nil {
		c = cache.Noop{}
	}
	return &UseCase{
		txRunner:     txRunner,
		donationRepo: donationRepo,
		productRepo:  productRepo,
		cache:        c,
		log:          log,
	}
}

// Create registra una donación en estado pendiente con sus detalles.
func (uc *UseCase) Create(ctx context.Context, donorID string, in dto.CreateDonationRequest) (*dto.DonationResponse, error) {
	if donorID == "" || len(in.Details) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, det := range in.Details {
		if det.ProductID == "" || !det.Quantity.GreaterThan(decimal.Zero) || !entity.ValidUnit(det.Unit) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(det.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	d := &entity.Donation{
		ID:          uuid.New().String(),
		DonorID:     donorID,
		State:       entity.DonationStatePending,
		Notes:       in.Notes,
		SubmittedAt: now,
	}
	for _, det := range in.Details {
		d.Details = append(d.Details, entity.DonationDetail{
			ID:             uuid.New().String(),
			DonationID:     d.ID,
			ProductID:      det.ProductID,
			Quantity:       det.Quantity,
			Unit:           det.Unit,
			ExpirationDate: det.ExpirationDate,
			Notes:          det.Notes,
		})
	}

	// Cabecera y detalles en la misma transacción.
	err := uc.txRunner.Run(ctx, func(
		donationRepo repository.DonationRepository,
		_ repository.LotRepository,
		_ repository.ProductRepository,
	) error {
		if err := donationRepo.Create(d); err != nil {
			return err
		}
		for i := range d.Details {
			if err := donationRepo.CreateDetail(&d.Details[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("donation_id", d.ID).Str("donor_id", donorID).Int("details", len(d.Details)).Msg("donación registrada")
	resp := dto.NewDonationResponse(d)
	return &resp, nil
}

// GetByID devuelve una donación con sus detalles.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.DonationResponse, error) {
	d, err := uc.donationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.NewDonationResponse(d)
	return &resp, nil
}

// Transition valida el cambio de estado contra la tabla y lo aplica.
// procesada dispara la entrada al libro de existencias; por ser estado terminal
// el efecto ocurre exactamente una vez por donación.
func (uc *UseCase) Transition(ctx context.Context, id, newState string) error {
	if !entity.ValidDonationState(newState) {
		return domain.ErrInvalidInput
	}
	d, err := uc.donationRepo.GetByID(id)
	if err != nil {
		return err
	}
	if d == nil {
		return domain.ErrNotFound
	}
	if err := entity.ValidateDonationTransition(d.State, newState); err != nil {
		return err
	}

	if newState != entity.DonationStateProcessed {
		ok, err := uc.donationRepo.UpdateState(id, d.State, newState)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		return nil
	}

	return uc.process(ctx, d)
}

// process ejecuta recibida → procesada: cambio de estado condicional, un lote
// por detalle (cantidad y vencimiento copiados) y suma a stock_actual.
func (uc *UseCase) process(ctx context.Context, d *entity.Donation) error {
	now := time.Now()
	err := uc.txRunner.Run(ctx, func(
		donationRepo repository.DonationRepository,
		lotRepo repository.LotRepository,
		productRepo repository.ProductRepository,
	) error {
		ok, err := donationRepo.UpdateState(d.ID, entity.DonationStateReceived, entity.DonationStateProcessed)
		if err != nil {
			return err
		}
		if !ok {
			// Otra petición procesó o rechazó la donación primero.
			return domain.ErrConflict
		}
		for i := range d.Details {
			det := &d.Details[i]
			lot := &entity.Lot{
				ID:             uuid.New().String(),
				ProductID:      det.ProductID,
				Quantity:       det.Quantity,
				ExpirationDate: det.ExpirationDate,
				State:          entity.LotStateAvailable,
				CreatedAt:      now,
			}
			if err := lotRepo.Create(lot); err != nil {
				return err
			}
			if err := productRepo.IncreaseStock(det.ProductID, det.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	_ = uc.cache.Delete(ctx, inventory.KeyLowStock)
	uc.log.Info().Str("donation_id", d.ID).Int("lots", len(d.Details)).Msg("donación procesada: stock incrementado")
	return nil
}
