package request

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/donaciones-api/internal/application/dto"
	"github.com/jhoicas/donaciones-api/internal/domain"
	"github.com/jhoicas/donaciones-api/internal/domain/entity"
	"github.com/jhoicas/donaciones-api/internal/domain/repository"
	"github.com/jhoicas/donaciones-api/pkg/logger"
)

// UseCase gestiona el ciclo de vida de una solicitud fuera de la asignación:
// creación, rechazo, cancelación y cierre. La aprobación nunca pasa por aquí;
// la realiza el motor de asignación junto con la creación de la asignación.
type UseCase struct {
	txRunner    TxRunner
	requestRepo repository.RequestRepository
	productRepo repository.ProductRepository
	log         *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	requestRepo repository.RequestRepository,
	productRepo repository.ProductRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{txRunner: txRunner, requestRepo: requestRepo, productRepo: productRepo, log: log}
}

// Create registra una solicitud en estado pendiente con sus detalles.
// Prioridad vacía se interpreta como normal.
func (uc *UseCase) Create(ctx context.Context, receptorID string, in dto.CreateRequestRequest) (*dto.RequestResponse, error) {
	if receptorID == "" || len(in.Details) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Priority == "" {
		in.Priority = entity.PriorityNormal
	}
	if !entity.ValidPriority(in.Priority) {
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

	r := &entity.Request{
		ID:          uuid.New().String(),
		ReceptorID:  receptorID,
		State:       entity.RequestStatePending,
		Priority:    in.Priority,
		Motive:      in.Motive,
		SubmittedAt: time.Now(),
	}
	for _, det := range in.Details {
		r.Details = append(r.Details, entity.RequestDetail{
			ID:                uuid.New().String(),
			RequestID:         r.ID,
			ProductID:         det.ProductID,
			QuantityRequested: det.Quantity,
			QuantityAllocated: decimal.Zero,
			Unit:              det.Unit,
		})
	}

	err := uc.txRunner.Run(ctx, func(requestRepo repository.RequestRepository) error {
		if err := requestRepo.Create(r); err != nil {
			return err
		}
		for i := range r.Details {
			if err := requestRepo.CreateDetail(&r.Details[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("request_id", r.ID).Str("receptor_id", receptorID).Str("priority", r.Priority).Msg("solicitud registrada")
	resp := dto.NewRequestResponse(r)
	return &resp, nil
}

// GetByID devuelve una solicitud con sus detalles.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.RequestResponse, error) {
	r, err := uc.requestRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.NewRequestResponse(r)
	return &resp, nil
}

// Transition aplica rechazo, cancelación o cierre. El destino aprobada se
// rechaza: aprobar sin asignación dejaría una solicitud aprobada sin respaldo.
func (uc *UseCase) Transition(ctx context.Context, id, newState string) error {
	if !entity.ValidRequestState(newState) || newState == entity.RequestStateApproved {
		return domain.ErrInvalidInput
	}
	r, err := uc.requestRepo.GetByID(id)
	if err != nil {
		return err
	}
	if r == nil {
		return domain.ErrNotFound
	}
	if err := entity.ValidateRequestTransition(r.State, newState); err != nil {
		return err
	}
	ok, err := uc.requestRepo.UpdateState(id, r.State, newState)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrConflict
	}
	return nil
}

// ListByState devuelve solicitudes en un estado, urgentes primero.
func (uc *UseCase) ListByState(ctx context.Context, state string) ([]dto.RequestResponse, error) {
	if !entity.ValidRequestState(state) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.requestRepo.ListByState(state)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RequestResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.NewRequestResponse(r))
	}
	return out, nil
}
