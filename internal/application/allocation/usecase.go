package allocation

import (
	"context"
	"errors"
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

// errConfirmRequired corta la transacción cuando hay líneas parciales sin
// confirmar; el rollback deja el almacén intacto y se devuelve el plan al caller.
var errConfirmRequired = errors.New("confirmación de cumplimiento parcial requerida")

// UseCase es el motor de asignación: consume una solicitud pendiente y el libro
// de existencias y produce una asignación, aprobando la solicitud en la misma
// transacción. Política de cumplimiento parcial determinista por línea, en orden:
//   - stock cero: línea bloqueante, se aborta todo con InsufficientStockError;
//   - 0 < stock < pedido: línea parcial, exige confirmación del caller;
//   - stock suficiente: se compromete lo pedido.
type UseCase struct {
	txRunner       TxRunner
	requestRepo    repository.RequestRepository
	assignmentRepo repository.AssignmentRepository
	cache          cache.Client
	log            *logger.Logger
}

// NewUseCase construye el motor.
func NewUseCase(
	txRunner TxRunner,
	requestRepo repository.RequestRepository,
	assignmentRepo repository.AssignmentRepository,
	c cache.Client,
	log *logger.Logger,
) *UseCase {
	if c == nil {
		c = cache.Noop{}
	}
	return &UseCase{
		txRunner:       txRunner,
		requestRepo:    requestRepo,
		assignmentRepo: assignmentRepo,
		cache:          c,
		log:            log,
	}
}

// linePlan decisión tomada para una línea durante la fase de clasificación.
type linePlan struct {
	detail    *entity.RequestDetail
	committed decimal.Decimal
	partial   bool
	lotID     *string
}

// ApproveAndAllocate aprueba la solicitud y crea su asignación en una sola
// transacción. Overrides confirma cantidades parciales por producto (y
// opcionalmente el lote); ConfirmPartial autoriza todas las líneas parciales con
// min(pedido, disponible). Sin confirmación, las líneas parciales devuelven un
// resultado requires_confirmation sin tocar stock.
func (uc *UseCase) ApproveAndAllocate(ctx context.Context, requestID string, in dto.AllocateRequest) (*dto.AllocationResult, error) {
	if requestID == "" {
		return nil, domain.ErrInvalidInput
	}
	overrides := make(map[string]dto.AllocateOverride, len(in.Overrides))
	for _, ov := range in.Overrides {
		if ov.ProductID == "" || !ov.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		overrides[ov.ProductID] = ov
	}

	var result dto.AllocationResult

	err := uc.txRunner.Run(ctx, func(
		requestRepo repository.RequestRepository,
		assignmentRepo repository.AssignmentRepository,
		productRepo repository.ProductRepository,
		lotRepo repository.LotRepository,
	) error {
		// Bloquear la solicitud primero: orden de bloqueo estable frente a
		// asignaciones concurrentes sobre la misma solicitud.
		req, err := requestRepo.GetForUpdate(requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if err := entity.ValidateRequestTransition(req.State, entity.RequestStateApproved); err != nil {
			return err
		}
		if len(req.Details) == 0 {
			return domain.ErrInvalidInput
		}

		// Validar overrides contra las líneas de la solicitud.
		byProduct := make(map[string]*entity.RequestDetail, len(req.Details))
		for i := range req.Details {
			byProduct[req.Details[i].ProductID] = &req.Details[i]
		}
		for pid, ov := range overrides {
			det, ok := byProduct[pid]
			if !ok || ov.Quantity.GreaterThan(det.QuantityRequested) {
				return domain.ErrInvalidInput
			}
			if ov.LotID != "" {
				lot, err := lotRepo.GetByID(ov.LotID)
				if err != nil {
					return err
				}
				if lot == nil {
					return domain.ErrNotFound
				}
				if lot.ProductID != pid {
					return domain.ErrInvalidInput
				}
			}
		}

		// Fase 1: clasificación. Bloquea cada producto en orden de lista y decide
		// la cantidad a comprometer sin escribir nada todavía. Líneas repetidas
		// del mismo producto consumen del remanente en orden de lista.
		var (
			plans        []linePlan
			blocking     []string
			unconfirmed  []dto.PartialLine
			partialLines []dto.PartialLine
		)
		planned := make(map[string]decimal.Decimal, len(req.Details))
		for i := range req.Details {
			det := &req.Details[i]
			product, err := productRepo.GetForUpdate(det.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			have := product.StockActual.Sub(planned[det.ProductID])
			want := det.QuantityRequested

			if !have.GreaterThan(decimal.Zero) {
				blocking = append(blocking, det.ProductID)
				continue
			}

			committed := decimal.Min(want, have)
			ov, overridden := overrides[det.ProductID]
			if overridden {
				committed = decimal.Min(ov.Quantity, have)
			}
			plan := linePlan{detail: det, committed: committed, partial: have.LessThan(want)}
			if overridden && ov.LotID != "" {
				lotID := ov.LotID
				plan.lotID = &lotID
			}
			if plan.partial {
				line := dto.PartialLine{ProductID: det.ProductID, Requested: want, Available: have}
				partialLines = append(partialLines, line)
				if !in.ConfirmPartial && !overridden {
					unconfirmed = append(unconfirmed, line)
				}
			}
			planned[det.ProductID] = planned[det.ProductID].Add(committed)
			plans = append(plans, plan)
		}

		if len(blocking) > 0 {
			// Todo-o-nada: ninguna línea descuenta stock si alguna está en cero.
			return &domain.InsufficientStockError{Products: blocking}
		}
		if len(unconfirmed) > 0 {
			result = dto.AllocationResult{RequiresConfirmation: true, Partials: unconfirmed}
			return errConfirmRequired
		}

		// Fase 2: compromiso. Las filas ya están bloqueadas, así que el descuento
		// devuelve siempre la cantidad planificada.
		now := time.Now()
		assignment := &entity.Assignment{
			ID:         uuid.New().String(),
			RequestID:  req.ID,
			ReceptorID: req.ReceptorID,
			State:      entity.AssignmentStatePending,
			CreatedAt:  now,
		}
		for _, plan := range plans {
			removed, err := productRepo.DecreaseStock(plan.detail.ProductID, plan.committed)
			if err != nil {
				return err
			}
			if removed.LessThan(plan.committed) {
				return domain.ErrConflict
			}
			if err := requestRepo.AddAllocated(plan.detail.ID, removed); err != nil {
				return err
			}
			if plan.lotID != nil {
				if err := lotRepo.MarkAssigned(*plan.lotID); err != nil {
					return err
				}
			}
			assignment.Details = append(assignment.Details, entity.AssignmentDetail{
				ID:           uuid.New().String(),
				AssignmentID: assignment.ID,
				ProductID:    plan.detail.ProductID,
				Quantity:     removed,
				Unit:         plan.detail.Unit,
				LotID:        plan.lotID,
			})
		}

		if err := assignmentRepo.Create(assignment); err != nil {
			return err
		}
		for i := range assignment.Details {
			if err := assignmentRepo.CreateDetail(&assignment.Details[i]); err != nil {
				return err
			}
		}

		// Aprobación y asignación son la misma operación atómica.
		ok, err := requestRepo.UpdateState(req.ID, entity.RequestStatePending, entity.RequestStateApproved)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}

		result = dto.AllocationResult{
			Assignment: dto.NewAssignmentResponse(assignment),
			Partials:   partialLines,
		}
		return nil
	})

	if errors.Is(err, errConfirmRequired) {
		uc.log.Info().Str("request_id", requestID).Int("partial_lines", len(result.Partials)).Msg("asignación detenida: requiere confirmación de parciales")
		return &result, nil
	}
	if err != nil {
		return nil, err
	}

	_ = uc.cache.Delete(ctx, inventory.KeyLowStock)
	uc.log.Info().
		Str("request_id", requestID).
		Str("assignment_id", result.Assignment.ID).
		Int("lines", len(result.Assignment.Details)).
		Int("partial_lines", len(result.Partials)).
		Msg("solicitud aprobada y asignación creada")
	return &result, nil
}

// TransitionAssignment mueve la asignación de estado. entregada exige fecha de
// entrega; cancelada no devuelve stock al libro (la mercancía se da por baja).
func (uc *UseCase) TransitionAssignment(ctx context.Context, id, newState string, deliveryDate *time.Time) error {
	if !entity.ValidAssignmentState(newState) {
		return domain.ErrInvalidInput
	}
	a, err := uc.assignmentRepo.GetByID(id)
	if err != nil {
		return err
	}
	if a == nil {
		return domain.ErrNotFound
	}
	if err := entity.ValidateAssignmentTransition(a.State, newState); err != nil {
		return err
	}
	if newState == entity.AssignmentStateDelivered && deliveryDate == nil {
		return domain.ErrInvalidInput
	}
	if newState != entity.AssignmentStateDelivered {
		deliveryDate = nil
	}
	ok, err := uc.assignmentRepo.UpdateState(id, a.State, newState, deliveryDate)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrConflict
	}
	return nil
}

// GetAssignment devuelve una asignación con sus detalles.
func (uc *UseCase) GetAssignment(ctx context.Context, id string) (*dto.AssignmentResponse, error) {
	a, err := uc.assignmentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewAssignmentResponse(a), nil
}

// ListByState devuelve asignaciones en un estado.
func (uc *UseCase) ListByState(ctx context.Context, state string) ([]dto.AssignmentResponse, error) {
	if !entity.ValidAssignmentState(state) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.assignmentRepo.ListByState(state)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AssignmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *dto.NewAssignmentResponse(a))
	}
	return out, nil
}
