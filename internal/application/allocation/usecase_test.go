package allocation_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/donaciones-api/internal/application/allocation"
	"github.com/jhoicas/donaciones-api/internal/application/dto"
	"github.com/jhoicas/donaciones-api/internal/application/inventory"
	"github.com/jhoicas/donaciones-api/internal/domain"
	"github.com/jhoicas/donaciones-api/internal/domain/entity"
	"github.com/jhoicas/donaciones-api/internal/domain/repository"
	"github.com/jhoicas/donaciones-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con semántica transaccional (snapshot + rollback)
// ──────────────────────────────────────────────────────────────────────────────

type store struct {
	mu          sync.Mutex
	products    map[string]*entity.Product
	lots        map[string]*entity.Lot
	requests    map[string]*entity.Request
	assignments map[string]*entity.Assignment
}

func newStore() *store {
	return &store{
		products:    map[string]*entity.Product{},
		lots:        map[string]*entity.Lot{},
		requests:    map[string]*entity.Request{},
		assignments: map[string]*entity.Assignment{},
	}
}

func cloneRequest(r *entity.Request) *entity.Request {
	cp := *r
	cp.Details = append([]entity.RequestDetail(nil), r.Details...)
	return &cp
}

func cloneAssignment(a *entity.Assignment) *entity.Assignment {
	cp := *a
	cp.Details = append([]entity.AssignmentDetail(nil), a.Details...)
	return &cp
}

func (s *store) snapshot() *store {
	snap := newStore()
	for id, p := range s.products {
		cp := *p
		snap.products[id] = &cp
	}
	for id, l := range s.lots {
		cp := *l
		snap.lots[id] = &cp
	}
	for id, r := range s.requests {
		snap.requests[id] = cloneRequest(r)
	}
	for id, a := range s.assignments {
		snap.assignments[id] = cloneAssignment(a)
	}
	return snap
}

func (s *store) restore(snap *store) {
	s.products = snap.products
	s.lots = snap.lots
	s.requests = snap.requests
	s.assignments = snap.assignments
}

// fakeTx emula al runner transaccional: serializa con un mutex y revierte el
// almacén al snapshot si fn devuelve error, igual que un ROLLBACK.
type fakeTx struct{ s *store }

func (f *fakeTx) Run(ctx context.Context, fn func(
	requestRepo repository.RequestRepository,
	assignmentRepo repository.AssignmentRepository,
	productRepo repository.ProductRepository,
	lotRepo repository.LotRepository,
) error) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	snap := f.s.snapshot()
	err := fn(&fakeRequestRepo{f.s}, &fakeAssignmentRepo{f.s}, &fakeProductRepo{f.s}, &fakeLotRepo{f.s})
	if err != nil {
		f.s.restore(snap)
	}
	return err
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios fake (la serialización la da el runner, no los repos)
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct{ s *store }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeProductRepo) ListLowStock() ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.LowStock() {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) IncreaseStock(productID string, quantity decimal.Decimal) error {
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.StockActual = p.StockActual.Add(quantity)
	return nil
}

func (r *fakeProductRepo) DecreaseStock(productID string, quantity decimal.Decimal) (decimal.Decimal, error) {
	if quantity.IsNegative() {
		return decimal.Zero, domain.ErrInvalidInput
	}
	p, ok := r.s.products[productID]
	if !ok {
		return decimal.Zero, domain.ErrNotFound
	}
	removed := decimal.Min(quantity, p.StockActual)
	p.StockActual = p.StockActual.Sub(removed)
	return removed, nil
}

type fakeRequestRepo struct{ s *store }

func (r *fakeRequestRepo) Create(req *entity.Request) error {
	cp := *req
	cp.Details = nil
	r.s.requests[req.ID] = &cp
	return nil
}

func (r *fakeRequestRepo) CreateDetail(det *entity.RequestDetail) error {
	req, ok := r.s.requests[det.RequestID]
	if !ok {
		return domain.ErrNotFound
	}
	req.Details = append(req.Details, *det)
	return nil
}

func (r *fakeRequestRepo) GetByID(id string) (*entity.Request, error) {
	req, ok := r.s.requests[id]
	if !ok {
		return nil, nil
	}
	return cloneRequest(req), nil
}

func (r *fakeRequestRepo) GetForUpdate(id string) (*entity.Request, error) {
	return r.GetByID(id)
}

func (r *fakeRequestRepo) UpdateState(id, from, to string) (bool, error) {
	req, ok := r.s.requests[id]
	if !ok || req.State != from {
		return false, nil
	}
	req.State = to
	return true, nil
}

func (r *fakeRequestRepo) AddAllocated(detailID string, quantity decimal.Decimal) error {
	for _, req := range r.s.requests {
		for i := range req.Details {
			det := &req.Details[i]
			if det.ID != detailID {
				continue
			}
			next := det.QuantityAllocated.Add(quantity)
			if next.GreaterThan(det.QuantityRequested) {
				return fmt.Errorf("cantidad asignada excede la pedida en detalle %s", detailID)
			}
			det.QuantityAllocated = next
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeRequestRepo) ListByState(state string) ([]*entity.Request, error) {
	var out []*entity.Request
	for _, req := range r.s.requests {
		if req.State == state {
			out = append(out, cloneRequest(req))
		}
	}
	return out, nil
}

type fakeLotRepo struct{ s *store }

func (r *fakeLotRepo) Create(l *entity.Lot) error {
	cp := *l
	r.s.lots[l.ID] = &cp
	return nil
}

func (r *fakeLotRepo) GetByID(id string) (*entity.Lot, error) {
	l, ok := r.s.lots[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLotRepo) MarkAssigned(id string) error {
	l, ok := r.s.lots[id]
	if !ok {
		return domain.ErrNotFound
	}
	if l.State != entity.LotStateAvailable {
		return domain.ErrConflict
	}
	l.State = entity.LotStateAssigned
	return nil
}

func (r *fakeLotRepo) ListExpiring(withinDays int) ([]*entity.Lot, error) {
	limit := time.Now().AddDate(0, 0, withinDays)
	var out []*entity.Lot
	for _, l := range r.s.lots {
		if l.State == entity.LotStateAvailable && l.ExpirationDate != nil && !l.ExpirationDate.After(limit) {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeAssignmentRepo struct{ s *store }

func (r *fakeAssignmentRepo) Create(a *entity.Assignment) error {
	cp := *a
	cp.Details = nil
	r.s.assignments[a.ID] = &cp
	return nil
}

func (r *fakeAssignmentRepo) CreateDetail(det *entity.AssignmentDetail) error {
	a, ok := r.s.assignments[det.AssignmentID]
	if !ok {
		return domain.ErrNotFound
	}
	a.Details = append(a.Details, *det)
	return nil
}

func (r *fakeAssignmentRepo) GetByID(id string) (*entity.Assignment, error) {
	a, ok := r.s.assignments[id]
	if !ok {
		return nil, nil
	}
	return cloneAssignment(a), nil
}

func (r *fakeAssignmentRepo) UpdateState(id, from, to string, deliveryDate *time.Time) (bool, error) {
	a, ok := r.s.assignments[id]
	if !ok || a.State != from {
		return false, nil
	}
	a.State = to
	if deliveryDate != nil {
		a.DeliveryDate = deliveryDate
	}
	return true, nil
}

func (r *fakeAssignmentRepo) ListByState(state string) ([]*entity.Assignment, error) {
	var out []*entity.Assignment
	for _, a := range r.s.assignments {
		if a.State == state {
			out = append(out, cloneAssignment(a))
		}
	}
	return out, nil
}

// spyCache registra las invalidaciones para verificar el cableado de caché.
type spyCache struct {
	mu      sync.Mutex
	deleted []string
}

func (c *spyCache) Get(ctx context.Context, key string) (string, error) {
	return "", errors.New("miss")
}
func (c *spyCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (c *spyCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, key)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de escenario
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func addProduct(s *store, id, stock string) {
	s.products[id] = &entity.Product{
		ID:          id,
		Name:        "producto " + id,
		Unit:        entity.UnitKg,
		StockActual: dec(stock),
		StockMinimo: dec("1"),
	}
}

func addRequest(s *store, id string, lines ...entity.RequestDetail) {
	for i := range lines {
		lines[i].RequestID = id
		if lines[i].ID == "" {
			lines[i].ID = fmt.Sprintf("%s-det-%d", id, i)
		}
	}
	s.requests[id] = &entity.Request{
		ID:          id,
		ReceptorID:  "receptor-1",
		State:       entity.RequestStatePending,
		Priority:    entity.PriorityNormal,
		SubmittedAt: time.Now(),
		Details:     lines,
	}
}

func line(productID, requested string) entity.RequestDetail {
	return entity.RequestDetail{
		ProductID:         productID,
		QuantityRequested: dec(requested),
		QuantityAllocated: decimal.Zero,
		Unit:              entity.UnitKg,
	}
}

func newEngine(s *store) (*allocation.UseCase, *spyCache) {
	cache := &spyCache{}
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	uc := allocation.NewUseCase(&fakeTx{s}, &fakeRequestRepo{s}, &fakeAssignmentRepo{s}, cache, log)
	return uc, cache
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ApproveAndAllocate
// ──────────────────────────────────────────────────────────────────────────────

// Stock de sobra: se compromete lo pedido, la solicitud queda aprobada y la
// proyección de stock bajo se invalida.
func TestApproveAndAllocate_CumplimientoTotal(t *testing.T) {
	s := newStore()
	addProduct(s, "arroz", "10")
	addRequest(s, "req-1", line("arroz", "4"))
	uc, cache := newEngine(s)

	res, err := uc.ApproveAndAllocate(context.Background(), "req-1", dto.AllocateRequest{})
	require.NoError(t, err)
	require.NotNil(t, res.Assignment)

	assert.False(t, res.RequiresConfirmation)
	assert.Empty(t, res.Partials, "cumplimiento total no lleva advertencias de parcial")
	require.Len(t, res.Assignment.Details, 1)
	assert.True(t, res.Assignment.Details[0].Quantity.Equal(dec("4")))

	assert.True(t, s.products["arroz"].StockActual.Equal(dec("6")), "el libro debe descontar lo comprometido")
	assert.Equal(t, entity.RequestStateApproved, s.requests["req-1"].State)
	assert.True(t, s.requests["req-1"].Details[0].QuantityAllocated.Equal(dec("4")))
	assert.Equal(t, entity.AssignmentStatePending, s.assignments[res.Assignment.ID].State)
	assert.Contains(t, cache.deleted, inventory.KeyLowStock)
}

// Línea parcial sin confirmación: no se crea asignación ni se toca el almacén.
func TestApproveAndAllocate_ParcialSinConfirmar_PideConfirmacion(t *testing.T) {
	s := newStore()
	addProduct(s, "arroz", "5")
	addRequest(s, "req-1", line("arroz", "8"))
	uc, cache := newEngine(s)

	res, err := uc.ApproveAndAllocate(context.Background(), "req-1", dto.AllocateRequest{})
	require.NoError(t, err)

	assert.True(t, res.RequiresConfirmation)
	assert.Nil(t, res.Assignment)
	require.Len(t, res.Partials, 1)
	assert.Equal(t, "arroz", res.Partials[0].ProductID)
	assert.True(t, res.Partials[0].Requested.Equal(dec("8")))
	assert.True(t, res.Partials[0].Available.Equal(dec("5")))

	// Nada cambió: sin asignación, sin descuento, solicitud sigue pendiente.
	assert.True(t, s.products["arroz"].StockActual.Equal(dec("5")))
	assert.Equal(t, entity.RequestStatePending, s.requests["req-1"].State)
	assert.Empty(t, s.assignments)
	assert.Empty(t, cache.deleted, "sin compromiso no hay invalidación de caché")
}

// ConfirmPartial autoriza min(pedido, disponible) y deja la advertencia.
func TestApproveAndAllocate_ParcialConfirmado(t *testing.T) {
	s := newStore()
	addProduct(s, "arroz", "5")
	addRequest(s, "req-1", line("arroz", "8"))
	uc, _ := newEngine(s)

	res, err := uc.ApproveAndAllocate(context.Background(), "req-1", dto.AllocateRequest{ConfirmPartial: true})
	require.NoError(t, err)
	require.NotNil(t, res.Assignment)

	assert.False(t, res.RequiresConfirmation)
	require.Len(t, res.Partials, 1, "el parcial comprometido queda como advertencia")
	require.Len(t, res.Assignment.Details, 1)
	assert.True(t, res.Assignment.Details[0].Quantity.Equal(dec("5")))

	assert.True(t, s.products["arroz"].StockActual.Equal(decimal.Zero))
	assert.True(t, s.requests["req-1"].Details[0].QuantityAllocated.Equal(dec("5")))
	assert.Equal(t, entity.RequestStateApproved, s.requests["req-1"].State)
}

// Dos líneas del mismo producto consumen del remanente en orden: la segunda se
// clasifica contra lo que queda tras la primera, no contra el stock inicial.
func TestApproveAndAllocate_LineasRepetidasMismoProducto(t *testing.T) {
	s := newStore()
	addProduct(s, "arroz", "10")
	addRequest(s, "req-1", line("arroz", "5"), line("arroz", "8"))
	uc, _ := newEngine(s)

	// Sin confirmación: la segunda línea es parcial (quedan 5 de los 8 pedidos)
	// y no se toca el almacén.
	res, err := uc.ApproveAndAllocate(context.Background(), "req-1", dto.AllocateRequest{})
	require.NoError(t, err)
	assert.True(t, res.RequiresConfirmation)
	assert.Nil(t, res.Assignment)
	require.Len(t, res.Partials, 1)
	assert.True(t, res.Partials[0].Requested.Equal(dec("8")))
	assert.True(t, res.Partials[0].Available.Equal(dec("5")), "la disponibilidad descuenta lo ya planificado en líneas previas")
	assert.True(t, s.products["arroz"].StockActual.Equal(dec("10")))

	// Confirmado: 5 + 5 comprometidos, almacén a cero, solicitud aprobada.
	res, err = uc.ApproveAndAllocate(context.Background(), "req-1", dto.AllocateRequest{ConfirmPartial: true})
	require.NoError(t, err)
	require.NotNil(t, res.Assignment)
	require.Len(t, res.Assignment.Details, 2)
	assert.True(t, res.Assignment.Details[0].Quantity.Equal(dec("5")))
	assert.True(t, res.Assignment.Details[1].Quantity.Equal(dec("5")))
	assert.True(t, s.products["arroz"].StockActual.Equal(decimal.Zero))
	assert.Equal(t, entity.RequestStateApproved, s.requests["req-1"].State)
}

// Si las líneas previas agotan el remanente, la línea repetida es bloqueante.
func TestApproveAndAllocate_LineaRepetidaSinRemanente(t *testing.T) {
	s := newStore()
	addProduct(s, "arroz", "5")
	addRequest(s, "req-1", line("arroz", "5"), line("arroz", "3"))
	uc, _ := newEngine(s)

	_, err := uc.ApproveAndAllocate(context.Background(), "req-1", dto.AllocateRequest{ConfirmPartial: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, s.products["arroz"].StockActual.Equal(dec("5")))
	assert.Equal(t, entity.RequestStatePending, s.requests["req-1"].State)
}

// Una línea con stock cero bloquea la asignación completa, incluso si las demás
// podrían cumplirse.
func TestApproveAndAllocate_LineaBloqueante_AbortaTodo(t *testing.T) {
	s := newStore()
	addProduct(s, "arroz", "10")
	addProduct(s, "aceite", "0")
	addRequest(s, "req-1", line("arroz", "4"), line("aceite", "2"))
	uc, _ := newEngine(s)

	_, err := uc.ApproveAndAllocate(context.Background(), "req-1", dto.AllocateRequest{ConfirmPartial: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, []string{"aceite"}, stockErr.Products)

	// Todo-o-nada: la línea cumplible tampoco descontó.
	assert.True(t, s.products["arroz"].StockActual.Equal(dec("10")))
	assert.Equal(t, entity.RequestStatePending, s.requests["req-1"].State)
	assert.Empty(t, s.assignments)
}

// El override confirma una cantidad menor para un producto concreto y puede
// señalar el lote comprometido, que queda asignado.
func TestApproveAndAllocate_OverrideConLote(t *testing.T) {
	s := newStore()
	addProduct(s, "arroz", "5")
	addRequest(s, "req-1", line("arroz", "8"))
	s.lots["lote-1"] = &entity.Lot{
		ID:        "lote-1",
		ProductID: "arroz",
		Quantity:  dec("5"),
		State:     entity.LotStateAvailable,
	}
	uc, _ := newEngine(s)

	res, err := uc.ApproveAndAllocate(context.Background(), "req-1", dto.AllocateRequest{
		Overrides: []dto.AllocateOverride{{ProductID: "arroz", Quantity: dec("3"), LotID: "lote-1"}},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Assignment)

	require.Len(t, res.Assignment.Details, 1)
	det := res.Assignment.Details[0]
	assert.True(t, det.Quantity.Equal(dec("3")), "el override limita lo comprometido")
	require.NotNil(t, det.LotID)
	assert.Equal(t, "lote-1", *det.LotID)

	assert.True(t, s.products["arroz"].StockActual.Equal(dec("2")))
	assert.Equal(t, entity.LotStateAssigned, s.lots["lote-1"].State)
}

func TestApproveAndAllocate_OverrideInvalido(t *testing.T) {
	cases := []struct {
		name     string
		override dto.AllocateOverride
	}{
		{"cantidad mayor a la pedida", dto.AllocateOverride{ProductID: "arroz", Quantity: dec("9")}},
		{"producto fuera de la solicitud", dto.AllocateOverride{ProductID: "lentejas", Quantity: dec("1")}},
		{"lote de otro producto", dto.AllocateOverride{ProductID: "arroz", Quantity: dec("2"), LotID: "lote-aceite"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore()
			addProduct(s, "arroz", "5")
			addRequest(s, "req-1", line("arroz", "8"))
			s.lots["lote-aceite"] = &entity.Lot{ID: "lote-aceite", ProductID: "aceite", Quantity: dec("2"), State: entity.LotStateAvailable}
			uc, _ := newEngine(s)

			_, err := uc.ApproveAndAllocate(context.Background(), "req-1", dto.AllocateRequest{
				Overrides: []dto.AllocateOverride{tc.override},
			})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.True(t, s.products["arroz"].StockActual.Equal(dec("5")))
		})
	}
}

// Solo solicitudes pendientes se asignan; el resto es transición inválida.
func TestApproveAndAllocate_SolicitudNoPendiente(t *testing.T) {
	s := newStore()
	addProduct(s, "arroz", "10")
	addRequest(s, "req-1", line("arroz", "4"))
	s.requests["req-1"].State = entity.RequestStateApproved
	uc, _ := newEngine(s)

	_, err := uc.ApproveAndAllocate(context.Background(), "req-1", dto.AllocateRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestApproveAndAllocate_SolicitudInexistente(t *testing.T) {
	s := newStore()
	uc, _ := newEngine(s)

	_, err := uc.ApproveAndAllocate(context.Background(), "no-existe", dto.AllocateRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Conservación de stock bajo concurrencia: N asignaciones simultáneas contra el
// mismo producto nunca comprometen más de lo que había ni dejan el libro negativo.
func TestApproveAndAllocate_ConcurrenciaConservaStock(t *testing.T) {
	const workers = 16
	s := newStore()
	addProduct(s, "arroz", "40")
	for i := 0; i < workers; i++ {
		addRequest(s, fmt.Sprintf("req-%d", i), line("arroz", "5"))
	}
	uc, _ := newEngine(s)

	var wg sync.WaitGroup
	results := make([]*dto.AllocationResult, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = uc.ApproveAndAllocate(context.Background(),
				fmt.Sprintf("req-%d", i), dto.AllocateRequest{ConfirmPartial: true})
		}(i)
	}
	wg.Wait()

	total := decimal.Zero
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			// Solo se admite fallo por stock agotado al llegar tarde.
			assert.ErrorIs(t, errs[i], domain.ErrInsufficientStock)
			continue
		}
		require.NotNil(t, results[i].Assignment)
		for _, det := range results[i].Assignment.Details {
			total = total.Add(det.Quantity)
		}
	}

	remaining := s.products["arroz"].StockActual
	assert.False(t, remaining.IsNegative(), "el libro nunca queda negativo")
	assert.True(t, total.Add(remaining).Equal(dec("40")),
		"comprometido + restante debe igualar el stock inicial, total=%s restante=%s", total, remaining)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests TransitionAssignment
// ──────────────────────────────────────────────────────────────────────────────

func seedAssignment(s *store, id, state string) {
	s.assignments[id] = &entity.Assignment{
		ID:         id,
		RequestID:  "req-1",
		ReceptorID: "receptor-1",
		State:      state,
		CreatedAt:  time.Now(),
	}
}

func TestTransitionAssignment_EntregadaExigeFecha(t *testing.T) {
	s := newStore()
	seedAssignment(s, "asg-1", entity.AssignmentStatePending)
	uc, _ := newEngine(s)

	err := uc.TransitionAssignment(context.Background(), "asg-1", entity.AssignmentStateDelivered, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, entity.AssignmentStatePending, s.assignments["asg-1"].State)

	when := time.Now()
	err = uc.TransitionAssignment(context.Background(), "asg-1", entity.AssignmentStateDelivered, &when)
	require.NoError(t, err)
	assert.Equal(t, entity.AssignmentStateDelivered, s.assignments["asg-1"].State)
	require.NotNil(t, s.assignments["asg-1"].DeliveryDate)
}

// Cancelar una asignación no devuelve stock: la mercancía comprometida se da por baja.
func TestTransitionAssignment_CancelarNoDevuelveStock(t *testing.T) {
	s := newStore()
	addProduct(s, "arroz", "6")
	seedAssignment(s, "asg-1", entity.AssignmentStatePending)
	uc, _ := newEngine(s)

	err := uc.TransitionAssignment(context.Background(), "asg-1", entity.AssignmentStateCancelled, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.AssignmentStateCancelled, s.assignments["asg-1"].State)
	assert.True(t, s.products["arroz"].StockActual.Equal(dec("6")))
}

func TestTransitionAssignment_EstadoTerminal(t *testing.T) {
	s := newStore()
	seedAssignment(s, "asg-1", entity.AssignmentStateDelivered)
	uc, _ := newEngine(s)

	err := uc.TransitionAssignment(context.Background(), "asg-1", entity.AssignmentStateCancelled, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransitionAssignment_Inexistente(t *testing.T) {
	s := newStore()
	uc, _ := newEngine(s)

	err := uc.TransitionAssignment(context.Background(), "no-existe", entity.AssignmentStateCancelled, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
