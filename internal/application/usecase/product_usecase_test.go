package usecase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/donaciones-api/internal/application/dto"
	"github.com/jhoicas/donaciones-api/internal/application/usecase"
	"github.com/jhoicas/donaciones-api/internal/domain"
	"github.com/jhoicas/donaciones-api/internal/domain/entity"
)

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*entity.Product{}}
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }

func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.products))
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeProductRepo) ListLowStock() ([]*entity.Product, error) { return nil, nil }

func (r *fakeProductRepo) IncreaseStock(productID string, quantity decimal.Decimal) error {
	return nil
}

func (r *fakeProductRepo) DecreaseStock(productID string, quantity decimal.Decimal) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func TestProductCreate_StockInicialCero(t *testing.T) {
	repo := newFakeProductRepo()
	uc := usecase.NewProductUseCase(repo)

	resp, err := uc.Create(dto.CreateProductRequest{
		Name:        "Arroz blanco",
		Unit:        entity.UnitKg,
		StockMinimo: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	assert.True(t, resp.StockActual.Equal(decimal.Zero),
		"el stock solo entra por donaciones procesadas")
	assert.True(t, resp.StockMinimo.Equal(decimal.NewFromInt(10)))
	assert.NotEmpty(t, resp.ID)
}

func TestProductCreate_Invalido(t *testing.T) {
	uc := usecase.NewProductUseCase(newFakeProductRepo())

	cases := []struct {
		name string
		in   dto.CreateProductRequest
	}{
		{"sin nombre", dto.CreateProductRequest{Unit: entity.UnitKg}},
		{"unidad desconocida", dto.CreateProductRequest{Name: "Arroz", Unit: "tonelada"}},
		{"minimo negativo", dto.CreateProductRequest{Name: "Arroz", Unit: entity.UnitKg, StockMinimo: decimal.NewFromInt(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestProductGetByID_NoExiste(t *testing.T) {
	uc := usecase.NewProductUseCase(newFakeProductRepo())

	_, err := uc.GetByID("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLowStock_UmbralInclusivo(t *testing.T) {
	p := &entity.Product{StockActual: decimal.NewFromInt(10), StockMinimo: decimal.NewFromInt(10)}
	assert.True(t, p.LowStock(), "stock igual al mínimo también es stock bajo")

	p.StockActual = decimal.NewFromInt(11)
	assert.False(t, p.LowStock())
}
