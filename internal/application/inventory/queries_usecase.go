package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/donaciones-api/internal/application/dto"
	"github.com/jhoicas/donaciones-api/internal/domain"
	"github.com/jhoicas/donaciones-api/internal/domain/repository"
	"github.com/jhoicas/donaciones-api/internal/infrastructure/cache"
)

// Claves de caché de las proyecciones de inventario. El procesamiento de
// donaciones y el motor de asignación invalidan KeyLowStock al mutar stock.
const (
	KeyLowStock = "inventory:low_stock"
	cacheTTL    = 30 * time.Second
)

// KeyExpiringLots clave de caché para lotes por vencer dentro de withinDays días.
func KeyExpiringLots(withinDays int) string {
	return fmt.Sprintf("inventory:expiring_lots:%d", withinDays)
}

// QueriesUseCase consultas de inventario: productos bajo umbral y lotes por vencer.
// Son proyecciones puras sobre el libro de existencias; se cachean con TTL corto.
type QueriesUseCase struct {
	productRepo repository.ProductRepository
	lotRepo     repository.LotRepository
	cache       cache.Client
}

// NewQueriesUseCase construye el caso de uso.
func NewQueriesUseCase(
	productRepo repository.ProductRepository,
	lotRepo repository.LotRepository,
	c cache.Client,
) *QueriesUseCase {
	if c == nil {
		c = cache.Noop{}
	}
	return &QueriesUseCase{productRepo: productRepo, lotRepo: lotRepo, cache: c}
}

// LowStockProducts devuelve los productos con stock_actual <= stock_minimo.
func (uc *QueriesUseCase) LowStockProducts(ctx context.Context) ([]dto.LowStockProductDTO, error) {
	if cached, err := uc.cache.Get(ctx, KeyLowStock); err == nil {
		var list []dto.LowStockProductDTO
		if json.Unmarshal([]byte(cached), &list) == nil {
			return list, nil
		}
	}

	products, err := uc.productRepo.ListLowStock()
	if err != nil {
		return nil, err
	}
	list := make([]dto.LowStockProductDTO, 0, len(products))
	for _, p := range products {
		list = append(list, dto.LowStockProductDTO{
			ProductID:   p.ID,
			Name:        p.Name,
			Unit:        p.Unit,
			StockActual: p.StockActual,
			StockMinimo: p.StockMinimo,
			Deficit:     p.StockMinimo.Sub(p.StockActual),
		})
	}

	if payload, err := json.Marshal(list); err == nil {
		_ = uc.cache.Set(ctx, KeyLowStock, payload, cacheTTL)
	}
	return list, nil
}

// ExpiringLots devuelve los lotes disponibles que vencen dentro de withinDays días.
func (uc *QueriesUseCase) ExpiringLots(ctx context.Context, withinDays int) ([]dto.ExpiringLotDTO, error) {
	if withinDays <= 0 {
		return nil, domain.ErrInvalidInput
	}

	key := KeyExpiringLots(withinDays)
	if cached, err := uc.cache.Get(ctx, key); err == nil {
		var list []dto.ExpiringLotDTO
		if json.Unmarshal([]byte(cached), &list) == nil {
			return list, nil
		}
	}

	lots, err := uc.lotRepo.ListExpiring(withinDays)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	list := make([]dto.ExpiringLotDTO, 0, len(lots))
	for _, l := range lots {
		if l.ExpirationDate == nil {
			continue
		}
		daysLeft := int(l.ExpirationDate.Sub(now).Hours() / 24)
		if daysLeft < 0 {
			daysLeft = 0
		}
		list = append(list, dto.ExpiringLotDTO{
			LotID:          l.ID,
			ProductID:      l.ProductID,
			Quantity:       l.Quantity,
			ExpirationDate: *l.ExpirationDate,
			DaysLeft:       daysLeft,
		})
	}

	if payload, err := json.Marshal(list); err == nil {
		_ = uc.cache.Set(ctx, key, payload, cacheTTL)
	}
	return list, nil
}
