package repository

import "github.com/jhoicas/donaciones-api/internal/domain/entity"

// LotRepository define el puerto de persistencia para lotes.
type LotRepository interface {
	Create(lot *entity.Lot) error
	GetByID(id string) (*entity.Lot, error)
	// MarkAssigned transiciona el lote disponible → asignada.
	MarkAssigned(id string) error
	// ListExpiring devuelve lotes disponibles cuyo vencimiento cae dentro de
	// withinDays días a partir de hoy.
	ListExpiring(withinDays int) ([]*entity.Lot, error)
}
