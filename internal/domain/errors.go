package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidTransition = errors.New("transición de estado inválida")
)

// InvalidTransitionError indica un cambio de estado fuera de la tabla de transiciones.
// Allowed lista los estados destino válidos desde From; vacío si From es terminal.
type InvalidTransitionError struct {
	Entity  string
	From    string
	To      string
	Allowed []string
}

func (e *InvalidTransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("%s: transición %q → %q inválida (%q es estado terminal)", e.Entity, e.From, e.To, e.From)
	}
	return fmt.Sprintf("%s: transición %q → %q inválida (permitidas: %s)", e.Entity, e.From, e.To, strings.Join(e.Allowed, ", "))
}

// Is permite errors.Is(err, ErrInvalidTransition).
func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// InsufficientStockError indica líneas bloqueantes: productos solicitados con stock cero.
// La asignación se aborta completa; Products lista los IDs sin existencias.
type InsufficientStockError struct {
	Products []string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: productos sin existencias: %s", strings.Join(e.Products, ", "))
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }
