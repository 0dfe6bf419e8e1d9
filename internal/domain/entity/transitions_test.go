package entity_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/donaciones-api/internal/domain"
	"github.com/jhoicas/donaciones-api/internal/domain/entity"
)

func TestValidateDonationTransition(t *testing.T) {
	cases := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{"pendiente a recibida", entity.DonationStatePending, entity.DonationStateReceived, false},
		{"pendiente a rechazada", entity.DonationStatePending, entity.DonationStateRejected, false},
		{"recibida a procesada", entity.DonationStateReceived, entity.DonationStateProcessed, false},
		{"recibida a rechazada", entity.DonationStateReceived, entity.DonationStateRejected, false},
		{"pendiente no salta a procesada", entity.DonationStatePending, entity.DonationStateProcessed, true},
		{"procesada es terminal", entity.DonationStateProcessed, entity.DonationStateReceived, true},
		{"rechazada es terminal", entity.DonationStateRejected, entity.DonationStatePending, true},
		{"sin retroceso", entity.DonationStateReceived, entity.DonationStatePending, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := entity.ValidateDonationTransition(tc.from, tc.to)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrInvalidTransition),
					"la transición rechazada debe mapear a ErrInvalidTransition")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDonationTransition_EstadoDesconocido(t *testing.T) {
	err := entity.ValidateDonationTransition("limbo", entity.DonationStateReceived)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidateRequestTransition(t *testing.T) {
	cases := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{"pendiente a aprobada", entity.RequestStatePending, entity.RequestStateApproved, false},
		{"pendiente a rechazada", entity.RequestStatePending, entity.RequestStateRejected, false},
		{"aprobada a completada", entity.RequestStateApproved, entity.RequestStateCompleted, false},
		{"aprobada a cancelada", entity.RequestStateApproved, entity.RequestStateCancelled, false},
		{"pendiente no salta a completada", entity.RequestStatePending, entity.RequestStateCompleted, true},
		{"rechazada es terminal", entity.RequestStateRejected, entity.RequestStateApproved, true},
		{"completada es terminal", entity.RequestStateCompleted, entity.RequestStateCancelled, true},
		{"cancelada es terminal", entity.RequestStateCancelled, entity.RequestStateApproved, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := entity.ValidateRequestTransition(tc.from, tc.to)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// El error de transición expone los estados permitidos para el cuerpo HTTP 422.
func TestInvalidTransitionError_ExponeEstadosPermitidos(t *testing.T) {
	err := entity.ValidateRequestTransition(entity.RequestStateApproved, entity.RequestStateRejected)
	require.Error(t, err)

	var transErr *domain.InvalidTransitionError
	require.True(t, errors.As(err, &transErr))
	assert.Equal(t, "request", transErr.Entity)
	assert.Equal(t, entity.RequestStateApproved, transErr.From)
	assert.ElementsMatch(t,
		[]string{entity.RequestStateCompleted, entity.RequestStateCancelled},
		transErr.Allowed)
}

func TestValidateAssignmentTransition(t *testing.T) {
	cases := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{"pendiente a entregada", entity.AssignmentStatePending, entity.AssignmentStateDelivered, false},
		{"pendiente a cancelada", entity.AssignmentStatePending, entity.AssignmentStateCancelled, false},
		{"entregada es terminal", entity.AssignmentStateDelivered, entity.AssignmentStateCancelled, true},
		{"cancelada es terminal", entity.AssignmentStateCancelled, entity.AssignmentStatePending, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := entity.ValidateAssignmentTransition(tc.from, tc.to)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidPriority(t *testing.T) {
	assert.True(t, entity.ValidPriority(entity.PriorityLow))
	assert.True(t, entity.ValidPriority(entity.PriorityNormal))
	assert.True(t, entity.ValidPriority(entity.PriorityHigh))
	assert.True(t, entity.ValidPriority(entity.PriorityUrgent))
	assert.False(t, entity.ValidPriority("critica"))
	assert.False(t, entity.ValidPriority(""))
}

func TestValidUnit(t *testing.T) {
	for _, u := range []string{entity.UnitKg, entity.UnitUnit, entity.UnitLiter, entity.UnitBox, entity.UnitBag} {
		assert.True(t, entity.ValidUnit(u), u)
	}
	assert.False(t, entity.ValidUnit("tonelada"))
}
