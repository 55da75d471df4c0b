package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agro-order-service/internal/apperr"
	"agro-order-service/internal/dto"
	"agro-order-service/internal/model"
)

func TestCheckTransition(t *testing.T) {
	cases := []struct {
		current, target model.OrderStatus
		role            model.Role
		want            error
	}{
		{model.StatusPending, model.StatusPreparing, model.RoleSeller, nil},
		{model.StatusPending, model.StatusDelivered, model.RoleSeller, nil},
		{model.StatusInTransit, model.StatusDelivered, model.RoleBuyer, nil},
		{model.StatusPending, model.StatusDelivered, model.RoleBuyer, nil},
		{model.StatusPreparing, model.StatusInTransit, model.RoleAdmin, nil},
		{model.StatusPending, model.StatusPreparing, model.RoleBuyer, apperr.ErrInvalidTransition},
		{model.StatusPreparing, model.StatusPending, model.RoleSeller, apperr.ErrInvalidTransition},
		{model.StatusPreparing, model.StatusPreparing, model.RoleSeller, apperr.ErrInvalidTransition},
		{model.StatusDelivered, model.StatusDelivered, model.RoleBuyer, apperr.ErrInvalidTransition},
		{model.StatusDelivered, "Cancelado", model.RoleSeller, apperr.ErrInvalidTransition},
		{model.StatusPending, "Cancelado", model.RoleSeller, apperr.ErrValidation},
		{model.StatusPending, model.StatusPreparing, "", apperr.ErrInvalidTransition},
	}
	for _, tc := range cases {
		err := CheckTransition(tc.current, tc.target, tc.role)
		if tc.want == nil {
			assert.NoError(t, err, "%s %s->%s", tc.role, tc.current, tc.target)
			continue
		}
		assert.ErrorIs(t, err, tc.want, "%s %s->%s", tc.role, tc.current, tc.target)
	}
}

func TestTransitionWarning(t *testing.T) {
	assert.Empty(t, transitionWarning(model.StatusPending, model.StatusPreparing))
	w := transitionWarning(model.StatusPreparing, model.StatusDelivered)
	assert.Contains(t, w, "InTransit")
	assert.NotContains(t, w, "Preparing,")
}

func TestReadFlagsAfter(t *testing.T) {
	assert.Equal(t, model.ReadFlags{Buyer: true}, readFlagsAfter(model.RoleBuyer))
	assert.Equal(t, model.ReadFlags{Seller: true}, readFlagsAfter(model.RoleSeller))
	assert.Equal(t, model.ReadFlags{}, readFlagsAfter(model.RoleAdmin))
}

func sampleOrder() *model.Order {
	t0 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	return &model.Order{
		OrderID:        "o-1",
		BuyerID:        "b",
		SellerID:       "s",
		Product:        model.ProductSnapshot{Name: "Cacao", PricePerKgCent: 200},
		QuantityKg:     100,
		UnitPriceCents: 200,
		SubtotalCents:  20000,
		TaxCents:       3200,
		ShippingCents:  8000,
		TotalCents:     31200,
		Status:         model.StatusPreparing,
		TrackingHistory: []model.TrackingEntry{
			{Status: model.StatusPending, Timestamp: t0},
			{Status: model.StatusPreparing, Timestamp: t0.Add(time.Hour)},
		},
		IsReadByBuyer:  false,
		IsReadBySeller: true,
	}
}

func TestProject_PerRole(t *testing.T) {
	o := sampleOrder()

	seller, err := Project(o, "s")
	require.NoError(t, err)
	assert.Equal(t, model.RoleSeller, seller.ViewerRole)
	assert.True(t, seller.IsRead)
	assert.Equal(t, "312.00", seller.TotalPrice)
	require.Len(t, seller.Actions, 2)
	assert.Equal(t, dto.ActionAdvance, seller.Actions[0].Type)
	assert.Equal(t, []model.OrderStatus{model.StatusInTransit}, seller.Actions[0].Targets)
	assert.Equal(t, dto.ActionJump, seller.Actions[1].Type)
	assert.Equal(t, []model.OrderStatus{model.StatusInTransit, model.StatusDelivered}, seller.Actions[1].Targets)

	buyer, err := Project(o, "b")
	require.NoError(t, err)
	assert.False(t, buyer.IsRead)
	require.Len(t, buyer.Actions, 1)
	assert.Equal(t, dto.ActionConfirmDelivery, buyer.Actions[0].Type)

	// mismo historial, más nuevo primero, en ambas vistas
	assert.Equal(t, seller.TrackingHistory, buyer.TrackingHistory)
	assert.Equal(t, model.StatusPreparing, buyer.TrackingHistory[0].Status)

	_, err = Project(o, "x")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestProject_DoesNotMutateHistory(t *testing.T) {
	o := sampleOrder()
	_, err := Project(o, "b")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, o.TrackingHistory[0].Status)
}
