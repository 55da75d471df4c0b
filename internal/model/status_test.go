package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusRankIsStrict(t *testing.T) {
	assert.Equal(t, 0, StatusPending.Rank())
	assert.Equal(t, 3, StatusDelivered.Rank())
	assert.Less(t, StatusPreparing.Rank(), StatusInTransit.Rank())
	assert.Equal(t, -1, OrderStatus("Cancelado").Rank())
	assert.False(t, OrderStatus("").Valid())
}

func TestStatusNextAndAbove(t *testing.T) {
	next, ok := StatusPreparing.Next()
	assert.True(t, ok)
	assert.Equal(t, StatusInTransit, next)

	_, ok = StatusDelivered.Next()
	assert.False(t, ok)

	assert.Equal(t, []OrderStatus{StatusPreparing, StatusInTransit, StatusDelivered}, StatusPending.Above())
	assert.Empty(t, StatusDelivered.Above())
}

func TestStatusBetween(t *testing.T) {
	assert.Equal(t, []OrderStatus{StatusPreparing, StatusInTransit}, StatusPending.Between(StatusDelivered))
	assert.Nil(t, StatusPending.Between(StatusPreparing))
	assert.Nil(t, StatusInTransit.Between(StatusPending))
}

func TestOrderRoleOf(t *testing.T) {
	o := &Order{BuyerID: "b", SellerID: "s"}
	assert.Equal(t, RoleBuyer, o.RoleOf("b"))
	assert.Equal(t, RoleSeller, o.RoleOf("s"))
	assert.Equal(t, Role(""), o.RoleOf("x"))
	assert.Equal(t, Role(""), o.RoleOf(""))
}

func TestProfileMissingFields(t *testing.T) {
	p := &Profile{CompanyName: "Agro SA", Country: "México"}
	assert.Equal(t, []string{"phone", "taxId", "address"}, p.MissingFields())
}
