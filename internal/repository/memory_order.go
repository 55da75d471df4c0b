package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"agro-order-service/internal/apperr"
	"agro-order-service/internal/model"
)

// MemoryOrderRepository guarda las órdenes en memoria (ORDER_STORE=memory y tests).
// Devuelve copias para que nadie modifique el historial por fuera.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*model.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{orders: make(map[string]*model.Order)}
}

func (r *MemoryOrderRepository) Create(_ context.Context, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.OrderID]; ok {
		return fmt.Errorf("%w: la orden %s ya existe", apperr.ErrConflict, o.OrderID)
	}
	r.orders[o.OrderID] = cloneOrder(o)
	return nil
}

func (r *MemoryOrderRepository) FindByOrderID(_ context.Context, orderID string) (*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, errOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *MemoryOrderRepository) UpdateStatus(_ context.Context, orderID string, expected model.OrderStatus, entry model.TrackingEntry, flags model.ReadFlags) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, errOrderNotFound
	}
	if o.Status != expected {
		return nil, fmt.Errorf("%w: el estado ya no es %s", apperr.ErrConflict, expected)
	}
	o.Status = entry.Status
	o.TrackingHistory = append(o.TrackingHistory, entry)
	o.IsReadByBuyer = flags.Buyer
	o.IsReadBySeller = flags.Seller
	o.UpdatedAt = entry.Timestamp
	return cloneOrder(o), nil
}

func (r *MemoryOrderRepository) FindAll(_ context.Context) ([]*model.Order, error) {
	return r.filter(func(*model.Order) bool { return true }), nil
}

func (r *MemoryOrderRepository) FindByStatus(_ context.Context, status model.OrderStatus) ([]*model.Order, error) {
	return r.filter(func(o *model.Order) bool { return o.Status == status }), nil
}

func (r *MemoryOrderRepository) FindByParty(_ context.Context, userID string, role model.Role) ([]*model.Order, error) {
	return r.filter(func(o *model.Order) bool { return isParty(o, userID, role) }), nil
}

func (r *MemoryOrderRepository) MarkRead(_ context.Context, userID string, role model.Role, orderIDs []string) (int64, error) {
	var wanted map[string]bool
	if orderIDs != nil {
		wanted = make(map[string]bool, len(orderIDs))
		for _, id := range orderIDs {
			wanted[id] = true
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, o := range r.orders {
		if wanted != nil && !wanted[id] {
			continue
		}
		if !isParty(o, userID, role) {
			continue
		}
		switch role {
		case model.RoleBuyer:
			if !o.IsReadByBuyer {
				o.IsReadByBuyer = true
				n++
			}
		case model.RoleSeller:
			if !o.IsReadBySeller {
				o.IsReadBySeller = true
				n++
			}
		}
	}
	return n, nil
}

func (r *MemoryOrderRepository) filter(keep func(*model.Order) bool) []*model.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Order
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func isParty(o *model.Order, userID string, role model.Role) bool {
	switch role {
	case model.RoleBuyer:
		return o.BuyerID == userID
	case model.RoleSeller:
		return o.SellerID == userID
	}
	return o.BuyerID == userID || o.SellerID == userID
}

func cloneOrder(o *model.Order) *model.Order {
	c := *o
	c.TrackingHistory = append([]model.TrackingEntry(nil), o.TrackingHistory...)
	return &c
}
