package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"agro-order-service/internal/model"
	"agro-order-service/internal/repository"
	"agro-order-service/internal/service"
)

const (
	buyerID  = "buyer-1"
	sellerID = "seller-1"
	otherID  = "intruso"
)

type env struct {
	orders     *repository.MemoryOrderRepository
	listings   *repository.GORMListingRepository
	quotations *repository.GORMQuotationRepository
	messages   *repository.GORMMessageRepository
	profiles   *repository.GORMProfileRepository
	subs       *repository.GORMSubscriberRepository
	publisher  *recordingPublisher
	cache      *spyCache
	clock      *fakeClock
	svc        *service.OrderService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := repository.OpenSQLite(":memory:")
	require.NoError(t, err)

	e := &env{
		orders:     repository.NewMemoryOrderRepository(),
		listings:   repository.NewGORMListingRepository(db),
		quotations: repository.NewGORMQuotationRepository(db),
		messages:   repository.NewGORMMessageRepository(db),
		profiles:   repository.NewGORMProfileRepository(db),
		subs:       repository.NewGORMSubscriberRepository(db),
		publisher:  &recordingPublisher{},
		cache:      newSpyCache(),
		clock:      &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
	}
	e.svc = service.NewOrderService(e.orders, e.listings,
		service.WithPublisher(e.publisher),
		service.WithUnreadCache(e.cache),
		service.WithClock(e.clock.Now),
	)
	return e
}

// seedListing crea una publicación aprobada de sellerID a $2.00 el kilo.
func (e *env) seedListing(t *testing.T, id, seller string) *model.Listing {
	t.Helper()
	l := &model.Listing{
		ID:              id,
		SellerID:        seller,
		Name:            "Café verde " + id,
		ImageURL:        "https://img.example/" + id + ".jpg",
		Category:        "cafe",
		PricePerKgCents: 200,
		Status:          model.ListingApproved,
		IsReadBySeller:  true,
		CreatedAt:       e.clock.Now(),
		UpdatedAt:       e.clock.Now(),
	}
	require.NoError(t, e.listings.Create(context.Background(), l))
	return l
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// Now avanza un segundo en cada llamada para que el historial quede ordenado.
func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []service.OrderEvent
	fail   bool
}

func (p *recordingPublisher) Publish(_ context.Context, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker caído")
	}
	if ev, ok := payload.(service.OrderEvent); ok {
		p.events = append(p.events, ev)
	}
	return nil
}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Event
	}
	return out
}

// spyCache guarda en memoria y registra las invalidaciones.
type spyCache struct {
	mu          sync.Mutex
	data        map[string]model.UnreadCounts
	invalidated []string
}

func newSpyCache() *spyCache {
	return &spyCache{data: map[string]model.UnreadCounts{}}
}

func (c *spyCache) Get(_ context.Context, userID string) (*model.UnreadCounts, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[userID]
	if !ok {
		return nil, false
	}
	return &v, true
}

func (c *spyCache) Set(_ context.Context, userID string, counts *model.UnreadCounts) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[userID] = *counts
}

func (c *spyCache) Invalidate(_ context.Context, userIDs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range userIDs {
		delete(c.data, id)
		c.invalidated = append(c.invalidated, id)
	}
}

func (c *spyCache) wasInvalidated(userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range c.invalidated {
		if id == userID {
			return true
		}
	}
	return false
}
