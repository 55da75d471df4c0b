package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"agro-order-service/internal/dto"
	"agro-order-service/internal/model"
)

const recentActivityLimit = 10

// DashboardService arma KPIs, embudo y actividad reciente. Nada se guarda:
// cada llamada recalcula desde órdenes, cotizaciones y publicaciones.
type DashboardService struct {
	orders     OrderRepository
	quotations QuotationRepository
	listings   ListingRepository
	now        func() time.Time
}

func NewDashboardService(orders OrderRepository, quotations QuotationRepository, listings ListingRepository) *DashboardService {
	return &DashboardService{
		orders:     orders,
		quotations: quotations,
		listings:   listings,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *DashboardService) Build(ctx context.Context, userID string) (*dto.Dashboard, error) {
	orders, err := s.orders.FindByParty(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	received, err := s.quotations.ListBySeller(ctx, userID)
	if err != nil {
		return nil, err
	}
	sent, err := s.quotations.ListByBuyer(ctx, userID)
	if err != nil {
		return nil, err
	}
	listings, err := s.listings.ListBySeller(ctx, userID)
	if err != nil {
		return nil, err
	}

	var asBuyer, asSeller []*model.Order
	for _, o := range orders {
		switch o.RoleOf(userID) {
		case model.RoleBuyer:
			asBuyer = append(asBuyer, o)
		case model.RoleSeller:
			asSeller = append(asSeller, o)
		}
	}

	isBuyer := len(asBuyer) > 0 || len(sent) > 0
	isSeller := len(asSeller) > 0 || len(received) > 0 || len(listings) > 0

	d := &dto.Dashboard{ActivityType: ActivityTypeOf(isBuyer, isSeller)}
	if isSeller {
		d.Seller = &dto.SellerDashboard{
			KPIs:     sellerKPIs(asSeller, received, s.now()),
			Pipeline: buildPipeline(asSeller, received),
		}
	}
	if isBuyer {
		d.Buyer = &dto.BuyerDashboard{
			KPIs:     buyerKPIs(asBuyer, sent),
			Pipeline: buildPipeline(asBuyer, sent),
		}
	}
	d.RecentActivity = recentActivity(userID, orders, received, sent, listings)
	return d, nil
}

func ActivityTypeOf(isBuyer, isSeller bool) dto.ActivityType {
	switch {
	case isBuyer && isSeller:
		return dto.ActivityMixed
	case isBuyer:
		return dto.ActivityBuyer
	case isSeller:
		return dto.ActivitySeller
	}
	return dto.ActivityEmpty
}

func sellerKPIs(orders []*model.Order, received []model.Quotation, now time.Time) dto.SellerKPIs {
	var k dto.SellerKPIs
	since := now.AddDate(0, 0, -7)
	negotiation := decimal.Zero

	for _, q := range received {
		if !q.CreatedAt.Before(since) {
			k.QuotationsLast7Days++
		}
		switch q.Status {
		case model.QuotationPending:
			k.PendingQuotations++
			negotiation = negotiation.Add(quotationValue(q.TargetPriceCents, q.QuantityKg))
		case model.QuotationReplied:
			negotiation = negotiation.Add(quotationValue(q.OfferedPriceCents, q.QuantityKg))
		}
	}
	for _, o := range orders {
		if o.Status != model.StatusPending {
			k.ConfirmedOrders++
		}
	}
	k.InNegotiationValue = negotiation.StringFixed(2)
	return k
}

func buyerKPIs(orders []*model.Order, sent []model.Quotation) dto.BuyerKPIs {
	var k dto.BuyerKPIs
	k.RequestsSent = len(sent)
	for _, q := range sent {
		if q.Status == model.QuotationReplied {
			k.QuotationsReceived++
		}
	}
	var purchased int64
	for _, o := range orders {
		if !o.Status.IsFinal() {
			k.OrdersInProcess++
		}
		purchased += o.TotalCents
	}
	k.AmountPurchased = dto.FormatCents(purchased)
	return k
}

// buildPipeline: solicitud, cotizada, negociación (orden Pending) y confirmada.
func buildPipeline(orders []*model.Order, quotations []model.Quotation) dto.Pipeline {
	p := dto.Pipeline{Request: len(quotations)}
	for _, q := range quotations {
		if q.Status == model.QuotationReplied {
			p.Quoted++
		}
	}
	for _, o := range orders {
		if o.Status == model.StatusPending {
			p.Negotiation++
		} else {
			p.Confirmed++
		}
	}
	return p
}

func quotationValue(priceCents int64, qty float64) decimal.Decimal {
	return decimal.New(priceCents, -2).Mul(decimal.NewFromFloat(qty))
}

func recentActivity(userID string, orders []*model.Order, received, sent []model.Quotation, listings []model.Listing) []dto.ActivityEntry {
	var out []dto.ActivityEntry
	for _, o := range orders {
		role := o.RoleOf(userID)
		for _, e := range o.TrackingHistory {
			out = append(out, dto.ActivityEntry{
				Kind:      "order",
				Role:      string(role),
				RefID:     o.OrderID,
				Title:     o.Product.Name,
				Status:    string(e.Status),
				Timestamp: e.Timestamp,
			})
		}
	}
	addQuotation := func(q model.Quotation, role model.Role) {
		out = append(out, dto.ActivityEntry{
			Kind:      "quotation",
			Role:      string(role),
			RefID:     q.ID,
			Title:     q.ProductName,
			Status:    string(model.QuotationPending),
			Timestamp: q.CreatedAt,
		})
		if q.RepliedAt != nil {
			out = append(out, dto.ActivityEntry{
				Kind:      "quotation",
				Role:      string(role),
				RefID:     q.ID,
				Title:     q.ProductName,
				Status:    string(q.Status),
				Timestamp: *q.RepliedAt,
			})
		}
	}
	for _, q := range received {
		addQuotation(q, model.RoleSeller)
	}
	for _, q := range sent {
		addQuotation(q, model.RoleBuyer)
	}
	for _, l := range listings {
		out = append(out, dto.ActivityEntry{
			Kind:      "listing",
			Role:      string(model.RoleSeller),
			RefID:     l.ID,
			Title:     l.Name,
			Status:    string(l.Status),
			Timestamp: l.UpdatedAt,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > recentActivityLimit {
		out = out[:recentActivityLimit]
	}
	if out == nil {
		out = []dto.ActivityEntry{}
	}
	return out
}
