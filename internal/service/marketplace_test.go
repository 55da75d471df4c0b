package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agro-order-service/internal/apperr"
	"agro-order-service/internal/dto"
	"agro-order-service/internal/model"
	"agro-order-service/internal/service"
)

func quotationReq(productID string) dto.CreateQuotationRequest {
	return dto.CreateQuotationRequest{
		ProductID:          productID,
		BuyerName:          "Ana",
		BuyerEmail:         "ana@example.com",
		QuantityKg:         500,
		DestinationCountry: "España",
		EstimatedDate:      time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		TargetPrice:        "1.75",
		Incoterm:           "CIF",
	}
}

func TestQuotation_CreateReplyOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seedListing(t, "l-1", sellerID)
	qs := service.NewQuotationService(e.quotations, e.listings, e.cache)

	q, err := qs.Create(ctx, buyerID, quotationReq("l-1"))
	require.NoError(t, err)
	assert.Equal(t, sellerID, q.SellerID)
	assert.Equal(t, int64(175), q.TargetPriceCents)
	assert.Equal(t, model.QuotationPending, q.Status)
	assert.False(t, q.IsReadBySeller)

	replied, err := qs.Reply(ctx, q.ID, sellerID, dto.ReplyQuotationRequest{OfferedPrice: "1.90", Message: "disponible"})
	require.NoError(t, err)
	assert.Equal(t, model.QuotationReplied, replied.Status)
	assert.Equal(t, int64(190), replied.OfferedPriceCents)
	assert.False(t, replied.IsReadByBuyer)
	require.NotNil(t, replied.RepliedAt)

	// el estado se fija una sola vez
	_, err = qs.Reject(ctx, q.ID, sellerID, "")
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	received, err := qs.ListForSeller(ctx, sellerID)
	require.NoError(t, err)
	assert.Len(t, received, 1)
	sent, err := qs.ListForBuyer(ctx, buyerID)
	require.NoError(t, err)
	assert.Len(t, sent, 1)

	n, err := qs.MarkRead(ctx, buyerID, model.RoleBuyer, nil, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = qs.MarkRead(ctx, buyerID, model.RoleBuyer, nil, true)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestQuotation_Errors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seedListing(t, "l-1", sellerID)
	qs := service.NewQuotationService(e.quotations, e.listings, nil)

	bad := quotationReq("l-1")
	bad.BuyerEmail = "no-es-un-correo"
	_, err := qs.Create(ctx, buyerID, bad)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	bad = quotationReq("l-1")
	bad.Incoterm = "XYZ"
	_, err = qs.Create(ctx, buyerID, bad)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = qs.Create(ctx, sellerID, quotationReq("l-1"))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	q, err := qs.Create(ctx, buyerID, quotationReq("l-1"))
	require.NoError(t, err)

	_, err = qs.Reply(ctx, q.ID, otherID, dto.ReplyQuotationRequest{})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = qs.Get(ctx, q.ID, otherID, false)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = qs.Get(ctx, "nada", buyerID, false)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListing_ReviewAndDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ls := service.NewListingService(e.listings, e.cache)

	l, err := ls.Create(ctx, sellerID, dto.CreateListingRequest{
		Name: "Quinoa real", Category: "granos", PricePerKg: "3.20", MinOrderKg: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ListingPending, l.Status)
	assert.Equal(t, int64(320), l.PricePerKgCents)

	public, err := ls.ListPublic(ctx)
	require.NoError(t, err)
	assert.Empty(t, public)

	reviewed, err := ls.Review(ctx, l.ID, dto.ReviewListingRequest{Approve: true})
	require.NoError(t, err)
	assert.Equal(t, model.ListingApproved, reviewed.Status)
	assert.False(t, reviewed.IsReadBySeller)

	_, err = ls.Review(ctx, l.ID, dto.ReviewListingRequest{Approve: false})
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	public, err = ls.ListPublic(ctx)
	require.NoError(t, err)
	assert.Len(t, public, 1)

	assert.ErrorIs(t, ls.Delete(ctx, l.ID, otherID, false), apperr.ErrForbidden)
	require.NoError(t, ls.Delete(ctx, l.ID, sellerID, false))
	_, err = ls.Get(ctx, l.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListing_MinOrderEnforcedOnPurchase(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ls := service.NewListingService(e.listings, nil)

	l, err := ls.Create(ctx, sellerID, dto.CreateListingRequest{
		Name: "Quinoa real", Category: "granos", PricePerKg: "3.20", MinOrderKg: 100,
	})
	require.NoError(t, err)
	_, err = ls.Review(ctx, l.ID, dto.ReviewListingRequest{Approve: true})
	require.NoError(t, err)

	_, err = e.svc.PlaceOrder(ctx, buyerID, placeReq(l.ID, 50))
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = e.svc.PlaceOrder(ctx, buyerID, placeReq(l.ID, 100))
	assert.NoError(t, err)
}

func TestMessages_OrderConversation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.placeOrder(t)
	ms := service.NewMessageService(e.messages, e.orders, e.cache)

	_, err := ms.Send(ctx, buyerID, dto.SendMessageRequest{RecipientID: sellerID, OrderID: o.OrderID, Body: "¿fecha de envío?"})
	require.NoError(t, err)

	_, err = ms.Send(ctx, otherID, dto.SendMessageRequest{RecipientID: sellerID, OrderID: o.OrderID, Body: "hola"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = ms.Send(ctx, buyerID, dto.SendMessageRequest{RecipientID: otherID, OrderID: o.OrderID, Body: "hola"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = ms.Send(ctx, buyerID, dto.SendMessageRequest{RecipientID: buyerID, Body: "yo"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	conv, err := ms.ForOrder(ctx, o.OrderID, sellerID)
	require.NoError(t, err)
	assert.Len(t, conv, 1)

	_, err = ms.ForOrder(ctx, o.OrderID, otherID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	n, err := ms.MarkRead(ctx, sellerID, nil, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = ms.MarkRead(ctx, sellerID, nil, true)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProfile_MissingFields(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ps := service.NewProfileService(e.profiles, e.cache)

	p, err := ps.Get(ctx, sellerID)
	require.NoError(t, err)
	assert.False(t, p.Complete)
	assert.Len(t, p.MissingFields, 5)

	p, err = ps.Update(ctx, sellerID, dto.UpdateProfileRequest{
		CompanyName: "Finca La Esperanza", Country: "Colombia", Phone: "+57 300", TaxID: "900123", Address: " Calle 5 ",
	})
	require.NoError(t, err)
	assert.True(t, p.Complete)
	assert.Empty(t, p.MissingFields)
	assert.Equal(t, "Calle 5", p.Profile.Address)

	n, err := ps.MissingCount(ctx, sellerID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

type flakyMailer struct {
	failFor map[string]bool
	sent    []string
}

func (m *flakyMailer) Send(_ context.Context, to, _, _ string) error {
	if m.failFor[to] {
		return errors.New("smtp 550")
	}
	m.sent = append(m.sent, to)
	return nil
}

func TestNewsletter_PartialFailure(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	mailer := &flakyMailer{failFor: map[string]bool{"b@example.com": true}}
	ns := service.NewNewsletterService(e.subs, mailer)

	for _, email := range []string{"a@example.com", " B@example.com ", "c@example.com"} {
		_, err := ns.Subscribe(ctx, dto.SubscribeRequest{Email: email})
		require.NoError(t, err)
	}
	_, err := ns.Subscribe(ctx, dto.SubscribeRequest{Email: "a@example.com"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	_, err = ns.Subscribe(ctx, dto.SubscribeRequest{Email: "no"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	res, err := ns.Send(ctx, dto.NewsletterRequest{Subject: "Cosecha 2024", Body: "Novedades"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Sent)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{"b@example.com"}, res.FailedAddresses)
	assert.Equal(t, []string{"a@example.com", "c@example.com"}, mailer.sent)
}

func TestNewsletter_NoSubscribers(t *testing.T) {
	e := newEnv(t)
	ns := service.NewNewsletterService(e.subs, &flakyMailer{})
	_, err := ns.Send(context.Background(), dto.NewsletterRequest{Subject: "x", Body: "y"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
