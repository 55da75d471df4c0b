package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"agro-order-service/internal/apperr"
	"agro-order-service/internal/model"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func quotation(id, seller, buyer string, created time.Time) *model.Quotation {
	return &model.Quotation{
		ID:                 id,
		ProductID:          "l-1",
		SellerID:           seller,
		BuyerID:            buyer,
		BuyerName:          "Ana",
		BuyerEmail:         "ana@example.com",
		QuantityKg:         10,
		DestinationCountry: "Chile",
		EstimatedDate:      created,
		TargetPriceCents:   150,
		Incoterm:           "FOB",
		Status:             model.QuotationPending,
		IsReadByBuyer:      true,
		CreatedAt:          created,
		UpdatedAt:          created,
	}
}

func TestQuotationRepository_AnswerOnce(t *testing.T) {
	r := NewGORMQuotationRepository(testDB(t))
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, r.Create(ctx, quotation("q-1", "s", "b", now)))

	n, err := r.CountUnread(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, r.Answer(ctx, "q-1", model.QuotationReplied, 180, "ok", now))
	assert.ErrorIs(t, r.Answer(ctx, "q-1", model.QuotationRejected, 0, "", now), apperr.ErrConflict)
	assert.ErrorIs(t, r.Answer(ctx, "nada", model.QuotationRejected, 0, "", now), apperr.ErrNotFound)

	q, err := r.FindByID(ctx, "q-1")
	require.NoError(t, err)
	assert.Equal(t, model.QuotationReplied, q.Status)
	assert.Equal(t, int64(180), q.OfferedPriceCents)
	assert.True(t, q.IsReadBySeller)
	assert.False(t, q.IsReadByBuyer)

	// la respuesta pasa a contar para el comprador
	n, err = r.CountUnread(ctx, "s")
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = r.CountUnread(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	marked, err := r.MarkRead(ctx, "b", model.RoleBuyer, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)
	marked, err = r.MarkRead(ctx, "b", model.RoleBuyer, nil)
	require.NoError(t, err)
	assert.Zero(t, marked)
}

func TestQuotationRepository_ListOrder(t *testing.T) {
	r := NewGORMQuotationRepository(testDB(t))
	ctx := context.Background()
	t0 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.Create(ctx, quotation("q-1", "s", "b", t0)))
	require.NoError(t, r.Create(ctx, quotation("q-2", "s", "c", t0.Add(time.Hour))))
	assert.ErrorIs(t, r.Create(ctx, quotation("q-1", "s", "b", t0)), apperr.ErrConflict)

	list, err := r.ListBySeller(ctx, "s")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "q-2", list[0].ID)

	list, err = r.ListByBuyer(ctx, "c")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListingRepository_ReviewAndRead(t *testing.T) {
	r := NewGORMListingRepository(testDB(t))
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, &model.Listing{
		ID: "l-1", SellerID: "s", Name: "Cacao", PricePerKgCents: 500, Status: model.ListingPending, IsReadBySeller: true,
	}))

	n, err := r.CountUnread(ctx, "s")
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, r.Review(ctx, "l-1", model.ListingRejected, "fotos borrosas"))
	assert.ErrorIs(t, r.Review(ctx, "nada", model.ListingApproved, ""), apperr.ErrNotFound)

	l, err := r.FindByID(ctx, "l-1")
	require.NoError(t, err)
	assert.Equal(t, model.ListingRejected, l.Status)
	assert.Equal(t, "fotos borrosas", l.ReviewNote)

	n, err = r.CountUnread(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	marked, err := r.MarkRead(ctx, "s", []string{"l-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)

	rejected, err := r.ListByStatus(ctx, model.ListingRejected)
	require.NoError(t, err)
	assert.Len(t, rejected, 1)

	require.NoError(t, r.Delete(ctx, "l-1"))
	assert.ErrorIs(t, r.Delete(ctx, "l-1"), apperr.ErrNotFound)
}

func TestMessageRepository(t *testing.T) {
	r := NewGORMMessageRepository(testDB(t))
	ctx := context.Background()
	t0 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.Create(ctx, &model.Message{ID: "m-1", OrderID: "o-1", SenderID: "b", RecipientID: "s", Body: "hola", CreatedAt: t0}))
	require.NoError(t, r.Create(ctx, &model.Message{ID: "m-2", OrderID: "o-1", SenderID: "s", RecipientID: "b", Body: "buenas", CreatedAt: t0.Add(time.Minute)}))

	conv, err := r.ListByOrder(ctx, "o-1")
	require.NoError(t, err)
	require.Len(t, conv, 2)
	assert.Equal(t, "m-1", conv[0].ID)

	n, err := r.CountUnread(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	marked, err := r.MarkRead(ctx, "s", nil, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)

	inbox, err := r.ListForRecipient(ctx, "s")
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	require.NotNil(t, inbox[0].ReadAt)
}

func TestProfileRepository_Upsert(t *testing.T) {
	db := testDB(t)
	r := NewGORMProfileRepository(db)
	ctx := context.Background()

	_, err := r.Get(ctx, "u")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, r.Upsert(ctx, &model.Profile{UserID: "u", CompanyName: "Finca"}))
	require.NoError(t, r.Upsert(ctx, &model.Profile{UserID: "u", CompanyName: "Finca Norte", Country: "Perú"}))

	p, err := r.Get(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, "Finca Norte", p.CompanyName)
	assert.Equal(t, []string{"phone", "taxId", "address"}, p.MissingFields())

	subs := NewGORMSubscriberRepository(db)
	_, err = subs.Add(ctx, "a@example.com")
	require.NoError(t, err)
	_, err = subs.Add(ctx, "a@example.com")
	assert.ErrorIs(t, err, apperr.ErrConflict)
	list, err := subs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
