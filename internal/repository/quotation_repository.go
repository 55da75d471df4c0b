package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"agro-order-service/internal/apperr"
	"agro-order-service/internal/model"
)

type GORMQuotationRepository struct {
	db *gorm.DB
}

func NewGORMQuotationRepository(db *gorm.DB) *GORMQuotationRepository {
	return &GORMQuotationRepository{db: db}
}

func (r *GORMQuotationRepository) Create(ctx context.Context, q *model.Quotation) error {
	return gormErr(r.db.WithContext(ctx).Create(q).Error, "cotización")
}

func (r *GORMQuotationRepository) FindByID(ctx context.Context, id string) (*model.Quotation, error) {
	var q model.Quotation
	if err := r.db.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		return nil, gormErr(err, "cotización")
	}
	return &q, nil
}

func (r *GORMQuotationRepository) ListBySeller(ctx context.Context, sellerID string) ([]model.Quotation, error) {
	return r.list(ctx, "seller_id = ?", sellerID)
}

func (r *GORMQuotationRepository) ListByBuyer(ctx context.Context, buyerID string) ([]model.Quotation, error) {
	return r.list(ctx, "buyer_id = ?", buyerID)
}

func (r *GORMQuotationRepository) ListAll(ctx context.Context) ([]model.Quotation, error) {
	var out []model.Quotation
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, gormErr(err, "cotizaciones")
}

func (r *GORMQuotationRepository) list(ctx context.Context, where string, arg any) ([]model.Quotation, error) {
	var out []model.Quotation
	err := r.db.WithContext(ctx).Where(where, arg).Order("created_at desc").Find(&out).Error
	return out, gormErr(err, "cotizaciones")
}

// Answer solo actualiza si la cotización sigue Pending.
func (r *GORMQuotationRepository) Answer(ctx context.Context, id string, status model.QuotationStatus, offeredCents int64, message string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Quotation{}).
		Where("id = ? AND status = ?", id, model.QuotationPending).
		Updates(map[string]any{
			"status":              status,
			"offered_price_cents": offeredCents,
			"reply_message":       message,
			"replied_at":          at,
			"is_read_by_seller":   true,
			"is_read_by_buyer":    false,
			"updated_at":          at,
		})
	if res.Error != nil {
		return gormErr(res.Error, "cotización")
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("%w: la cotización ya fue respondida", apperr.ErrConflict)
	}
	return nil
}

func (r *GORMQuotationRepository) MarkRead(ctx context.Context, userID string, role model.Role, ids []string) (int64, error) {
	owner, flag := "buyer_id", "is_read_by_buyer"
	if role == model.RoleSeller {
		owner, flag = "seller_id", "is_read_by_seller"
	}
	q := r.db.WithContext(ctx).Model(&model.Quotation{}).
		Where(owner+" = ? AND "+flag+" = ?", userID, false)
	if ids != nil {
		q = q.Where("id IN ?", ids)
	}
	res := q.Update(flag, true)
	return res.RowsAffected, gormErr(res.Error, "cotizaciones")
}

// CountUnread suma las solicitudes nuevas (como vendedor) y las respuestas
// sin ver (como comprador).
func (r *GORMQuotationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var asSeller, asBuyer int64
	db := r.db.WithContext(ctx).Model(&model.Quotation{})
	if err := db.Where("seller_id = ? AND status = ? AND is_read_by_seller = ?", userID, model.QuotationPending, false).
		Count(&asSeller).Error; err != nil {
		return 0, gormErr(err, "cotizaciones")
	}
	db = r.db.WithContext(ctx).Model(&model.Quotation{})
	if err := db.Where("buyer_id = ? AND is_read_by_buyer = ?", userID, false).
		Count(&asBuyer).Error; err != nil {
		return 0, gormErr(err, "cotizaciones")
	}
	return int(asSeller + asBuyer), nil
}
