package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"agro-order-service/internal/apperr"
	"agro-order-service/internal/model"
)

type GORMListingRepository struct {
	db *gorm.DB
}

func NewGORMListingRepository(db *gorm.DB) *GORMListingRepository {
	return &GORMListingRepository{db: db}
}

func (r *GORMListingRepository) Create(ctx context.Context, l *model.Listing) error {
	return gormErr(r.db.WithContext(ctx).Create(l).Error, "publicación")
}

func (r *GORMListingRepository) FindByID(ctx context.Context, id string) (*model.Listing, error) {
	var l model.Listing
	if err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, gormErr(err, "publicación")
	}
	return &l, nil
}

func (r *GORMListingRepository) ListBySeller(ctx context.Context, sellerID string) ([]model.Listing, error) {
	var out []model.Listing
	err := r.db.WithContext(ctx).Where("seller_id = ?", sellerID).Order("created_at desc").Find(&out).Error
	return out, gormErr(err, "publicaciones")
}

func (r *GORMListingRepository) ListByStatus(ctx context.Context, status model.ListingStatus) ([]model.Listing, error) {
	var out []model.Listing
	err := r.db.WithContext(ctx).Where("status = ?", status).Order("created_at desc").Find(&out).Error
	return out, gormErr(err, "publicaciones")
}

func (r *GORMListingRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Listing{}, "id = ?", id)
	if res.Error != nil {
		return gormErr(res.Error, "publicación")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: publicación %s no encontrada", apperr.ErrNotFound, id)
	}
	return nil
}

// Review deja la publicación sin leer para el vendedor.
func (r *GORMListingRepository) Review(ctx context.Context, id string, status model.ListingStatus, note string) error {
	res := r.db.WithContext(ctx).Model(&model.Listing{}).Where("id = ?", id).
		Updates(map[string]any{
			"status":            status,
			"review_note":       note,
			"is_read_by_seller": false,
			"updated_at":        time.Now().UTC(),
		})
	if res.Error != nil {
		return gormErr(res.Error, "publicación")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: publicación %s no encontrada", apperr.ErrNotFound, id)
	}
	return nil
}

func (r *GORMListingRepository) MarkRead(ctx context.Context, sellerID string, ids []string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Listing{}).
		Where("seller_id = ? AND is_read_by_seller = ?", sellerID, false)
	if ids != nil {
		q = q.Where("id IN ?", ids)
	}
	res := q.Update("is_read_by_seller", true)
	return res.RowsAffected, gormErr(res.Error, "publicaciones")
}

func (r *GORMListingRepository) CountUnread(ctx context.Context, sellerID string) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Listing{}).
		Where("seller_id = ? AND is_read_by_seller = ?", sellerID, false).Count(&n).Error
	return int(n), gormErr(err, "publicaciones")
}
