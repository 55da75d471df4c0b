package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"agro-order-service/internal/model"
)

type GORMMessageRepository struct {
	db *gorm.DB
}

func NewGORMMessageRepository(db *gorm.DB) *GORMMessageRepository {
	return &GORMMessageRepository{db: db}
}

func (r *GORMMessageRepository) Create(ctx context.Context, m *model.Message) error {
	return gormErr(r.db.WithContext(ctx).Create(m).Error, "mensaje")
}

func (r *GORMMessageRepository) ListForRecipient(ctx context.Context, recipientID string) ([]model.Message, error) {
	var out []model.Message
	err := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID).Order("created_at desc").Find(&out).Error
	return out, gormErr(err, "mensajes")
}

// ListByOrder devuelve la conversación en orden cronológico.
func (r *GORMMessageRepository) ListByOrder(ctx context.Context, orderID string) ([]model.Message, error) {
	var out []model.Message
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at asc").Find(&out).Error
	return out, gormErr(err, "mensajes")
}

func (r *GORMMessageRepository) MarkRead(ctx context.Context, recipientID string, ids []string, at time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID)
	if ids != nil {
		q = q.Where("id IN ?", ids)
	}
	res := q.Update("read_at", at)
	return res.RowsAffected, gormErr(res.Error, "mensajes")
}

func (r *GORMMessageRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).Count(&n).Error
	return int(n), gormErr(err, "mensajes")
}
