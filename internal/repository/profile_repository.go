package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"agro-order-service/internal/model"
)

type GORMProfileRepository struct {
	db *gorm.DB
}

func NewGORMProfileRepository(db *gorm.DB) *GORMProfileRepository {
	return &GORMProfileRepository{db: db}
}

func (r *GORMProfileRepository) Get(ctx context.Context, userID string) (*model.Profile, error) {
	var p model.Profile
	if err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, gormErr(err, "perfil")
	}
	return &p, nil
}

func (r *GORMProfileRepository) Upsert(ctx context.Context, p *model.Profile) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(p).Error
	return gormErr(err, "perfil")
}

type GORMSubscriberRepository struct {
	db *gorm.DB
}

func NewGORMSubscriberRepository(db *gorm.DB) *GORMSubscriberRepository {
	return &GORMSubscriberRepository{db: db}
}

func (r *GORMSubscriberRepository) Add(ctx context.Context, email string) (*model.Subscriber, error) {
	s := &model.Subscriber{Email: email, CreatedAt: time.Now().UTC()}
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, gormErr(err, "suscriptor")
	}
	return s, nil
}

func (r *GORMSubscriberRepository) List(ctx context.Context) ([]model.Subscriber, error) {
	var out []model.Subscriber
	err := r.db.WithContext(ctx).Order("id asc").Find(&out).Error
	return out, gormErr(err, "suscriptores")
}
