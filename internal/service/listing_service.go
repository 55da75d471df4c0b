package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agro-order-service/internal/apperr"
	"agro-order-service/internal/dto"
	"agro-order-service/internal/logger"
	"agro-order-service/internal/model"
)

type ListingService struct {
	repo  ListingRepository
	cache UnreadCache
	now   func() time.Time
}

func NewListingService(repo ListingRepository, cache UnreadCache) *ListingService {
	if cache == nil {
		cache = nopCache{}
	}
	return &ListingService{repo: repo, cache: cache, now: func() time.Time { return time.Now().UTC() }}
}

// Create deja la publicación en revisión hasta que un admin la apruebe.
func (s *ListingService) Create(ctx context.Context, sellerID string, req dto.CreateListingRequest) (*model.Listing, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	price, err := parseAmountCents(req.PricePerKg)
	if err != nil {
		return nil, err
	}
	if price <= 0 {
		return nil, fmt.Errorf("%w: pricePerKg debe ser mayor a cero", apperr.ErrValidation)
	}

	now := s.now()
	l := &model.Listing{
		ID:              uuid.NewString(),
		SellerID:        sellerID,
		Name:            req.Name,
		Description:     req.Description,
		ImageURL:        req.ImageURL,
		Category:        req.Category,
		PricePerKgCents: price,
		MinOrderKg:      req.MinOrderKg,
		StockKg:         req.StockKg,
		OriginCountry:   req.OriginCountry,
		Status:          model.ListingPending,
		IsReadBySeller:  true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	logger.Info("publicación creada", zap.String("listingId", l.ID), zap.String("sellerId", sellerID))
	return l, nil
}

func (s *ListingService) Get(ctx context.Context, id string) (*model.Listing, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ListingService) ListMine(ctx context.Context, sellerID string) ([]model.Listing, error) {
	return s.repo.ListBySeller(ctx, sellerID)
}

// ListPublic es el catálogo: solo publicaciones aprobadas.
func (s *ListingService) ListPublic(ctx context.Context) ([]model.Listing, error) {
	return s.repo.ListByStatus(ctx, model.ListingApproved)
}

func (s *ListingService) ListByStatus(ctx context.Context, status model.ListingStatus) ([]model.Listing, error) {
	switch status {
	case model.ListingPending, model.ListingApproved, model.ListingRejected:
	default:
		return nil, fmt.Errorf("%w: estado de publicación desconocido %q", apperr.ErrValidation, status)
	}
	return s.repo.ListByStatus(ctx, status)
}

// Delete borra la publicación; solo el dueño o un admin.
func (s *ListingService) Delete(ctx context.Context, id, userID string, isAdmin bool) error {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && l.SellerID != userID {
		return fmt.Errorf("%w: la publicación pertenece a otro vendedor", apperr.ErrForbidden)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, l.SellerID)
	return nil
}

// Review aprueba o rechaza una publicación pendiente; el vendedor la ve como no leída.
func (s *ListingService) Review(ctx context.Context, id string, req dto.ReviewListingRequest) (*model.Listing, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status != model.ListingPending {
		return nil, fmt.Errorf("%w: la publicación ya fue revisada (%s)", apperr.ErrInvalidTransition, l.Status)
	}
	status := model.ListingRejected
	if req.Approve {
		status = model.ListingApproved
	}
	if err := s.repo.Review(ctx, id, status, req.Note); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, l.SellerID)
	logger.Info("publicación revisada", zap.String("listingId", id), zap.String("status", string(status)))
	return s.repo.FindByID(ctx, id)
}

func (s *ListingService) MarkRead(ctx context.Context, sellerID string, ids []string, all bool) (int64, error) {
	if !all && len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids o all requeridos", apperr.ErrValidation)
	}
	if all {
		ids = nil
	}
	n, err := s.repo.MarkRead(ctx, sellerID, ids)
	if err != nil {
		return 0, err
	}
	s.cache.Invalidate(ctx, sellerID)
	return n, nil
}
