package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"agro-order-service/internal/apperr"
	"agro-order-service/internal/dto"
	"agro-order-service/internal/logger"
	"agro-order-service/internal/model"
)

type QuotationService struct {
	repo     QuotationRepository
	listings ListingRepository
	cache    UnreadCache
	now      func() time.Time
}

func NewQuotationService(repo QuotationRepository, listings ListingRepository, cache UnreadCache) *QuotationService {
	if cache == nil {
		cache = nopCache{}
	}
	return &QuotationService{
		repo:     repo,
		listings: listings,
		cache:    cache,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create registra la solicitud del comprador contra una publicación aprobada.
func (s *QuotationService) Create(ctx context.Context, buyerID string, req dto.CreateQuotationRequest) (*model.Quotation, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	listing, err := s.listings.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if listing.Status != model.ListingApproved {
		return nil, fmt.Errorf("%w: la publicación no está disponible", apperr.ErrValidation)
	}
	if listing.SellerID == buyerID {
		return nil, fmt.Errorf("%w: no se puede cotizar una publicación propia", apperr.ErrValidation)
	}
	target, err := parseAmountCents(req.TargetPrice)
	if err != nil {
		return nil, err
	}

	now := s.now()
	q := &model.Quotation{
		ID:                 uuid.NewString(),
		ProductID:          listing.ID,
		ProductName:        listing.Name,
		SellerID:           listing.SellerID,
		BuyerID:            buyerID,
		BuyerName:          req.BuyerName,
		BuyerEmail:         req.BuyerEmail,
		BuyerPhone:         req.BuyerPhone,
		BuyerCompany:       req.BuyerCompany,
		QuantityKg:         req.QuantityKg,
		DestinationCountry: req.DestinationCountry,
		EstimatedDate:      req.EstimatedDate,
		TargetPriceCents:   target,
		Incoterm:           req.Incoterm,
		Status:             model.QuotationPending,
		IsReadBySeller:     false,
		IsReadByBuyer:      true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, q.SellerID)
	logger.Info("cotización creada", zap.String("quotationId", q.ID), zap.String("sellerId", q.SellerID))
	return q, nil
}

func (s *QuotationService) Get(ctx context.Context, id, viewerID string, isAdmin bool) (*model.Quotation, error) {
	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && q.SellerID != viewerID && q.BuyerID != viewerID {
		return nil, fmt.Errorf("%w: la cotización pertenece a otros usuarios", apperr.ErrForbidden)
	}
	return q, nil
}

func (s *QuotationService) ListForSeller(ctx context.Context, sellerID string) ([]model.Quotation, error) {
	return s.sorted(s.repo.ListBySeller(ctx, sellerID))
}

func (s *QuotationService) ListForBuyer(ctx context.Context, buyerID string) ([]model.Quotation, error) {
	return s.sorted(s.repo.ListByBuyer(ctx, buyerID))
}

func (s *QuotationService) ListAll(ctx context.Context) ([]model.Quotation, error) {
	return s.sorted(s.repo.ListAll(ctx))
}

func (s *QuotationService) sorted(qs []model.Quotation, err error) ([]model.Quotation, error) {
	if err != nil {
		return nil, err
	}
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].CreatedAt.After(qs[j].CreatedAt) })
	return qs, nil
}

// Reply responde la cotización con un precio ofrecido opcional.
func (s *QuotationService) Reply(ctx context.Context, id, sellerID string, req dto.ReplyQuotationRequest) (*model.Quotation, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	offered, err := parseAmountCents(req.OfferedPrice)
	if err != nil {
		return nil, err
	}
	return s.answer(ctx, id, sellerID, model.QuotationReplied, offered, req.Message)
}

func (s *QuotationService) Reject(ctx context.Context, id, sellerID, message string) (*model.Quotation, error) {
	return s.answer(ctx, id, sellerID, model.QuotationRejected, 0, message)
}

// El estado se fija una sola vez: desde Pending a Replied o Rejected.
func (s *QuotationService) answer(ctx context.Context, id, sellerID string, status model.QuotationStatus, offered int64, message string) (*model.Quotation, error) {
	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.SellerID != sellerID {
		return nil, fmt.Errorf("%w: solo el vendedor puede responder", apperr.ErrForbidden)
	}
	if q.Status != model.QuotationPending {
		return nil, fmt.Errorf("%w: la cotización ya está %s", apperr.ErrInvalidTransition, q.Status)
	}
	if err := s.repo.Answer(ctx, id, status, offered, message, s.now()); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, q.SellerID, q.BuyerID)
	logger.Info("cotización respondida", zap.String("quotationId", id), zap.String("status", string(status)))
	return s.repo.FindByID(ctx, id)
}

func (s *QuotationService) MarkRead(ctx context.Context, userID string, role model.Role, ids []string, all bool) (int64, error) {
	if !role.Valid() {
		return 0, fmt.Errorf("%w: rol inválido %q", apperr.ErrValidation, role)
	}
	if !all && len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids o all requeridos", apperr.ErrValidation)
	}
	if all {
		ids = nil
	}
	n, err := s.repo.MarkRead(ctx, userID, role, ids)
	if err != nil {
		return 0, err
	}
	s.cache.Invalidate(ctx, userID)
	return n, nil
}

// parseAmountCents convierte "12.50" a 1250; vacío es 0.
func parseAmountCents(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: importe inválido %q", apperr.ErrValidation, s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: el importe no puede ser negativo", apperr.ErrValidation)
	}
	return ToCents(d), nil
}
