package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"agro-order-service/internal/apperr"
	"agro-order-service/internal/dto"
	"agro-order-service/internal/model"
)

type ProfileService struct {
	repo  ProfileRepository
	cache UnreadCache
}

func NewProfileService(repo ProfileRepository, cache UnreadCache) *ProfileService {
	if cache == nil {
		cache = nopCache{}
	}
	return &ProfileService{repo: repo, cache: cache}
}

// Get devuelve el perfil con los campos que faltan. Un usuario sin perfil
// guardado recibe uno vacío.
func (s *ProfileService) Get(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profileResponse(p), nil
}

func (s *ProfileService) Update(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	p := &model.Profile{
		UserID:      userID,
		CompanyName: strings.TrimSpace(req.CompanyName),
		Country:     strings.TrimSpace(req.Country),
		Phone:       strings.TrimSpace(req.Phone),
		TaxID:       strings.TrimSpace(req.TaxID),
		Address:     strings.TrimSpace(req.Address),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, userID)
	return profileResponse(p), nil
}

// MissingCount es el contador "profile" de la barra lateral.
func (s *ProfileService) MissingCount(ctx context.Context, userID string) (int, error) {
	p, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(p.MissingFields()), nil
}

func (s *ProfileService) load(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := s.repo.Get(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return &model.Profile{UserID: userID}, nil
	}
	return p, err
}

func profileResponse(p *model.Profile) *dto.ProfileResponse {
	missing := p.MissingFields()
	if missing == nil {
		missing = []string{}
	}
	return &dto.ProfileResponse{Profile: p, MissingFields: missing, Complete: len(missing) == 0}
}
