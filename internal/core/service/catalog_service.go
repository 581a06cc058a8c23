package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/carservice/station/internal/core/domain"
	"github.com/carservice/station/internal/core/ports"
)

type CatalogService struct {
	repo ports.ServiceRepository
	log  zerolog.Logger
}

func NewCatalogService(repo ports.ServiceRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, log: log}
}

func (s *CatalogService) Create(ctx context.Context, in ports.ServiceInput) (*domain.CarService, error) {
	svc := &domain.CarService{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, err
	}
	s.log.Info().Int64("service_id", svc.ID).Str("name", svc.Name).Msg("service created")
	return svc, nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.CarService, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CatalogService) List(ctx context.Context) ([]domain.CarService, error) {
	return s.repo.List(ctx)
}

func (s *CatalogService) Update(ctx context.Context, id int64, in ports.ServiceInput) (*domain.CarService, error) {
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	svc.Name = in.Name
	svc.Description = in.Description
	svc.Price = in.Price
	svc.ImageURL = in.ImageURL
	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("service_id", id).Msg("service deleted")
	return nil
}
