package ports

import (
	"context"

	"github.com/carservice/station/internal/core/domain"
)

type ServiceRepository interface {
	Create(ctx context.Context, svc *domain.CarService) error
	FindByID(ctx context.Context, id int64) (*domain.CarService, error)
	// FindByIDs returns the services found, in no particular order.
	FindByIDs(ctx context.Context, ids []int64) ([]domain.CarService, error)
	List(ctx context.Context) ([]domain.CarService, error)
	Update(ctx context.Context, svc *domain.CarService) error
	Delete(ctx context.Context, id int64) error
}

type ServiceInput struct {
	Name        string
	Description string
	Price       float64
	ImageURL    string
}

type CatalogService interface {
	Create(ctx context.Context, in ServiceInput) (*domain.CarService, error)
	Get(ctx context.Context, id int64) (*domain.CarService, error)
	List(ctx context.Context) ([]domain.CarService, error)
	Update(ctx context.Context, id int64, in ServiceInput) (*domain.CarService, error)
	Delete(ctx context.Context, id int64) error
}
