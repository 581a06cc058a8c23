package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/carservice/station/internal/core/domain"
	"github.com/carservice/station/internal/core/ports"
)

func TestCatalogHandler_Create(t *testing.T) {
	stub := &stubCatalogService{
		createFn: func(ctx context.Context, in ports.ServiceInput) (*domain.CarService, error) {
			if in.Name != "Oil change" || in.Price != 49.5 {
				t.Fatalf("unexpected input %+v", in)
			}
			return &domain.CarService{ID: 1, Name: in.Name, Price: in.Price}, nil
		},
	}
	h := NewCatalogHandler(stub)

	c, rec := newContext(t, http.MethodPost, "/api/services", `{"name":"Oil change","description":"Synthetic oil","price":49.5}`, &admin)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusCreated)
}

func TestCatalogHandler_Create_Validation(t *testing.T) {
	h := NewCatalogHandler(&stubCatalogService{})

	c, _ := newContext(t, http.MethodPost, "/api/services", `{"name":"","description":"x","price":0}`, &admin)
	ve := expectValidation(t, h.Create(c), "name", "price")
	if _, ok := ve["description"]; ok {
		t.Fatalf("description is valid, got %v", ve)
	}
}

func TestCatalogHandler_GetAndDelete(t *testing.T) {
	stub := &stubCatalogService{
		getFn: func(ctx context.Context, id int64) (*domain.CarService, error) {
			return nil, domain.ErrServiceNotFound
		},
		deleteFn: func(ctx context.Context, id int64) error {
			if id != 3 {
				t.Fatalf("unexpected id %d", id)
			}
			return nil
		},
	}
	h := NewCatalogHandler(stub)

	c, _ := newContext(t, http.MethodGet, "/api/services/3", "", &customer)
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := h.Get(c); !errors.Is(err, domain.ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}

	c, rec := newContext(t, http.MethodDelete, "/api/services/3", "", &admin)
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusNoContent)
}
