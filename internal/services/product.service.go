package services

import (
	"context"

	"github.com/nimasrn/ledger-api/internal/model"
)

type ProductRepository interface {
	Create(ctx context.Context, req model.ProductRequest) (*model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	Update(ctx context.Context, id int64, req model.ProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, search string) ([]*model.Product, error)
}

type ProductService struct {
	products ProductRepository
}

func NewProductService(products ProductRepository) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) Create(ctx context.Context, req model.ProductRequest) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.products.Create(ctx, req)
}

func (s *ProductService) Get(ctx context.Context, id int64) (*model.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *ProductService) Update(ctx context.Context, id int64, req model.ProductRequest) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.products.Update(ctx, id, req)
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.products.Delete(ctx, id)
}

func (s *ProductService) List(ctx context.Context, search string) ([]*model.Product, error) {
	products, err := s.products.List(ctx, search)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []*model.Product{}
	}
	return products, nil
}
