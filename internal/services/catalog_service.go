package services

import (
	"github.com/Gen1023/financial-products/internal/domain"
	"github.com/Gen1023/financial-products/internal/repos"
	"github.com/Gen1023/financial-products/internal/validate"
)

// CatalogService is the stand-in backend's product catalog. Writes are
// checked with the same rules the forms use.
type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

func (s *CatalogService) ListProducts() ([]domain.Product, error) {
	return s.Prods.List()
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	return s.Prods.Get(id)
}

// CreateProduct returns validate.FieldErrors for a rejected record and
// repos.ErrDuplicate when the id is taken.
func (s *CatalogService) CreateProduct(p domain.Product) (domain.Product, error) {
	p = normalize(p)
	if errs := validate.Product(p); errs != nil {
		return domain.Product{}, errs
	}
	if err := s.Prods.Create(p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// UpdateProduct stores p under id; any id inside p is ignored.
func (s *CatalogService) UpdateProduct(id string, p domain.Product) (domain.Product, error) {
	p.ID = id
	p = normalize(p)
	if errs := validate.Product(p); errs != nil {
		return domain.Product{}, errs
	}
	if err := s.Prods.Update(p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (s *CatalogService) DeleteProduct(id string) error {
	return s.Prods.Delete(id)
}

// normalize stores dates as YYYY-MM-DD whatever precision the caller sent.
func normalize(p domain.Product) domain.Product {
	p.DateRelease = domain.DateOnly(p.DateRelease)
	p.DateRevision = domain.DateOnly(p.DateRevision)
	return p
}
