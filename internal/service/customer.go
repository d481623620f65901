package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/paymentchain/customers/internal/cache"
	"github.com/paymentchain/customers/internal/errors"
	"github.com/paymentchain/customers/internal/model"
	"github.com/paymentchain/customers/internal/repository"
	"github.com/sirupsen/logrus"
)

// CustomerService is the application surface over customer storage. Reads by
// business code return an enriched view, writes are validated against the
// product service before anything is persisted.
type CustomerService interface {
	FindAll(context.Context) ([]*model.Customer, error)
	FindByID(context.Context, string) (*model.Customer, error)
	FindByCode(context.Context, string) (*model.Customer, error)
	Create(context.Context, *model.Customer) (*model.Customer, error)
	Update(context.Context, *model.Customer) (*model.Customer, error)
	DeleteByID(context.Context, string) error
}

type customerService struct {
	customerRepo  repository.CustomerRepository
	customerCache cache.CustomerCacheRepository
	enricher      Enricher
	validator     CreationValidator
}

func NewCustomerService(
	customerRepo repository.CustomerRepository,
	customerCache cache.CustomerCacheRepository,
	enricher Enricher,
	validator CreationValidator,
) CustomerService {
	return &customerService{
		customerRepo:  customerRepo,
		customerCache: customerCache,
		enricher:      enricher,
		validator:     validator,
	}
}

func (s *customerService) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	c, err := s.customerCache.FindByID(ctx, id)
	if err != nil {
		logrus.Errorf("failed to read customer %s from cache - %v", id, err)
	}
	if c != nil {
		return c, nil
	}

	c, err = s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}

	if err := s.customerCache.Create(ctx, c); err != nil {
		logrus.Errorf("failed to cache customer %s - %v", id, err)
	}
	return c, nil
}

// FindByCode returns the enriched view of a customer. Enrichment never fails,
// so the only error sources are local storage and a missing customer.
func (s *customerService) FindByCode(ctx context.Context, code string) (*model.Customer, error) {
	c, err := s.customerRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	return s.enricher.Enrich(ctx, c), nil
}

func (s *customerService) FindAll(ctx context.Context) ([]*model.Customer, error) {
	customers, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return customers, nil
}

// Create persists a candidate customer after its product references pass
// fail-closed validation. Validation precedes any persistence attempt.
func (s *customerService) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	if err := s.validator.ValidateProducts(ctx, c); err != nil {
		return nil, err
	}

	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	if err := s.customerRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customerService) Update(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	existing, err := s.customerRepo.FindByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errors.NewEntryNotFoundErr(fmt.Sprintf("customer with id %s does not exist", c.ID))
	}

	existing.Name = c.Name
	existing.Phone = c.Phone

	if err := s.customerCache.DeleteByID(ctx, c.ID); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *customerService) DeleteByID(ctx context.Context, id string) error {
	if err := s.customerCache.DeleteByID(ctx, id); err != nil {
		return err
	}

	if err := s.customerRepo.DeleteByID(ctx, id); err != nil {
		return err
	}
	return nil
}
