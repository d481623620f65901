package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/paymentchain/customers/internal/errors"
	"github.com/paymentchain/customers/internal/model"
	"github.com/paymentchain/customers/internal/remote"
	"github.com/sirupsen/logrus"
)

// CreationValidator confirms every referenced product exists before a
// candidate customer may be persisted. Unlike the enricher it fails closed:
// an unreachable product service or a timed out call rejects the creation
// the same way a missing product does.
type CreationValidator interface {
	ValidateProducts(ctx context.Context, c *model.Customer) error
}

type creationValidator struct {
	products remote.ProductLookup
}

func NewCreationValidator(products remote.ProductLookup) CreationValidator {
	return &creationValidator{products: products}
}

// ValidateProducts checks references sequentially in their given order and
// aborts on the first one that cannot be confirmed. Names resolved here are
// discarded, the candidate is left untouched.
func (v *creationValidator) ValidateProducts(ctx context.Context, c *model.Customer) error {
	for _, p := range c.Products {
		if _, err := v.products.ProductName(ctx, p.ProductID); err != nil {
			logrus.Errorf("product validation failed for id %d - %v", p.ProductID, err)
			return errors.NewBusinessRuleErr(
				errors.RuleProductNotExists,
				fmt.Sprintf("product with id %d does not exist", p.ProductID),
				http.StatusPreconditionFailed,
			)
		}
	}
	return nil
}
