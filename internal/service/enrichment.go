package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/paymentchain/customers/internal/model"
	"github.com/paymentchain/customers/internal/remote"
	"github.com/sirupsen/logrus"
)

// Enricher decorates a stored customer with display data fetched from the
// remote services. The read path is tolerant: a failed lookup degrades the
// affected field and never fails the whole request.
type Enricher interface {
	Enrich(ctx context.Context, c *model.Customer) *model.Customer
}

type customerEnricher struct {
	products     remote.ProductLookup
	transactions remote.TransactionLookup
}

func NewCustomerEnricher(products remote.ProductLookup, transactions remote.TransactionLookup) Enricher {
	return &customerEnricher{products: products, transactions: transactions}
}

// Enrich resolves the display name of every product reference and attaches
// the account's transaction history. Product lookups fan out concurrently,
// one goroutine per reference, each writing only its own reference. The
// transaction lookup is issued once all of them are settled.
func (e *customerEnricher) Enrich(ctx context.Context, c *model.Customer) *model.Customer {
	if len(c.Products) == 0 {
		return c
	}

	var wg sync.WaitGroup
	for i := range c.Products {
		wg.Add(1)
		go func(p *model.Product) {
			defer wg.Done()
			e.resolveName(ctx, p)
		}(&c.Products[i])
	}
	wg.Wait()

	c.Transactions = e.resolveTransactions(ctx, c.Iban)
	return c
}

// resolveName folds every failure kind into an absent name
func (e *customerEnricher) resolveName(ctx context.Context, p *model.Product) {
	name, err := e.products.ProductName(ctx, p.ProductID)
	if err != nil {
		logrus.Warnf("product name lookup failed for id %d - %v", p.ProductID, err)
		p.ProductName = nil
		return
	}
	p.ProductName = &name
}

// resolveTransactions folds every failure kind into an empty history
func (e *customerEnricher) resolveTransactions(ctx context.Context, iban string) []json.RawMessage {
	records, err := e.transactions.Transactions(ctx, iban)
	if err != nil {
		logrus.Errorf("transaction lookup failed for iban %s - %v", iban, err)
		return []json.RawMessage{}
	}

	if records == nil {
		records = []json.RawMessage{}
	}
	return records
}
