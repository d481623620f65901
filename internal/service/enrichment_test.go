package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/paymentchain/customers/internal/model"
	"github.com/paymentchain/customers/internal/remote"
	remoteMocks "github.com/paymentchain/customers/internal/remote/mocks"
	"github.com/stretchr/testify/suite"
)

const (
	testCustomerCode = "CUST001"
	testIban         = "ES9820385778983000760236"
)

type enrichmentTestSuite struct {
	suite.Suite
	enricher         Enricher
	productsMock     *remoteMocks.ProductLookup
	transactionsMock *remoteMocks.TransactionLookup
	ctx              context.Context
}

func (s *enrichmentTestSuite) SetupTest() {
	t := s.T()
	s.ctx = context.Background()
	s.productsMock = remoteMocks.NewProductLookup(t)
	s.transactionsMock = remoteMocks.NewTransactionLookup(t)
	s.enricher = NewCustomerEnricher(s.productsMock, s.transactionsMock)
}

func (s *enrichmentTestSuite) customer(productIDs ...int64) *model.Customer {
	products := make([]model.Product, 0, len(productIDs))
	for _, id := range productIDs {
		products = append(products, model.Product{ProductID: id})
	}

	return &model.Customer{
		ID:       "5f2ad2ab-e86f-4e43-9a17-3c0a4ad50f31",
		Code:     testCustomerCode,
		Name:     "John",
		Surname:  "Walls",
		Iban:     testIban,
		Products: products,
	}
}

func (s *enrichmentTestSuite) TestEnrichNoProducts() {
	cust := s.customer()

	s.T().Log("customer without products must be returned unchanged, no remote call is made")
	{
		enriched := s.enricher.Enrich(s.ctx, cust)
		s.Assert().Same(cust, enriched, "customer instance must be returned as is")
		s.Assert().Nil(enriched.Transactions, "no transaction lookup must happen")
		s.productsMock.AssertNotCalled(s.T(), "ProductName", s.ctx, int64(101))
		s.transactionsMock.AssertNotCalled(s.T(), "Transactions", s.ctx, testIban)
	}
}

func (s *enrichmentTestSuite) TestEnrichPartialProductFailure() {
	cust := s.customer(101, 102)

	timeoutErr := &remote.LookupError{Kind: remote.FailureTimeout, Target: "product/102"}
	s.productsMock.On("ProductName", s.ctx, int64(101)).Return("Gold Card", nil).Once()
	s.productsMock.On("ProductName", s.ctx, int64(102)).Return("", timeoutErr).Once()
	s.transactionsMock.On("Transactions", s.ctx, testIban).Return([]json.RawMessage{}, nil).Once()

	s.T().Log("timed out product keeps absent name, the sibling keeps its resolved name")
	{
		enriched := s.enricher.Enrich(s.ctx, cust)
		s.Require().Len(enriched.Products, 2, "all references must survive enrichment")
		s.Require().NotNil(enriched.Products[0].ProductName, "name of product 101 must be resolved")
		s.Assert().Equal("Gold Card", *enriched.Products[0].ProductName)
		s.Assert().Nil(enriched.Products[1].ProductName, "name of product 102 must be absent")
		s.Assert().NotNil(enriched.Transactions, "transactions must be attached")
		s.Assert().Empty(enriched.Transactions, "transaction service returned no records")
	}
}

func (s *enrichmentTestSuite) TestEnrichAllRemoteCallsFail() {
	cust := s.customer(101, 102, 103)

	unreachableErr := &remote.LookupError{Kind: remote.FailureUnreachable}
	s.productsMock.On("ProductName", s.ctx, int64(101)).Return("", unreachableErr).Once()
	s.productsMock.On("ProductName", s.ctx, int64(102)).Return("", unreachableErr).Once()
	s.productsMock.On("ProductName", s.ctx, int64(103)).Return("", unreachableErr).Once()
	s.transactionsMock.On("Transactions", s.ctx, testIban).Return(nil, unreachableErr).Once()

	s.T().Log("full remote outage must still produce a usable customer")
	{
		enriched := s.enricher.Enrich(s.ctx, cust)
		s.Require().Len(enriched.Products, 3)
		for i := range enriched.Products {
			s.Assert().Nil(enriched.Products[i].ProductName, "no name must be resolved")
		}
		s.Assert().NotNil(enriched.Transactions, "transactions must degrade to empty, not nil")
		s.Assert().Empty(enriched.Transactions)
	}
}

func (s *enrichmentTestSuite) TestEnrichPreservesReferenceOrder() {
	cust := s.customer(7, 5, 9)

	s.productsMock.On("ProductName", s.ctx, int64(7)).Return("Silver Card", nil).Once()
	s.productsMock.On("ProductName", s.ctx, int64(5)).Return("", &remote.LookupError{Kind: remote.FailureNotFound}).Once()
	s.productsMock.On("ProductName", s.ctx, int64(9)).Return("Platinum Card", nil).Once()
	s.transactionsMock.On("Transactions", s.ctx, testIban).Return([]json.RawMessage{}, nil).Once()

	s.T().Log("reference order must not depend on lookup completion order")
	{
		enriched := s.enricher.Enrich(s.ctx, cust)
		s.Require().Len(enriched.Products, 3)
		s.Assert().Equal(int64(7), enriched.Products[0].ProductID)
		s.Assert().Equal(int64(5), enriched.Products[1].ProductID)
		s.Assert().Equal(int64(9), enriched.Products[2].ProductID)
		s.Require().NotNil(enriched.Products[0].ProductName)
		s.Assert().Equal("Silver Card", *enriched.Products[0].ProductName)
		s.Assert().Nil(enriched.Products[1].ProductName)
		s.Require().NotNil(enriched.Products[2].ProductName)
		s.Assert().Equal("Platinum Card", *enriched.Products[2].ProductName)
	}
}

func (s *enrichmentTestSuite) TestEnrichAttachesTransactions() {
	cust := s.customer(101)

	records := []json.RawMessage{
		json.RawMessage(`{"amount":120.5,"status":"SETTLED"}`),
		json.RawMessage(`{"amount":-30,"status":"PENDING"}`),
	}
	s.productsMock.On("ProductName", s.ctx, int64(101)).Return("Gold Card", nil).Once()
	s.transactionsMock.On("Transactions", s.ctx, testIban).Return(records, nil).Once()

	s.T().Log("fetched transaction records must be attached untouched")
	{
		enriched := s.enricher.Enrich(s.ctx, cust)
		s.Require().Len(enriched.Transactions, 2)
		s.Assert().JSONEq(`{"amount":120.5,"status":"SETTLED"}`, string(enriched.Transactions[0]))
	}
}

func (s *enrichmentTestSuite) TestEnrichIsIdempotent() {
	s.productsMock.On("ProductName", s.ctx, int64(101)).Return("Gold Card", nil).Twice()
	s.transactionsMock.On("Transactions", s.ctx, testIban).Return([]json.RawMessage{}, nil).Twice()

	s.T().Log("two runs over the same remote state must produce identical views")
	{
		first := s.enricher.Enrich(s.ctx, s.customer(101))
		second := s.enricher.Enrich(s.ctx, s.customer(101))
		s.Assert().Equal(first, second)
	}
}

func TestEnrichmentTestSuite(t *testing.T) {
	suite.Run(t, new(enrichmentTestSuite))
}
