package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/paymentchain/customers/internal/errors"
	"github.com/paymentchain/customers/internal/model"
	"github.com/paymentchain/customers/internal/service"
)

type newProduct struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
}

type newCustomer struct {
	Code     string       `json:"code" validate:"required"`
	Name     string       `json:"name" validate:"required"`
	Surname  string       `json:"surname"`
	Address  string       `json:"address"`
	Phone    string       `json:"phone"`
	Iban     string       `json:"iban" validate:"required,min=15,max=34"`
	Products []newProduct `json:"products" validate:"omitempty,dive"`
}

type updateCustomer struct {
	ID    string `param:"id"`
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
}

// CustomerHandler is http handler for customers endpoint
type CustomerHandler struct {
	custSvc service.CustomerService
}

// NewCustomerHandler builds new CustomerHandler
func NewCustomerHandler(custSvc service.CustomerService) *CustomerHandler {
	return &CustomerHandler{custSvc: custSvc}
}

// GetAll lists customers
// @Summary     List all customers
// @Tags        customers
// @Produce     json
// @Success     200 {array} model.Customer
// @Success     204 "No customers exist"
// @Router      /v1/customers [get]
func (h *CustomerHandler) GetAll(c echo.Context) error {
	customers, err := h.custSvc.FindAll(c.Request().Context())
	if err != nil {
		return err
	}

	if len(customers) == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, customers)
}

// Get finds customer by id
// @Summary     Get customer by id
// @Tags        customers
// @Produce     json
// @Param       id path string true "Customer id"
// @Success     200 {object} model.Customer
// @Failure     404 {object} ProblemDetails
// @Router      /v1/customers/{id} [get]
func (h *CustomerHandler) Get(c echo.Context) error {
	id := c.Param("id")

	cust, err := h.custSvc.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if cust == nil {
		return errors.NewEntryNotFoundErr(fmt.Sprintf("customer with id %s does not exist", id))
	}
	return c.JSON(http.StatusOK, cust)
}

// GetFull finds customer by business code and enriches it with product names
// and the account's transaction history
// @Summary     Get enriched customer by business code
// @Tags        customers
// @Produce     json
// @Param       code query string true "Customer business code"
// @Success     200 {object} model.Customer
// @Failure     404 {object} ProblemDetails
// @Router      /v1/customers/full [get]
func (h *CustomerHandler) GetFull(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter code is required")
	}

	cust, err := h.custSvc.FindByCode(c.Request().Context(), code)
	if err != nil {
		return err
	}
	if cust == nil {
		return errors.NewEntryNotFoundErr(fmt.Sprintf("customer with code %s does not exist", code))
	}
	return c.JSON(http.StatusOK, cust)
}

// Post creates new customer
// @Summary     Create new customer
// @Tags        customers
// @Accept      json
// @Produce     json
// @Param       customer body newCustomer true "Customer to create"
// @Success     201 {object} model.Customer
// @Failure     412 {object} ProblemDetails "Referenced product does not exist"
// @Failure     502 {object} ProblemDetails "Product service host could not be resolved"
// @Router      /v1/customers [post]
func (h *CustomerHandler) Post(c echo.Context) error {
	var newCust newCustomer
	if err := c.Bind(&newCust); err != nil {
		return err
	}

	if err := c.Validate(&newCust); err != nil {
		return err
	}

	cust, err := h.custSvc.Create(c.Request().Context(), newCust.toModel())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cust)
}

// Put updates customer name and phone
// @Summary     Update customer
// @Tags        customers
// @Accept      json
// @Produce     json
// @Param       id path string true "Customer id"
// @Param       customer body updateCustomer true "Customer fields to update"
// @Success     200 {object} model.Customer
// @Failure     404 {object} ProblemDetails
// @Router      /v1/customers/{id} [put]
func (h *CustomerHandler) Put(c echo.Context) error {
	var updCust updateCustomer
	if err := c.Bind(&updCust); err != nil {
		return err
	}

	if err := c.Validate(&updCust); err != nil {
		return err
	}

	cust, err := h.custSvc.Update(c.Request().Context(), &model.Customer{
		ID:    updCust.ID,
		Name:  updCust.Name,
		Phone: updCust.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cust)
}

// DeleteByID deletes customer by id
// @Summary     Delete customer by id
// @Tags        customers
// @Param       id path string true "Customer id"
// @Success     204 "Customer deleted"
// @Router      /v1/customers/{id} [delete]
func (h *CustomerHandler) DeleteByID(c echo.Context) error {
	if err := h.custSvc.DeleteByID(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (nc *newCustomer) toModel() *model.Customer {
	products := make([]model.Product, 0, len(nc.Products))
	for _, p := range nc.Products {
		products = append(products, model.Product{ProductID: p.ProductID})
	}

	return &model.Customer{
		Code:     nc.Code,
		Name:     nc.Name,
		Surname:  nc.Surname,
		Address:  nc.Address,
		Phone:    nc.Phone,
		Iban:     nc.Iban,
		Products: products,
	}
}
