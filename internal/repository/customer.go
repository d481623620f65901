package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/paymentchain/customers/internal/model"
	"github.com/paymentchain/customers/pkg/db/transactor"
)

// CustomerRepository is the local storage of customer records. Implementations
// store product references by id only, display names never reach storage.
type CustomerRepository interface {
	FindByID(context.Context, string) (*model.Customer, error)
	FindByCode(context.Context, string) (*model.Customer, error)
	FindAll(context.Context) ([]*model.Customer, error)
	Create(context.Context, *model.Customer) error
	Update(context.Context, *model.Customer) error
	DeleteByID(context.Context, string) error
}

type postgresCustomerRepository struct {
	trx transactor.Transactor
	ex  transactor.PgxWithinTransactionExecutor
}

func NewPostgresCustomerRepository(trx transactor.Transactor, ex transactor.PgxWithinTransactionExecutor) CustomerRepository {
	return &postgresCustomerRepository{trx: trx, ex: ex}
}

func (r *postgresCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	q := "SELECT id, code, name, surname, address, phone, iban FROM customers WHERE id = $1"
	return r.findOne(ctx, q, id)
}

func (r *postgresCustomerRepository) FindByCode(ctx context.Context, code string) (*model.Customer, error) {
	q := "SELECT id, code, name, surname, address, phone, iban FROM customers WHERE code = $1"
	return r.findOne(ctx, q, code)
}

func (r *postgresCustomerRepository) FindAll(ctx context.Context) ([]*model.Customer, error) {
	customers := make([]*model.Customer, 0)
	q := "SELECT id, code, name, surname, address, phone, iban FROM customers ORDER BY code"

	rows, err := r.ex.Executor(ctx).Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*model.Customer)
	for rows.Next() {
		var c model.Customer
		if err := r.scanCustomer(rows, &c); err != nil {
			return nil, err
		}
		c.Products = make([]model.Product, 0)
		customers = append(customers, &c)
		byID[c.ID] = &c
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	pq := "SELECT customer_id, product_id FROM customer_products ORDER BY customer_id, position"
	prows, err := r.ex.Executor(ctx).Query(ctx, pq)
	if err != nil {
		return nil, err
	}
	defer prows.Close()

	for prows.Next() {
		var customerID string
		var productID int64
		if err := prows.Scan(&customerID, &productID); err != nil {
			return nil, err
		}
		if c, ok := byID[customerID]; ok {
			c.Products = append(c.Products, model.Product{ProductID: productID})
		}
	}

	if err := prows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *postgresCustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	return r.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		q := `INSERT INTO customers(id, code, name, surname, address, phone, iban)
						  VALUES($1, $2, $3, $4, $5, $6, $7)`
		if _, err := r.ex.Executor(ctx).Exec(ctx, q, c.ID, c.Code, c.Name, c.Surname, c.Address, c.Phone, c.Iban); err != nil {
			return err
		}

		pq := "INSERT INTO customer_products(customer_id, product_id, position) VALUES($1, $2, $3)"
		for i, p := range c.Products {
			if _, err := r.ex.Executor(ctx).Exec(ctx, pq, c.ID, p.ProductID, i); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *postgresCustomerRepository) Update(ctx context.Context, c *model.Customer) error {
	q := `UPDATE customers SET code = $1, name = $2, surname = $3, address = $4, phone = $5, iban = $6
          WHERE id = $7`
	if _, err := r.ex.Executor(ctx).Exec(ctx, q, c.Code, c.Name, c.Surname, c.Address, c.Phone, c.Iban, c.ID); err != nil {
		return err
	}
	return nil
}

func (r *postgresCustomerRepository) DeleteByID(ctx context.Context, id string) error {
	// customer_products rows follow via on delete cascade
	q := "DELETE FROM customers WHERE id = $1"
	if _, err := r.ex.Executor(ctx).Exec(ctx, q, id); err != nil {
		return err
	}
	return nil
}

func (r *postgresCustomerRepository) findOne(ctx context.Context, q string, arg any) (*model.Customer, error) {
	var c model.Customer

	row := r.ex.Executor(ctx).QueryRow(ctx, q, arg)
	if err := r.scanCustomer(row, &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	products, err := r.findProducts(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Products = products

	return &c, nil
}

func (r *postgresCustomerRepository) findProducts(ctx context.Context, customerID string) ([]model.Product, error) {
	products := make([]model.Product, 0)
	q := "SELECT product_id FROM customer_products WHERE customer_id = $1 ORDER BY position"

	rows, err := r.ex.Executor(ctx).Query(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ProductID); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *postgresCustomerRepository) scanCustomer(row pgx.Row, c *model.Customer) error {
	return row.Scan(&c.ID, &c.Code, &c.Name, &c.Surname, &c.Address, &c.Phone, &c.Iban)
}
