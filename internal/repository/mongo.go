package repository

import (
	"context"
	"errors"

	"github.com/paymentchain/customers/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	customersDb         = "customersdb"
	customersCollection = "customers"
)

type mongoCustomerRepository struct {
	client *mongo.Client
}

func NewMongoCustomerRepository(client *mongo.Client) CustomerRepository {
	return &mongoCustomerRepository{client: client}
}

func (r *mongoCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoCustomerRepository) FindByCode(ctx context.Context, code string) (*model.Customer, error) {
	return r.findOne(ctx, bson.M{"code": code})
}

func (r *mongoCustomerRepository) FindAll(ctx context.Context) ([]*model.Customer, error) {
	customers := make([]*model.Customer, 0)

	cursor, err := r.collection().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	if err := cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *mongoCustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	if _, err := r.collection().InsertOne(ctx, c); err != nil {
		return err
	}
	return nil
}

func (r *mongoCustomerRepository) Update(ctx context.Context, c *model.Customer) error {
	update := bson.M{"$set": bson.M{
		"code":    c.Code,
		"name":    c.Name,
		"surname": c.Surname,
		"address": c.Address,
		"phone":   c.Phone,
		"iban":    c.Iban,
	}}

	if _, err := r.collection().UpdateOne(ctx, bson.M{"_id": c.ID}, update); err != nil {
		return err
	}
	return nil
}

func (r *mongoCustomerRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.collection().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return err
	}
	return nil
}

func (r *mongoCustomerRepository) findOne(ctx context.Context, filter bson.M) (*model.Customer, error) {
	var c model.Customer
	if err := r.collection().FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	if c.Products == nil {
		c.Products = make([]model.Product, 0)
	}
	return &c, nil
}

func (r *mongoCustomerRepository) collection() *mongo.Collection {
	return r.client.Database(customersDb).Collection(customersCollection)
}
