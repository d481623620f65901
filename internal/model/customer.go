package model

import "encoding/json"

// Customer is the customer aggregate stored locally. Transactions are
// attached only while serving an enriched read and are never persisted.
type Customer struct {
	ID           string            `json:"id" bson:"_id,omitempty"`
	Code         string            `json:"code" bson:"code"`
	Name         string            `json:"name" bson:"name"`
	Surname      string            `json:"surname" bson:"surname"`
	Address      string            `json:"address" bson:"address"`
	Phone        string            `json:"phone" bson:"phone"`
	Iban         string            `json:"iban" bson:"iban"`
	Products     []Product         `json:"products" bson:"products"`
	Transactions []json.RawMessage `json:"transactions,omitempty" bson:"-"`
}

// Product references a product owned by the remote catalog. ProductName is
// display data resolved during enrichment and is never stored.
type Product struct {
	ProductID   int64   `json:"productId" bson:"productId"`
	ProductName *string `json:"productName,omitempty" bson:"-"`
}
