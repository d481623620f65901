package errors

import (
	"encoding/json"
)

// RuleProductNotExists rejects a creation referencing a product the product
// service could not confirm to exist
const RuleProductNotExists = 1025

// BusinessRuleErr is a violation of a numbered business rule. It carries the
// http status the boundary must answer with.
type BusinessRuleErr struct {
	id      int
	message string
	status  int
}

func (e *BusinessRuleErr) Error() string {
	return e.message
}

// RuleID returns the numeric identifier of the violated rule
func (e *BusinessRuleErr) RuleID() int {
	return e.id
}

// Status returns the http status code the violation maps to
func (e *BusinessRuleErr) Status() int {
	return e.status
}

func (e *BusinessRuleErr) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		ID      int    `json:"id"`
		Message string `json:"message"`
	}{ID: e.id, Message: e.message})
}

func NewBusinessRuleErr(id int, msg string, status int) *BusinessRuleErr {
	return &BusinessRuleErr{
		id:      id,
		message: msg,
		status:  status,
	}
}

type EntryNotFoundErr struct {
	message string
}

func (e *EntryNotFoundErr) Error() string {
	return e.message
}

func NewEntryNotFoundErr(msg string) *EntryNotFoundErr {
	return &EntryNotFoundErr{message: msg}
}
