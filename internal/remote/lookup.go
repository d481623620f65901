package remote

import (
	"context"
	"encoding/json"
	"fmt"
)

// FailureKind classifies why a remote lookup produced no usable value.
type FailureKind int

const (
	// FailureTimeout means the call exceeded its deadline
	FailureTimeout FailureKind = iota + 1
	// FailureUnreachable means transport failed, including DNS resolution
	FailureUnreachable
	// FailureNotFound means the remote explicitly reported the resource is absent
	FailureNotFound
	// FailureMalformed means the response had an unexpected shape
	FailureMalformed
)

func (k FailureKind) String() string {
	switch k {
	case FailureTimeout:
		return "timeout"
	case FailureUnreachable:
		return "unreachable"
	case FailureNotFound:
		return "not found"
	case FailureMalformed:
		return "malformed"
	}
	return "unknown"
}

// LookupError is the classified failure of a single remote call
type LookupError struct {
	Kind   FailureKind
	Target string
	Err    error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("remote lookup %s failed (%s) - %v", e.Target, e.Kind, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func newLookupErr(kind FailureKind, target string, err error) *LookupError {
	return &LookupError{Kind: kind, Target: target, Err: err}
}

// ProductLookup resolves display data for products owned by the product service
type ProductLookup interface {
	ProductName(ctx context.Context, productID int64) (string, error)
}

// TransactionLookup resolves the transaction history of an account. Records
// are opaque, their schema is owned by the transaction service.
type TransactionLookup interface {
	Transactions(ctx context.Context, iban string) ([]json.RawMessage, error)
}
