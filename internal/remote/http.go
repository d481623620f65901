package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// DefaultLookupTimeout is the per-call deadline applied to every remote
// lookup, measured from call issuance
const DefaultLookupTimeout = 3 * time.Second

type httpProductLookup struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// NewHTTPProductLookup builds ProductLookup on top of the product service
// HTTP API. Zero timeout falls back to DefaultLookupTimeout.
func NewHTTPProductLookup(baseURL string, timeout time.Duration) ProductLookup {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &httpProductLookup{baseURL: baseURL, client: &http.Client{}, timeout: timeout}
}

func (l *httpProductLookup) ProductName(ctx context.Context, productID int64) (string, error) {
	target := fmt.Sprintf("%s/product/%d", l.baseURL, productID)

	body, err := getJSON(ctx, l.client, l.timeout, target)
	if err != nil {
		return "", err
	}

	var product struct {
		Name *string `json:"name"`
	}
	if err := json.Unmarshal(body, &product); err != nil {
		return "", newLookupErr(FailureMalformed, target, err)
	}
	if product.Name == nil {
		return "", newLookupErr(FailureMalformed, target, errors.New("response has no name field"))
	}
	return *product.Name, nil
}

type httpTransactionLookup struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// NewHTTPTransactionLookup builds TransactionLookup on top of the transaction
// service HTTP API. Zero timeout falls back to DefaultLookupTimeout.
func NewHTTPTransactionLookup(baseURL string, timeout time.Duration) TransactionLookup {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &httpTransactionLookup{baseURL: baseURL, client: &http.Client{}, timeout: timeout}
}

func (l *httpTransactionLookup) Transactions(ctx context.Context, iban string) ([]json.RawMessage, error) {
	query := url.Values{}
	query.Set("accountIban", iban)
	target := fmt.Sprintf("%s/transactions/transaction?%s", l.baseURL, query.Encode())

	body, err := getJSON(ctx, l.client, l.timeout, target)
	if err != nil {
		return nil, err
	}

	// the full set or nothing, partial lists are never surfaced
	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, newLookupErr(FailureMalformed, target, err)
	}
	return records, nil
}

func getJSON(ctx context.Context, client *http.Client, timeout time.Duration, target string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, newLookupErr(FailureUnreachable, target, err)
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, newLookupErr(classifyTransportErr(err), target, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, newLookupErr(FailureNotFound, target, errors.New("resource does not exist"))
	case res.StatusCode != http.StatusOK:
		return nil, newLookupErr(FailureMalformed, target, fmt.Errorf("unexpected status code %d", res.StatusCode))
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, newLookupErr(classifyTransportErr(err), target, err)
	}
	return body, nil
}

func classifyTransportErr(err error) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}
	return FailureUnreachable
}

// IsUnreachable reports whether err is an unreachable-host class failure,
// either a classified lookup failure or a raw DNS resolution error
func IsUnreachable(err error) bool {
	var lookupErr *LookupError
	if errors.As(err, &lookupErr) {
		return lookupErr.Kind == FailureUnreachable
	}

	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
