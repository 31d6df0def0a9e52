// Package gateway talks to the third-party payment service that moves money in and out of wallets.
package gateway

import (
	"context"
	"net/http"
)

// TransferType is the direction of a transfer as understood by the payment service.
type TransferType string

const (
	Deposit    TransferType = "deposit"
	Withdrawal TransferType = "withdrawal"
)

// Request is the body posted to the payment service.
type Request struct {
	WalletID string       `json:"wallet_id"`
	Amount   int64        `json:"amount"`
	Type     TransferType `json:"type"`
}

// Response is what the payment service answered with a 2xx status.
type Response struct {
	// StatusCode is the HTTP status of the answer.
	StatusCode int `json:"-"`
	// Status is the outcome reported in the body. It equals StatusCode when the body carries none.
	Status int `json:"status"`
}

// Succeeded reports whether the payment service accepted the transfer.
func (r *Response) Succeeded() bool {
	return r.StatusCode == http.StatusOK && r.Status == http.StatusOK
}

// Client performs transfers against the payment service.
type Client interface {
	// Transfer posts a transfer request. A non-nil Response is only returned for 2xx answers;
	// other outcomes are reported through *HTTPError, *TimeoutError or *UnexpectedError.
	Transfer(ctx context.Context, req Request) (*Response, error)
}
