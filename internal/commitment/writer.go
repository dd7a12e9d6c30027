package commitment

//go:generate mockgen -source=writer.go -destination=../mock/storemock/store.go -package=storemock

import (
	"context"
	"log/slog"

	"github.com/k-kazuya0926/payment-commitments/internal/pkg/errs"
)

// Store persists commitment entries. Put must overwrite an existing entry with the same ID.
type Store interface {
	Put(ctx context.Context, entry Entry) error
}

// Result is what the caller echoes back after a successful write.
type Result struct {
	PaymentID string
	Amount    string
	Currency  string
}

// Writer turns validated records into stored entries.
type Writer struct {
	store  Store
	logger *slog.Logger
}

// NewWriter returns a Writer that logs to logger and writes to store.
func NewWriter(store Store, logger *slog.Logger) *Writer {
	return &Writer{store: store, logger: logger}
}

// Write converts the amount exactly and issues a single put. Failures are not retried.
func (w *Writer) Write(ctx context.Context, rec Record) (Result, error) {
	amount, err := ParseAmount(rec.Amount)
	if err != nil {
		return Result{}, err
	}

	entry := rec.entry(amount)
	w.logger.DebugContext(ctx, "writing commitment",
		"paymentId", entry.PaymentID,
		"amountString", entry.AmountString,
		"currency", entry.Currency,
	)

	if err := w.store.Put(ctx, entry); err != nil {
		return Result{}, errs.WithStack(&StorageError{PaymentID: entry.PaymentID, cause: err})
	}

	w.logger.InfoContext(ctx, "commitment recorded", "paymentId", entry.PaymentID)
	return Result{
		PaymentID: entry.PaymentID,
		Amount:    entry.AmountString,
		Currency:  entry.Currency,
	}, nil
}
