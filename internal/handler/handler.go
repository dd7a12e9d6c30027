// Package handler turns API Gateway proxy requests into commitment writes.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/k-kazuya0926/payment-commitments/internal/commitment"
	"github.com/k-kazuya0926/payment-commitments/internal/pkg/errs"

	"github.com/aws/aws-lambda-go/events"
)

const (
	MsgRecorded     = "Payment commitment recorded successfully"
	MsgUnknownError = "Unknown error processing payment."

	maxStackLines = 20
)

// SuccessBody is the 200 response.
type SuccessBody struct {
	Message   string `json:"message"`
	PaymentID string `json:"paymentId"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
}

// ErrorBody is the 400 and 500 response. Errors is set only for validation failures.
type ErrorBody struct {
	Message string                 `json:"message"`
	Errors  []commitment.Violation `json:"errors,omitempty"`
	Stack   []string               `json:"stack,omitempty"`
}

// CommitmentWriter persists a validated record. *commitment.Writer implements it.
type CommitmentWriter interface {
	Write(ctx context.Context, rec commitment.Record) (commitment.Result, error)
}

// Handler is the add-commitment Lambda function.
type Handler struct {
	writer      CommitmentWriter
	logger      *slog.Logger
	exposeStack bool
}

// Option configures a Handler.
type Option func(*Handler)

// WithErrorStack adds the validation error's stack trace to 400 responses.
func WithErrorStack(enabled bool) Option {
	return func(h *Handler) { h.exposeStack = enabled }
}

// New returns a Handler writing through writer.
func New(writer CommitmentWriter, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{writer: writer, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle never returns a non-nil error: every failure becomes a JSON response.
func (h *Handler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.ErrorContext(ctx, "panic occurred", "panic", fmt.Sprint(r))
			resp, err = h.failure(ctx, errs.New(fmt.Sprint(r))), nil
		}
	}()

	h.logger.InfoContext(ctx, "received event",
		"httpMethod", request.HTTPMethod,
		"path", request.Path,
		"requestId", request.RequestContext.RequestID,
		"isBase64Encoded", request.IsBase64Encoded,
	)

	rec, err := h.parse(ctx, request)
	if err != nil {
		var ve *commitment.ValidationError
		if errs.As(err, &ve) {
			h.logger.InfoContext(ctx, "validation failed", "error", ve.Error())
			return h.badRequest(err, ve), nil
		}
		return h.failure(ctx, err), nil
	}

	res, err := h.writer.Write(ctx, rec)
	if err != nil {
		return h.failure(ctx, err), nil
	}

	return jsonResponse(http.StatusOK, SuccessBody{
		Message:   MsgRecorded,
		PaymentID: res.PaymentID,
		Amount:    res.Amount,
		Currency:  res.Currency,
	}), nil
}

func (h *Handler) parse(ctx context.Context, request events.APIGatewayProxyRequest) (commitment.Record, error) {
	if !request.IsBase64Encoded {
		return commitment.Parse([]byte(request.Body))
	}
	decoded, err := base64.StdEncoding.DecodeString(request.Body)
	if err != nil {
		h.logger.WarnContext(ctx, "base64 decode error", "error", err)
		return commitment.Record{}, commitment.MalformedBody(err)
	}
	return commitment.Parse(decoded)
}

func (h *Handler) badRequest(err error, ve *commitment.ValidationError) events.APIGatewayProxyResponse {
	body := ErrorBody{Message: ve.Error(), Errors: ve.Violations}
	if h.exposeStack {
		body.Stack = errs.ExtractStackLines(err, maxStackLines)
	}
	return jsonResponse(http.StatusBadRequest, body)
}

func (h *Handler) failure(ctx context.Context, err error) events.APIGatewayProxyResponse {
	h.logger.ErrorContext(ctx, "error processing payment", "error", err)

	msg := MsgUnknownError
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return jsonResponse(http.StatusInternalServerError, ErrorBody{Message: msg})
}

func jsonResponse(status int, body any) events.APIGatewayProxyResponse {
	b, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		b = []byte(`{"message": "` + MsgUnknownError + `"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: string(b),
	}
}
