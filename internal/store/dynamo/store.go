// Package dynamo stores commitments in a DynamoDB table.
package dynamo

//go:generate mockgen -source=store.go -destination=../../mock/dynamomock/putitem.go -package=dynamomock

import (
	"context"
	"log/slog"

	"github.com/k-kazuya0926/payment-commitments/internal/commitment"
	"github.com/k-kazuya0926/payment-commitments/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// PutItemAPI is the subset of *dynamodb.Client the store needs.
type PutItemAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Store implements commitment.Store with one PutItem per entry.
type Store struct {
	client    PutItemAPI
	tableName string
	logger    *slog.Logger
}

// NewStore returns a Store writing to tableName.
func NewStore(client PutItemAPI, tableName string, logger *slog.Logger) *Store {
	return &Store{client: client, tableName: tableName, logger: logger}
}

// NewClient builds a DynamoDB client, pointing it at endpoint when one is given (DynamoDB Local).
func NewClient(cfg aws.Config, endpoint string) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

// Put issues an unconditional PutItem, so an existing item with the same id is replaced.
func (s *Store) Put(ctx context.Context, entry commitment.Entry) error {
	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      Item(entry),
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		var apiErr smithy.APIError
		if errs.As(err, &apiErr) {
			s.logger.ErrorContext(ctx, "PutItem failed",
				"table", s.tableName,
				"code", apiErr.ErrorCode(),
				"fault", apiErr.ErrorFault().String(),
			)
		}
		return errs.Wrap(err, "put item")
	}
	return nil
}

// Item maps an entry onto the table's attributes. amountString keeps the exact
// text; amount is the numeric projection used for range queries.
func Item(entry commitment.Entry) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id":               &types.AttributeValueMemberS{Value: entry.ID},
		"paymentId":        &types.AttributeValueMemberS{Value: entry.PaymentID},
		"userId":           &types.AttributeValueMemberS{Value: entry.UserID},
		"paymentTimestamp": &types.AttributeValueMemberS{Value: entry.PaymentTimestamp},
		"description":      &types.AttributeValueMemberS{Value: entry.Description},
		"currency":         &types.AttributeValueMemberS{Value: entry.Currency},
		"amountString":     &types.AttributeValueMemberS{Value: entry.AmountString},
		"amount":           &types.AttributeValueMemberN{Value: entry.Amount.String()},
	}
}
