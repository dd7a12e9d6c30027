// Package boltstore keeps commitments in an embedded BoltDB file. It backs the
// function when it runs as a local HTTP server without DynamoDB.
package boltstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/k-kazuya0926/payment-commitments/internal/commitment"
	"github.com/k-kazuya0926/payment-commitments/internal/pkg/errs"

	bolt "github.com/boltdb/bolt"
)

const bucketName = "commitments"

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errs.New("commitment not found")

// Item is the JSON document stored under each commitment id. Its keys match the
// DynamoDB attribute names, and Amount keeps the exact numeral.
type Item struct {
	ID               string      `json:"id"`
	PaymentID        string      `json:"paymentId"`
	UserID           string      `json:"userId"`
	PaymentTimestamp string      `json:"paymentTimestamp"`
	Description      string      `json:"description"`
	Currency         string      `json:"currency"`
	AmountString     string      `json:"amountString"`
	Amount           json.Number `json:"amount"`
}

// Store implements commitment.Store on a single bucket.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the database at path and ensures the bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errs.Wrap(err, "open bolt database")
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, errs.Wrap(err, "create bucket")
	}

	return &Store{db: db}, nil
}

// Close releases the file lock; the Store must not be used afterwards.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put replaces whatever is stored under entry.ID.
func (s *Store) Put(_ context.Context, entry commitment.Entry) error {
	data, err := json.Marshal(Item{
		ID:               entry.ID,
		PaymentID:        entry.PaymentID,
		UserID:           entry.UserID,
		PaymentTimestamp: entry.PaymentTimestamp,
		Description:      entry.Description,
		Currency:         entry.Currency,
		AmountString:     entry.AmountString,
		Amount:           json.Number(entry.Amount.String()),
	})
	if err != nil {
		return errs.Wrap(err, "encode commitment")
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(entry.ID), data)
	})
}

// Get returns the item stored under id, or ErrNotFound.
func (s *Store) Get(id string) (Item, error) {
	var item Item
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &item)
	})
	if err != nil {
		return Item{}, err
	}
	return item, nil
}

// Count returns the number of stored commitments.
func (s *Store) Count() (int, error) {
	n := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(bucketName)).Stats().KeyN
		return nil
	})
	return n, err
}
