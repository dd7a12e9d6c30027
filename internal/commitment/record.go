package commitment

// Record is a commitment request that passed validation. Fields keep the
// exact text the caller sent.
type Record struct {
	PaymentID        string
	UserID           string
	PaymentTimestamp string
	Description      string
	Currency         string
	Amount           string
}

// Entry is the storage form of a Record, keyed by ID.
type Entry struct {
	ID               string
	PaymentID        string
	UserID           string
	PaymentTimestamp string
	Description      string
	Currency         string
	AmountString     string
	Amount           Amount
}

func (r Record) entry(amount Amount) Entry {
	return Entry{
		ID:               r.PaymentID,
		PaymentID:        r.PaymentID,
		UserID:           r.UserID,
		PaymentTimestamp: r.PaymentTimestamp,
		Description:      r.Description,
		Currency:         r.Currency,
		AmountString:     amount.String(),
		Amount:           amount,
	}
}
