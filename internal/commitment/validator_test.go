package commitment_test

import (
	"testing"

	"github.com/k-kazuya0926/payment-commitments/internal/commitment"
	"github.com/k-kazuya0926/payment-commitments/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPaymentID = "3f1c2f0e-6a4b-4f3e-9a61-2b7d6c1e8a90"
	testUserID    = "9b2e7d41-0c55-4a8f-8f7e-5d3a1b2c4e6f"
)

func validFields() map[string]any {
	return map[string]any{
		"paymentId":        testPaymentID,
		"userId":           testUserID,
		"paymentTimestamp": "2024-01-01T00:00:00Z",
		"description":      "rent",
		"currency":         "USD",
		"amount":           "1500.00",
	}
}

func violations(t *testing.T, err error) []commitment.Violation {
	t.Helper()
	var ve *commitment.ValidationError
	require.True(t, errs.As(err, &ve), "expected ValidationError, got %v", err)
	return ve.Violations
}

type validateCase struct {
	name   string
	mutate func(m map[string]any)
	want   []commitment.Violation
}

func TestValidate(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		rec, err := commitment.Validate(validFields())
		require.NoError(t, err)
		assert.Equal(t, commitment.Record{
			PaymentID:        testPaymentID,
			UserID:           testUserID,
			PaymentTimestamp: "2024-01-01T00:00:00Z",
			Description:      "rent",
			Currency:         "USD",
			Amount:           "1500.00",
		}, rec)
	})

	cases := []validateCase{
		{
			name:   "empty description is allowed",
			mutate: func(m map[string]any) { m["description"] = "" },
		},
		{
			name:   "uppercase uuid",
			mutate: func(m map[string]any) { m["userId"] = "9B2E7D41-0C55-4A8F-8F7E-5D3A1B2C4E6F" },
		},
		{
			name:   "date only timestamp",
			mutate: func(m map[string]any) { m["paymentTimestamp"] = "2024-01-01" },
		},
		{
			name:   "timestamp with offset and millis",
			mutate: func(m map[string]any) { m["paymentTimestamp"] = "2024-01-01T09:30:00.123+09:00" },
		},
		{
			name:   "timestamp with basic format offset",
			mutate: func(m map[string]any) { m["paymentTimestamp"] = "2024-01-01T09:30:00+0000" },
		},
		{
			name:   "timestamp with space separator",
			mutate: func(m map[string]any) { m["paymentTimestamp"] = "2024-01-01 09:30:00Z" },
		},
		{
			name:   "timestamp in lowercase",
			mutate: func(m map[string]any) { m["paymentTimestamp"] = "2024-01-01t09:30:00z" },
		},
		{
			name:   "year only timestamp",
			mutate: func(m map[string]any) { m["paymentTimestamp"] = "2024" },
		},
		{
			name:   "missing paymentId",
			mutate: func(m map[string]any) { delete(m, "paymentId") },
			want:   []commitment.Violation{{Field: "paymentId", Message: "Required"}},
		},
		{
			name:   "null description",
			mutate: func(m map[string]any) { m["description"] = nil },
			want:   []commitment.Violation{{Field: "description", Message: "Required"}},
		},
		{
			name:   "malformed userId",
			mutate: func(m map[string]any) { m["userId"] = "not-a-uuid" },
			want:   []commitment.Violation{{Field: "userId", Message: "Invalid uuid"}},
		},
		{
			name:   "uuid without hyphens",
			mutate: func(m map[string]any) { m["paymentId"] = "3f1c2f0e6a4b4f3e9a612b7d6c1e8a90" },
			want:   []commitment.Violation{{Field: "paymentId", Message: "Invalid uuid"}},
		},
		{
			name:   "bad timestamp",
			mutate: func(m map[string]any) { m["paymentTimestamp"] = "yesterday" },
			want:   []commitment.Violation{{Field: "paymentTimestamp", Message: "Invalid date format, should be ISO 8601"}},
		},
		{
			name:   "impossible calendar date",
			mutate: func(m map[string]any) { m["paymentTimestamp"] = "2024-02-30T00:00:00Z" },
			want:   []commitment.Violation{{Field: "paymentTimestamp", Message: "Invalid date format, should be ISO 8601"}},
		},
		{
			name:   "two letter currency",
			mutate: func(m map[string]any) { m["currency"] = "US" },
			want:   []commitment.Violation{{Field: "currency", Message: "Currency should be a 3-letter ISO code"}},
		},
		{
			name:   "four letter currency",
			mutate: func(m map[string]any) { m["currency"] = "USDT" },
			want:   []commitment.Violation{{Field: "currency", Message: "Currency should be a 3-letter ISO code"}},
		},
		{
			name:   "numeric amount",
			mutate: func(m map[string]any) { m["amount"] = 1500.0 },
			want:   []commitment.Violation{{Field: "amount", Message: "Expected string, received number"}},
		},
		{
			name:   "amount not a decimal",
			mutate: func(m map[string]any) { m["amount"] = "abc" },
			want:   []commitment.Violation{{Field: "amount", Message: "Invalid decimal amount"}},
		},
		{
			name:   "amount beyond DynamoDB range",
			mutate: func(m map[string]any) { m["amount"] = "1e200" },
			want:   []commitment.Violation{{Field: "amount", Message: "Invalid decimal amount"}},
		},
		{
			name:   "amount below DynamoDB range",
			mutate: func(m map[string]any) { m["amount"] = "1e-200" },
			want:   []commitment.Violation{{Field: "amount", Message: "Invalid decimal amount"}},
		},
		{
			name: "several violations keep field order",
			mutate: func(m map[string]any) {
				m["amount"] = "abc"
				m["currency"] = true
				delete(m, "paymentId")
			},
			want: []commitment.Violation{
				{Field: "paymentId", Message: "Required"},
				{Field: "currency", Message: "Expected string, received boolean"},
				{Field: "amount", Message: "Invalid decimal amount"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := validFields()
			tc.mutate(fields)

			_, err := commitment.Validate(fields)
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			assert.Equal(t, tc.want, violations(t, err))
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		body := `{"paymentId":"` + testPaymentID + `","userId":"` + testUserID + `",` +
			`"paymentTimestamp":"2024-01-01T00:00:00Z","description":"rent","currency":"USD","amount":"1500.00"}`

		rec, err := commitment.Parse([]byte(body))
		require.NoError(t, err)
		assert.Equal(t, testPaymentID, rec.PaymentID)
		assert.Equal(t, "1500.00", rec.Amount)
	})

	t.Run("empty body fails every required field", func(t *testing.T) {
		_, err := commitment.Parse([]byte("  "))
		got := violations(t, err)
		require.Len(t, got, 6)
		for _, v := range got {
			assert.Equal(t, "Required", v.Message)
		}
		assert.False(t, errs.Is(err, commitment.ErrMalformedBody))
	})

	t.Run("malformed bodies", func(t *testing.T) {
		for _, body := range []string{"{", "null", "[1,2]", `"text"`} {
			_, err := commitment.Parse([]byte(body))
			assert.Equal(t, []commitment.Violation{{Message: "malformed request body"}}, violations(t, err), body)
			assert.True(t, errs.Is(err, commitment.ErrMalformedBody), body)
		}
	})

	t.Run("error message joins violations", func(t *testing.T) {
		fields := validFields()
		fields["currency"] = "US"
		fields["userId"] = "x"

		_, err := commitment.Validate(fields)
		require.Error(t, err)
		assert.Equal(t, "userId: Invalid uuid; currency: Currency should be a 3-letter ISO code", err.Error())
	})
}
