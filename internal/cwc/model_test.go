package cwc

import (
	"errors"
	"testing"
	"time"

	"github.com/Grylink/api-finance/internal/models"
	"github.com/shopspring/decimal"
)

func newRequest() *Request {
	return &Request{
		ID:              1,
		SubContractorID: 3,
		EPCID:           7,
		RequestedAmount: decimal.NewFromInt(200000),
		TenureDays:      60,
		Status:          StatusRequested,
	}
}

func code(t *testing.T, err error) string {
	t.Helper()
	var be *models.BusinessError
	if !errors.As(err, &be) {
		t.Fatalf("expected business error, got %T: %v", err, err)
	}
	return be.Code
}

func TestRequestLifecycle(t *testing.T) {
	q := newRequest()

	// quoting before buyer verification is not allowed
	err := q.Quote(5, decimal.NewFromFloat(12.5), decimal.NewFromInt(180000), time.Now())
	if code(t, err) != models.CodeInvalidStateTransition {
		t.Fatalf("expected INVALID_STATE_TRANSITION, got %v", err)
	}

	if err := q.Verify(); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if q.Status != StatusBuyerVerified {
		t.Fatalf("expected %s, got %s", StatusBuyerVerified, q.Status)
	}
	// verify is not repeatable
	if code(t, q.Verify()) != models.CodeInvalidStateTransition {
		t.Fatalf("second Verify must fail")
	}

	now := time.Now().UTC()
	if err := q.Quote(5, decimal.NewFromFloat(12.5), decimal.NewFromInt(180000), now); err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if q.Status != StatusQuoted {
		t.Fatalf("expected %s, got %s", StatusQuoted, q.Status)
	}
	if q.NBFCID == nil || *q.NBFCID != 5 {
		t.Fatalf("expected nbfc id 5, got %v", q.NBFCID)
	}
	if q.QuotedAmount == nil || !q.QuotedAmount.Equal(decimal.NewFromInt(180000)) {
		t.Fatalf("expected quoted amount 180000, got %v", q.QuotedAmount)
	}
	if q.QuotedAt == nil || !q.QuotedAt.Equal(now) {
		t.Fatalf("expected quotedAt %v, got %v", now, q.QuotedAt)
	}

	// quoted is terminal for both reject and re-quote
	if code(t, q.Reject("late")) != models.CodeInvalidStateTransition {
		t.Fatalf("Reject of a quoted request must fail")
	}
	err = q.Quote(6, decimal.NewFromFloat(11), decimal.NewFromInt(170000), time.Now())
	if code(t, err) != models.CodeInvalidStateTransition {
		t.Fatalf("second Quote must fail")
	}
}

func TestQuoteRejectsNonPositiveTerms(t *testing.T) {
	cases := []struct {
		name   string
		rate   decimal.Decimal
		amount decimal.Decimal
	}{
		{"zero rate", decimal.Zero, decimal.NewFromInt(100000)},
		{"negative amount", decimal.NewFromFloat(10), decimal.NewFromInt(-1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := newRequest()
			if err := q.Verify(); err != nil {
				t.Fatalf("Verify failed: %v", err)
			}
			err := q.Quote(5, tc.rate, tc.amount, time.Now())
			if code(t, err) != models.CodeInvalidAmount {
				t.Fatalf("expected INVALID_AMOUNT, got %v", err)
			}
			if q.Status != StatusBuyerVerified || q.QuotedAmount != nil {
				t.Fatalf("request must be unchanged after a rejected quote")
			}
		})
	}
}

func TestRejectFromEitherOpenState(t *testing.T) {
	q := newRequest()
	if err := q.Reject("duplicate"); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if q.Status != StatusRejected || q.RejectionNote != "duplicate" {
		t.Fatalf("unexpected state after reject: %s / %q", q.Status, q.RejectionNote)
	}

	q2 := newRequest()
	if err := q2.Verify(); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if err := q2.Reject(""); err != nil {
		t.Fatalf("Reject after verification failed: %v", err)
	}
	if q2.Status != StatusRejected {
		t.Fatalf("expected %s, got %s", StatusRejected, q2.Status)
	}
}
