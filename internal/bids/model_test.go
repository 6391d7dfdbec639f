package bids

import (
	"errors"
	"testing"
	"time"

	"github.com/Grylink/api-finance/internal/models"
	"github.com/shopspring/decimal"
)

func newSubmittedBid() *Bid {
	return &Bid{
		ID:                  1,
		CaseID:              10,
		EPCID:               100,
		BidAmount:           decimal.NewFromInt(500000),
		FundingDurationDays: 90,
		Status:              StatusSubmitted,
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var be *models.BusinessError
	if !errors.As(err, &be) {
		t.Fatalf("expected business error, got %T: %v", err, err)
	}
	if be.Code != code {
		t.Fatalf("expected code %s, got %s", code, be.Code)
	}
}

func TestCounterOfferMovesBidIntoNegotiation(t *testing.T) {
	b := newSubmittedBid()
	dur := 60

	entry, err := b.CounterOffer(ProposedBySubContractor, decimal.NewFromInt(450000), &dur, "can you do 450k", time.Now())
	if err != nil {
		t.Fatalf("CounterOffer failed: %v", err)
	}
	if b.Status != StatusNegotiationInProgress {
		t.Fatalf("expected status %s, got %s", StatusNegotiationInProgress, b.Status)
	}
	if len(b.Negotiations) != 1 {
		t.Fatalf("expected 1 negotiation entry, got %d", len(b.Negotiations))
	}
	if !entry.CounterAmount.Equal(decimal.NewFromInt(450000)) || entry.CounterDuration != 60 {
		t.Fatalf("unexpected entry terms: %s / %d", entry.CounterAmount, entry.CounterDuration)
	}
	if entry.ProposedByRole != ProposedBySubContractor {
		t.Fatalf("unexpected proposer role: %s", entry.ProposedByRole)
	}

	// already in progress: another round is fine and keeps the status
	if _, err := b.CounterOffer(ProposedByBuyer, decimal.NewFromInt(470000), nil, "", time.Now()); err != nil {
		t.Fatalf("second CounterOffer failed: %v", err)
	}
	if b.Status != StatusNegotiationInProgress {
		t.Fatalf("expected status to stay %s, got %s", StatusNegotiationInProgress, b.Status)
	}
}

func TestCounterOfferDefaultsDurationToCurrentOffer(t *testing.T) {
	b := newSubmittedBid()

	// no duration on the first round: falls back to the original bid's
	if _, err := b.CounterOffer(ProposedBySubContractor, decimal.NewFromInt(480000), nil, "", time.Now()); err != nil {
		t.Fatalf("CounterOffer failed: %v", err)
	}
	if got := b.Negotiations[0].CounterDuration; got != 90 {
		t.Fatalf("expected default duration 90, got %d", got)
	}

	// explicit duration on round two, omitted on round three: round three
	// keeps round two's duration
	dur := 45
	if _, err := b.CounterOffer(ProposedByBuyer, decimal.NewFromInt(490000), &dur, "", time.Now()); err != nil {
		t.Fatalf("CounterOffer failed: %v", err)
	}
	if _, err := b.CounterOffer(ProposedBySubContractor, decimal.NewFromInt(485000), nil, "", time.Now()); err != nil {
		t.Fatalf("CounterOffer failed: %v", err)
	}
	if got := b.Negotiations[2].CounterDuration; got != 45 {
		t.Fatalf("expected inherited duration 45, got %d", got)
	}
}

func TestCounterOfferRejectsNonPositiveTerms(t *testing.T) {
	negDur := -5
	cases := []struct {
		name     string
		amount   decimal.Decimal
		duration *int
	}{
		{"negative amount", decimal.NewFromInt(-100), nil},
		{"zero amount", decimal.Zero, nil},
		{"negative duration", decimal.NewFromInt(1000), &negDur},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := newSubmittedBid()
			_, err := b.CounterOffer(ProposedByBuyer, tc.amount, tc.duration, "", time.Now())
			assertCode(t, err, models.CodeInvalidAmount)
			if b.Status != StatusSubmitted || len(b.Negotiations) != 0 {
				t.Fatalf("bid must be unchanged after a rejected counter-offer")
			}
		})
	}
}

func TestNegotiationFullRoundTripToLock(t *testing.T) {
	// Scenario: place 500000/90, counter 450000/60, accept, lock.
	b := newSubmittedBid()
	dur := 60
	if _, err := b.CounterOffer(ProposedBySubContractor, decimal.NewFromInt(450000), &dur, "", time.Now()); err != nil {
		t.Fatalf("CounterOffer failed: %v", err)
	}
	if err := b.Respond(DecisionAccept); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if b.Status != StatusAccepted {
		t.Fatalf("expected status %s, got %s", StatusAccepted, b.Status)
	}

	now := time.Now().UTC()
	if err := b.Lock(now); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	if b.Status != StatusCommercialLocked {
		t.Fatalf("expected status %s, got %s", StatusCommercialLocked, b.Status)
	}
	if b.FinalAmount == nil || !b.FinalAmount.Equal(decimal.NewFromInt(450000)) {
		t.Fatalf("expected final amount 450000, got %v", b.FinalAmount)
	}
	if b.FinalDuration == nil || *b.FinalDuration != 60 {
		t.Fatalf("expected final duration 60, got %v", b.FinalDuration)
	}
	if b.LockedAt == nil || !b.LockedAt.Equal(now) {
		t.Fatalf("expected lockedAt %v, got %v", now, b.LockedAt)
	}
}

func TestLockWithoutNegotiationsUsesOriginalTerms(t *testing.T) {
	b := newSubmittedBid()
	if err := b.Respond(DecisionAccept); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if err := b.Lock(time.Now()); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	if !b.FinalAmount.Equal(decimal.NewFromInt(500000)) || *b.FinalDuration != 90 {
		t.Fatalf("expected original terms 500000/90, got %s/%d", b.FinalAmount, *b.FinalDuration)
	}
}

func TestLockUsesLatestNegotiationEntry(t *testing.T) {
	b := newSubmittedBid()
	amounts := []int64{450000, 470000, 460000}
	for _, a := range amounts {
		if _, err := b.CounterOffer(ProposedByBuyer, decimal.NewFromInt(a), nil, "", time.Now()); err != nil {
			t.Fatalf("CounterOffer failed: %v", err)
		}
	}
	// lock straight out of NEGOTIATION_IN_PROGRESS
	if err := b.Lock(time.Now()); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	if !b.FinalAmount.Equal(decimal.NewFromInt(460000)) {
		t.Fatalf("expected latest offer 460000, got %s", b.FinalAmount)
	}
}

func TestRejectedBidBlocksFurtherActions(t *testing.T) {
	// Scenario: place, reject, then every action must fail.
	b := newSubmittedBid()
	if err := b.Respond(DecisionReject); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if b.Status != StatusRejected {
		t.Fatalf("expected status %s, got %s", StatusRejected, b.Status)
	}

	_, err := b.CounterOffer(ProposedBySubContractor, decimal.NewFromInt(100000), nil, "", time.Now())
	assertCode(t, err, models.CodeInvalidStateTransition)
	assertCode(t, b.Respond(DecisionAccept), models.CodeInvalidStateTransition)
	assertCode(t, b.Lock(time.Now()), models.CodeInvalidStateTransition)
	if len(b.Negotiations) != 0 {
		t.Fatalf("rejected bid must not accumulate negotiations")
	}
}

func TestLockedBidBlocksFurtherActions(t *testing.T) {
	b := newSubmittedBid()
	if _, err := b.CounterOffer(ProposedByBuyer, decimal.NewFromInt(490000), nil, "", time.Now()); err != nil {
		t.Fatalf("CounterOffer failed: %v", err)
	}
	if err := b.Lock(time.Now()); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	_, err := b.CounterOffer(ProposedByBuyer, decimal.NewFromInt(1), nil, "", time.Now())
	assertCode(t, err, models.CodeInvalidStateTransition)
	assertCode(t, b.Respond(DecisionReject), models.CodeInvalidStateTransition)
	assertCode(t, b.Lock(time.Now()), models.CodeInvalidStateTransition)
}

func TestLockRequiresAcceptedOrInProgress(t *testing.T) {
	b := newSubmittedBid()
	assertCode(t, b.Lock(time.Now()), models.CodeInvalidStateTransition)
	if b.FinalAmount != nil || b.FinalDuration != nil || b.LockedAt != nil {
		t.Fatalf("failed lock must not set locked terms")
	}
}

func TestLockedTermsPresentIffLocked(t *testing.T) {
	states := []struct {
		name string
		prep func(b *Bid)
	}{
		{"submitted", func(b *Bid) {}},
		{"in progress", func(b *Bid) {
			_, _ = b.CounterOffer(ProposedByBuyer, decimal.NewFromInt(1000), nil, "", time.Now())
		}},
		{"accepted", func(b *Bid) { _ = b.Respond(DecisionAccept) }},
		{"rejected", func(b *Bid) { _ = b.Respond(DecisionReject) }},
	}
	for _, tc := range states {
		t.Run(tc.name, func(t *testing.T) {
			b := newSubmittedBid()
			tc.prep(b)
			if b.FinalAmount != nil || b.FinalDuration != nil || b.LockedAt != nil {
				t.Fatalf("locked terms set on non-locked bid in status %s", b.Status)
			}
		})
	}
}

func TestRespondRejectsUnknownDecision(t *testing.T) {
	b := newSubmittedBid()
	assertCode(t, b.Respond("maybe"), models.CodeValidationFailed)
	if b.Status != StatusSubmitted {
		t.Fatalf("bid must be unchanged after an invalid decision")
	}
}

func TestNegotiationLogPreservesInsertionOrder(t *testing.T) {
	b := newSubmittedBid()
	rounds := []struct {
		role   ProposerRole
		amount int64
	}{
		{ProposedBySubContractor, 450000},
		{ProposedByBuyer, 480000},
		{ProposedBySubContractor, 465000},
		{ProposedByBuyer, 470000},
	}
	for _, round := range rounds {
		if _, err := b.CounterOffer(round.role, decimal.NewFromInt(round.amount), nil, "", time.Now()); err != nil {
			t.Fatalf("CounterOffer failed: %v", err)
		}
	}
	if len(b.Negotiations) != len(rounds) {
		t.Fatalf("expected %d entries, got %d", len(rounds), len(b.Negotiations))
	}
	for i, round := range rounds {
		got := b.Negotiations[i]
		if got.ProposedByRole != round.role || !got.CounterAmount.Equal(decimal.NewFromInt(round.amount)) {
			t.Fatalf("entry %d out of order: %s %s", i, got.ProposedByRole, got.CounterAmount)
		}
	}
}

func TestPlaceBidClassifiesZeroDurationAsInvalidAmount(t *testing.T) {
	req := PlaceBidRequest{CaseID: 1, BidAmount: decimal.NewFromInt(1000), FundingDurationDays: 0}
	if err := validate.Struct(req); err != nil {
		t.Fatalf("zero duration must pass payload validation, got %v", err)
	}
	_, err := NewRepository().PlaceBid(nil, 1, req)
	assertCode(t, err, models.CodeInvalidAmount)
}

func TestPlaceBidRejectsNonPositiveTerms(t *testing.T) {
	repo := NewRepository()
	cases := []struct {
		name string
		req  PlaceBidRequest
	}{
		{"negative amount", PlaceBidRequest{CaseID: 1, BidAmount: decimal.NewFromInt(-1), FundingDurationDays: 30}},
		{"zero amount", PlaceBidRequest{CaseID: 1, BidAmount: decimal.Zero, FundingDurationDays: 30}},
		{"zero duration", PlaceBidRequest{CaseID: 1, BidAmount: decimal.NewFromInt(1000), FundingDurationDays: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// validation fires before any storage access
			_, err := repo.PlaceBid(nil, 1, tc.req)
			assertCode(t, err, models.CodeInvalidAmount)
		})
	}
}
