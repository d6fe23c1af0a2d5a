package payment

import (
	"context"
	"errors"
	"time"

	"github.com/dividee/dividee/internal/payment/pricing"
)

// Common errors
var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrNotMember            = errors.New("not a member of this subscription")
	ErrNotAuthorized        = errors.New("not authorized to perform this action")
	ErrAlreadyCompleted     = errors.New("payment already completed")
	ErrInvalidType          = errors.New("invalid payment type")
)

// Service handles payment business logic
type Service struct {
	repo    Repository
	pricing *pricing.Factory
	now     func() time.Time
}

// NewService creates a new payment service
func NewService(repo Repository, factory *pricing.Factory) *Service {
	return &Service{repo: repo, pricing: factory, now: time.Now}
}

// Create records a pending payment; the caller must belong to the subscription
func (s *Service) Create(ctx context.Context, callerID int64, req *CreatePaymentRequest) (*Payment, error) {
	sub, err := s.repo.GetSubscription(ctx, req.SubscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}

	isMember, err := s.repo.IsSubscriptionMember(ctx, req.SubscriptionID, callerID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}

	return s.repo.Create(ctx, &Payment{
		UserID:             callerID,
		SubscriptionID:     req.SubscriptionID,
		Amount:             req.Amount,
		Type:               req.Type,
		BillingPeriodStart: req.BillingPeriodStart,
		BillingPeriodEnd:   req.BillingPeriodEnd,
	})
}

// Quote computes what the caller owes for a billing period without
// recording anything. The caller must belong to the subscription.
func (s *Service) Quote(ctx context.Context, callerID int64, req *QuoteRequest) (*QuoteResponse, error) {
	sub, err := s.repo.GetSubscription(ctx, req.SubscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}

	isMember, err := s.repo.IsSubscriptionMember(ctx, req.SubscriptionID, callerID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}

	strategy, err := s.pricing.CreateFromString(string(req.Type))
	if err != nil {
		return nil, ErrInvalidType
	}

	amount, err := strategy.Calculate(pricing.Input{
		TotalPrice:  sub.TotalPrice,
		Members:     sub.CurrentMembers,
		PeriodStart: req.BillingPeriodStart,
		PeriodEnd:   req.BillingPeriodEnd,
		Now:         s.now(),
	})
	if err != nil {
		return nil, err
	}

	return &QuoteResponse{
		SubscriptionID: req.SubscriptionID,
		Type:           req.Type,
		Amount:         amount,
	}, nil
}

// ListByUserID retrieves the caller's payments, optionally filtered
func (s *Service) ListByUserID(ctx context.Context, callerID int64, filter *Filter) ([]*Payment, error) {
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 50
	}
	return s.repo.ListByUserID(ctx, callerID, filter)
}

// Complete marks a pending payment as paid and rolls the amount into the
// payer's monthly financial summary; both writes run in one transaction.
// Only the payer or the subscription owner may complete a payment.
func (s *Service) Complete(ctx context.Context, paymentID, callerID int64) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}

	sub, err := s.repo.GetSubscription(ctx, p.SubscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}
	if callerID != p.UserID && callerID != sub.OwnerID {
		return nil, ErrNotAuthorized
	}
	if p.Status != StatusPending {
		return nil, ErrAlreadyCompleted
	}

	saved := 0.0
	if sub.CurrentMembers > 0 {
		saved = sub.TotalPrice - sub.TotalPrice/float64(sub.CurrentMembers)
	}

	var completed *Payment
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		completed, err = tx.MarkPaid(ctx, paymentID)
		if err != nil {
			return err
		}
		// MarkPaid only touches pending rows; no row means another
		// completion won the race and the summary was already rolled up.
		if completed == nil {
			return ErrAlreadyCompleted
		}

		now := s.now()
		return tx.UpsertFinancialSummary(ctx, p.UserID, now.Year(), int(now.Month()), p.Amount, saved)
	})
	if err != nil {
		return nil, err
	}

	return completed, nil
}
