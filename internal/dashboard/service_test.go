package dashboard

import (
	"context"
	"testing"
)

type fakeDashboardRepo struct {
	subs          []*memberSubscription
	lifetimePaid  float64
	lifetimeSaved float64
}

func (r *fakeDashboardRepo) ListMemberSubscriptions(ctx context.Context, userID int64) ([]*memberSubscription, error) {
	return r.subs, nil
}

func (r *fakeDashboardRepo) LifetimeTotals(ctx context.Context, userID int64) (float64, float64, error) {
	return r.lifetimePaid, r.lifetimeSaved, nil
}

func TestFinancialDashboardMath(t *testing.T) {
	repo := &fakeDashboardRepo{
		subs: []*memberSubscription{
			{TotalPrice: 100, CurrentMembers: 4},
		},
		lifetimePaid:  300,
		lifetimeSaved: 900,
	}
	svc := NewService(repo)

	dash, err := svc.GetFinancial(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if dash.Subscriptions != 1 {
		t.Fatalf("expected 1 subscription, got %d", dash.Subscriptions)
	}
	if dash.CurrentMonth.TotalPaid != 25 {
		t.Fatalf("expected paid 25, got %v", dash.CurrentMonth.TotalPaid)
	}
	if dash.CurrentMonth.TotalSaved != 75 {
		t.Fatalf("expected saved 75, got %v", dash.CurrentMonth.TotalSaved)
	}
	if dash.CurrentMonth.SavingsPercentage != 75 {
		t.Fatalf("expected 75%%, got %v", dash.CurrentMonth.SavingsPercentage)
	}
	if dash.Lifetime.TotalPaid != 300 || dash.Lifetime.TotalSaved != 900 {
		t.Fatalf("expected lifetime 300/900, got %v/%v", dash.Lifetime.TotalPaid, dash.Lifetime.TotalSaved)
	}
	if dash.Lifetime.SavingsPercentage != 75 {
		t.Fatalf("expected lifetime 75%%, got %v", dash.Lifetime.SavingsPercentage)
	}
}

func TestFinancialDashboardSumsSubscriptions(t *testing.T) {
	repo := &fakeDashboardRepo{
		subs: []*memberSubscription{
			{TotalPrice: 100, CurrentMembers: 4},
			{TotalPrice: 60, CurrentMembers: 2},
		},
	}
	svc := NewService(repo)

	dash, err := svc.GetFinancial(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if dash.CurrentMonth.TotalPaid != 55 {
		t.Fatalf("expected paid 55, got %v", dash.CurrentMonth.TotalPaid)
	}
	if dash.CurrentMonth.TotalSaved != 105 {
		t.Fatalf("expected saved 105, got %v", dash.CurrentMonth.TotalSaved)
	}
}

func TestFinancialDashboardZeroDenominator(t *testing.T) {
	svc := NewService(&fakeDashboardRepo{})

	dash, err := svc.GetFinancial(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if dash.CurrentMonth.SavingsPercentage != 0 {
		t.Fatalf("expected 0%% with no subscriptions, got %v", dash.CurrentMonth.SavingsPercentage)
	}
	if dash.Lifetime.SavingsPercentage != 0 {
		t.Fatalf("expected 0%% with no history, got %v", dash.Lifetime.SavingsPercentage)
	}
}
