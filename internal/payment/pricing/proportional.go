package pricing

// ProportionalStrategy prices a mid-cycle joiner: the even share scaled by
// the fraction of the billing period that remains.
type ProportionalStrategy struct{}

// Type returns the pricing type identifier
func (s *ProportionalStrategy) Type() Type {
	return TypeProportional
}

// Validate checks if the inputs are valid for proportional pricing
func (s *ProportionalStrategy) Validate(in Input) error {
	if in.Members <= 0 {
		return ErrNoMembers
	}
	if in.TotalPrice < 0 {
		return ErrNegativePrice
	}
	if in.PeriodStart == nil || in.PeriodEnd == nil {
		return ErrMissingPeriod
	}
	if !in.PeriodEnd.After(*in.PeriodStart) {
		return ErrInvalidPeriod
	}
	return nil
}

// Calculate scales the even share by the remaining fraction of the period.
// A join time before the period start pays the full share; after the end,
// nothing.
func (s *ProportionalStrategy) Calculate(in Input) (float64, error) {
	if err := s.Validate(in); err != nil {
		return 0, err
	}

	share := evenShare(in.TotalPrice, in.Members)

	total := in.PeriodEnd.Sub(*in.PeriodStart)
	remaining := in.PeriodEnd.Sub(in.Now)
	if remaining >= total {
		return share, nil
	}
	if remaining <= 0 {
		return 0, nil
	}

	return roundToTwoDecimals(share * remaining.Seconds() / total.Seconds()), nil
}
