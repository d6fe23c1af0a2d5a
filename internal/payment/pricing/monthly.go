package pricing

// MonthlyStrategy prices a regular billing cycle: the full subscription
// price divided evenly across current members.
type MonthlyStrategy struct{}

// Type returns the pricing type identifier
func (s *MonthlyStrategy) Type() Type {
	return TypeMonthly
}

// Validate checks if the inputs are valid for monthly pricing
func (s *MonthlyStrategy) Validate(in Input) error {
	if in.Members <= 0 {
		return ErrNoMembers
	}
	if in.TotalPrice < 0 {
		return ErrNegativePrice
	}
	return nil
}

// Calculate returns the member's even share of the subscription price
func (s *MonthlyStrategy) Calculate(in Input) (float64, error) {
	if err := s.Validate(in); err != nil {
		return 0, err
	}
	return evenShare(in.TotalPrice, in.Members), nil
}
