package pricing

// InitialStrategy prices a new member's first payment: a full even share
// regardless of when in the cycle they joined. Used when the group agrees
// the joiner buys into the current period at face value.
type InitialStrategy struct{}

// Type returns the pricing type identifier
func (s *InitialStrategy) Type() Type {
	return TypeInitial
}

// Validate checks if the inputs are valid for initial pricing
func (s *InitialStrategy) Validate(in Input) error {
	if in.Members <= 0 {
		return ErrNoMembers
	}
	if in.TotalPrice < 0 {
		return ErrNegativePrice
	}
	return nil
}

// Calculate returns the joining member's full share for the period
func (s *InitialStrategy) Calculate(in Input) (float64, error) {
	if err := s.Validate(in); err != nil {
		return 0, err
	}
	return evenShare(in.TotalPrice, in.Members), nil
}
