package enum

// TransactionStatus represents a transaction's position in its lifecycle
type TransactionStatus string

const (
	TransactionStatusForPayment TransactionStatus = "for-payment"
	TransactionStatusInProgress TransactionStatus = "in-progress"
	TransactionStatusCompleted  TransactionStatus = "completed"
	TransactionStatusCancelled  TransactionStatus = "cancelled"
)

// Valid reports whether the status is one of the four lifecycle states
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusForPayment, TransactionStatusInProgress,
		TransactionStatusCompleted, TransactionStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status permits no further transitions
func (s TransactionStatus) Terminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusCancelled
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
// Legal moves: for-payment -> in-progress -> completed, and
// for-payment|in-progress -> cancelled. Terminal states reject everything.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	if s == next {
		return true
	}
	if s.Terminal() {
		return false
	}
	switch s {
	case TransactionStatusForPayment:
		return next == TransactionStatusInProgress ||
			next == TransactionStatusCompleted ||
			next == TransactionStatusCancelled
	case TransactionStatusInProgress:
		return next == TransactionStatusCompleted ||
			next == TransactionStatusCancelled
	}
	return false
}

func (s TransactionStatus) String() string {
	return string(s)
}
