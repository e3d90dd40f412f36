package calculator

import (
	"fmt"
)

// EqualShare computes one member's share of an expense split equally among
// the active members of a house.
//
// The share is a plain float division: remainders are not reconciled, so
// three members splitting 100 each pay 33.333... and the recorded payments
// sum to the total only within floating-point tolerance.
func EqualShare(total float64, activeMembers int) (float64, error) {
	if activeMembers <= 0 {
		return 0, fmt.Errorf("must have at least one active member")
	}
	if total <= 0 {
		return 0, fmt.Errorf("total must be positive")
	}
	return total / float64(activeMembers), nil
}

// IsSettled reports whether an expense with the given number of recorded
// payments is fully paid by a house with activeMembers active members.
//
// The comparison is >= rather than ==: a member may leave after paying,
// shrinking the active count below the number of payments already made, and
// that must not block settlement.
func IsSettled(payments, activeMembers int) bool {
	if activeMembers <= 0 {
		return false
	}
	return payments >= activeMembers
}
