package rollup

import (
	"math"

	"github.com/mverdier/tally/internal/domain"
)

// StaleEpsilon is the ledger drift, in hours, beyond which a remaining
// estimate no longer reflects logged activity.
const StaleEpsilon = 0.01

// RemainingStale reports whether the task's remaining-hours estimate has
// gone stale: time was logged since the estimate was last confirmed.
// ledgerHours is the task's current ledger total. A task with no
// remaining estimate is never stale.
func RemainingStale(t *domain.Task, ledgerHours float64) bool {
	if t.RemainingHours == nil {
		return false
	}
	var snapshot float64
	if t.LastRemainingTotal != nil {
		snapshot = *t.LastRemainingTotal
	}
	return math.Abs(ledgerHours-snapshot) > StaleEpsilon
}
