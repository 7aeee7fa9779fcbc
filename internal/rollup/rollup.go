// Package rollup computes effort aggregates over a loaded task tree and
// its ledger totals. Every function is pure: inputs are the tree and the
// per-task hour totals, nothing is read from storage and nothing is
// cached. Percentages are derived from unrounded intermediates; rounding
// belongs to presentation.
package rollup

import "github.com/mverdier/tally/internal/domain"

// DefaultDailyHours converts hours to days when no user preference applies.
const DefaultDailyHours = domain.DefaultDailyWorkHours

// Figures is the full set of effort aggregates for a task, stage, or
// project. GapPercent is nil when no estimate exists; callers must not
// render a gap in that case.
type Figures struct {
	EstimatedDays      float64
	SpentDays          float64
	RemainingDays      float64
	ForecastDays       float64
	GapPercent         *float64
	AdvancementPercent float64
}

// EstimatedDays returns the sold estimate for a task tree. Once a task has
// subtasks, their estimates fully supersede the task's own sold days; the
// rule applies transitively to any depth.
func EstimatedDays(n *domain.TaskNode) float64 {
	if len(n.Subtasks) == 0 {
		return n.Task.SoldDays
	}
	var sum float64
	for _, sub := range n.Subtasks {
		sum += EstimatedDays(sub)
	}
	return sum
}

// SpentHours returns the ledger hours logged against the task and every
// descendant.
func SpentHours(n *domain.TaskNode, hoursByTask map[string]float64) float64 {
	total := hoursByTask[n.Task.ID]
	for _, sub := range n.Subtasks {
		total += SpentHours(sub, hoursByTask)
	}
	return total
}

// SpentDays converts the tree's ledger hours into days.
func SpentDays(n *domain.TaskNode, hoursByTask map[string]float64, dailyHours float64) float64 {
	return SpentHours(n, hoursByTask) / dailyHours
}

// RemainingDays sums the manually maintained remaining-hours estimates of
// the task and its descendants, converted to days. A null estimate counts
// as zero.
func RemainingDays(n *domain.TaskNode, dailyHours float64) float64 {
	var hours float64
	n.Walk(func(node *domain.TaskNode) {
		if node.Task.RemainingHours != nil {
			hours += *node.Task.RemainingHours
		}
	})
	return hours / dailyHours
}

// Compute derives the full aggregate figures for one task tree.
func Compute(n *domain.TaskNode, hoursByTask map[string]float64, dailyHours float64) Figures {
	f := Figures{
		EstimatedDays: EstimatedDays(n),
		SpentDays:     SpentDays(n, hoursByTask, dailyHours),
		RemainingDays: RemainingDays(n, dailyHours),
	}
	finish(&f)
	return f
}

// Total sums the aggregates of a list of top-level task trees, the figure
// for a stage or a whole project. The gap and advancement percentages are
// recomputed from the summed day quantities, never averaged.
func Total(nodes []*domain.TaskNode, hoursByTask map[string]float64, dailyHours float64) Figures {
	var f Figures
	for _, n := range nodes {
		f.EstimatedDays += EstimatedDays(n)
		f.SpentDays += SpentDays(n, hoursByTask, dailyHours)
		f.RemainingDays += RemainingDays(n, dailyHours)
	}
	finish(&f)
	return f
}

// ProjectTotal folds every stage's tasks and the unstaged tasks of a
// project tree into one figure.
func ProjectTotal(tree *domain.ProjectTree, dailyHours float64) Figures {
	nodes := make([]*domain.TaskNode, 0, len(tree.Unstaged))
	for _, st := range tree.Stages {
		nodes = append(nodes, st.Tasks...)
	}
	nodes = append(nodes, tree.Unstaged...)
	return Total(nodes, tree.LedgerHours, dailyHours)
}

// finish fills the derived fields from the three day quantities.
// Forecast is the projected cost at completion; the gap is its deviation
// from the sold estimate (positive = under budget). Both gap and
// advancement are undefined or zero without an estimate.
func finish(f *Figures) {
	f.ForecastDays = f.SpentDays + f.RemainingDays
	if f.EstimatedDays > 0 {
		gap := (1 - f.ForecastDays/f.EstimatedDays) * 100
		f.GapPercent = &gap
		f.AdvancementPercent = f.SpentDays / f.EstimatedDays * 100
	}
}
