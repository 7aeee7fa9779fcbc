package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mverdier/tally/internal/domain"
	"github.com/mverdier/tally/internal/rollup"
)

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// treeLine is one rendered row: connector prefix plus title on the left,
// an aggregate badge on the right.
type treeLine struct {
	content string
	badge   string
}

// RenderProjectTree renders a project's work breakdown with effort
// aggregates: every stage with its task trees, then unstaged tasks.
// dailyHours is the viewing user's hour-to-day divisor.
func RenderProjectTree(tree *domain.ProjectTree, dailyHours float64) string {
	var lines []treeLine

	for _, st := range tree.Stages {
		total := rollup.Total(st.Tasks, tree.LedgerHours, dailyHours)
		title := StyleHeader.Render(st.Stage.Name)
		if st.Stage.Complete {
			title = StyleGreen.Render("✔ ") + title
		}
		lines = append(lines, treeLine{content: title, badge: badge(total)})
		lines = appendTaskLines(lines, st.Tasks, tree.LedgerHours, dailyHours, 1)
	}
	if len(tree.Unstaged) > 0 {
		lines = append(lines, treeLine{content: StyleHeader.Render("(unstaged)")})
		lines = appendTaskLines(lines, tree.Unstaged, tree.LedgerHours, dailyHours, 1)
	}

	maxWidth := 0
	for _, ln := range lines {
		if w := lipgloss.Width(ln.content); w > maxWidth {
			maxWidth = w
		}
	}

	var b strings.Builder
	for _, ln := range lines {
		b.WriteString(ln.content)
		if ln.badge != "" {
			pad := maxWidth - lipgloss.Width(ln.content) + 2
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(ln.badge)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func appendTaskLines(lines []treeLine, nodes []*domain.TaskNode, hoursByTask map[string]float64, dailyHours float64, level int) []treeLine {
	for i, n := range nodes {
		last := i == len(nodes)-1

		var prefix string
		for l := 1; l < level; l++ {
			prefix += treePipe
		}
		if last {
			prefix += treeCorner
		} else {
			prefix += treeBranch
		}

		title := n.Task.Name
		switch n.Task.Status {
		case domain.TaskDone:
			title = StyleGreen.Render("✔ ") + Dim(title)
		case domain.TaskInProgress:
			title = StyleYellowBold.Render("▶ " + title)
		case domain.TaskCancelled:
			title = Dim(title)
		}
		if rollup.RemainingStale(n.Task, rollup.SpentHours(&domain.TaskNode{Task: n.Task}, hoursByTask)) {
			title += StyleYellow.Render(" ⚠ stale")
		}

		f := rollup.Compute(n, hoursByTask, dailyHours)
		lines = append(lines, treeLine{content: prefix + title, badge: badge(f)})
		lines = appendTaskLines(lines, n.Subtasks, hoursByTask, dailyHours, level+1)
	}
	return lines
}

// badge summarizes one aggregate: sold, spent, forecast, gap.
func badge(f rollup.Figures) string {
	return StyleBlue.Render(fmt.Sprintf("[ sold %s  spent %s  fc %s  gap ",
		Days(f.EstimatedDays), Days(f.SpentDays), Days(f.ForecastDays))) +
		Gap(f.GapPercent) + StyleBlue.Render(" ]")
}
