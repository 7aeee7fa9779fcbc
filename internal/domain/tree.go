package domain

import "sort"

// TaskNode is a task with its resolved subtask list, ordered by
// DisplayOrder. Trees are built from flat task lists; relationships stay
// id references in the underlying tasks, never live object cycles.
type TaskNode struct {
	Task     *Task
	Subtasks []*TaskNode
}

// StageTasks pairs a stage with its ordered top-level task trees.
type StageTasks struct {
	Stage *Stage
	Tasks []*TaskNode
}

// ProjectTree is the full work breakdown of one project: stages in order,
// each with its task trees, plus top-level tasks bound to no stage.
// LedgerHours carries the per-task timesheet totals so aggregate figures
// can be computed without going back to the store.
type ProjectTree struct {
	Project     *Project
	Stages      []*StageTasks
	Unstaged    []*TaskNode
	LedgerHours map[string]float64
}

// BuildForest assembles task trees from a flat task list. Tasks are keyed
// by id in an arena; children attach to parents by ParentTaskID and every
// sibling list is sorted by DisplayOrder. Tasks whose parent is missing
// from the input are treated as roots so a partial load still yields a
// usable forest.
func BuildForest(tasks []*Task) []*TaskNode {
	nodes := make(map[string]*TaskNode, len(tasks))
	for _, t := range tasks {
		nodes[t.ID] = &TaskNode{Task: t}
	}

	var roots []*TaskNode
	for _, t := range tasks {
		n := nodes[t.ID]
		if t.ParentTaskID != nil {
			if parent, ok := nodes[*t.ParentTaskID]; ok {
				parent.Subtasks = append(parent.Subtasks, n)
				continue
			}
		}
		roots = append(roots, n)
	}

	var sortRec func(ns []*TaskNode)
	sortRec = func(ns []*TaskNode) {
		sort.SliceStable(ns, func(i, j int) bool {
			return ns[i].Task.DisplayOrder < ns[j].Task.DisplayOrder
		})
		for _, n := range ns {
			sortRec(n.Subtasks)
		}
	}
	sortRec(roots)
	return roots
}

// EffectiveStageID resolves the stage governing a task by walking the
// parent chain to the nearest ancestor that carries a stage id. Returns
// nil for unstaged top-level tasks. byID is the task arena; the walk is
// bounded by its size so a corrupted chain cannot loop forever.
func EffectiveStageID(byID map[string]*Task, t *Task) *string {
	for steps := 0; t != nil && steps <= len(byID); steps++ {
		if t.StageID != nil {
			return t.StageID
		}
		if t.ParentTaskID == nil {
			return nil
		}
		t = byID[*t.ParentTaskID]
	}
	return nil
}

// Walk visits the node and every descendant, depth first.
func (n *TaskNode) Walk(visit func(*TaskNode)) {
	visit(n)
	for _, sub := range n.Subtasks {
		sub.Walk(visit)
	}
}
