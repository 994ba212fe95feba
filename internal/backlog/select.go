package backlog

// SelectNext returns the next eligible task, or nil if none is eligible.
//
// Selection is deterministic: among tasks with passes==false whose
// dependencies are all satisfied, the highest-priority task wins, with ties
// broken by original list position. A dependency id that matches no task is
// treated as unsatisfied, so the task is skipped rather than erroring.
//
// nil with Pending > 0 means the backlog is blocked (circular or
// unsatisfiable dependencies); nil with Pending == 0 means all done.
// Dependency cycles therefore surface as "blocked", never as a loop.
func SelectNext(list *TaskList) *Task {
	bestIdx := -1
	bestRank := 0

	for i := range list.Features {
		task := &list.Features[i]
		if task.Passes {
			continue
		}
		if !depsSatisfied(list, task) {
			continue
		}

		rank := PriorityRank(task.Priority)
		if bestIdx == -1 || rank < bestRank {
			bestIdx = i
			bestRank = rank
		}
	}

	if bestIdx == -1 {
		return nil
	}
	return &list.Features[bestIdx]
}

// depsSatisfied reports whether every dependency id maps to a passed task.
func depsSatisfied(list *TaskList, task *Task) bool {
	for _, dep := range task.Dependencies {
		depTask := list.FindTask(dep)
		if depTask == nil || !depTask.Passes {
			return false
		}
	}
	return true
}
