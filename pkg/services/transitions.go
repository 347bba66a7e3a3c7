package services

import "github.com/droverhq/drover/pkg/models"

// validTransitions encodes the task FSM. Terminal states have no outgoing
// edges.
var validTransitions = map[models.TaskStatus][]models.TaskStatus{
	models.TaskSubmitted: {models.TaskRunning, models.TaskCancelled, models.TaskFailed},
	models.TaskRunning:   {models.TaskPaused, models.TaskCompleted, models.TaskFailed, models.TaskCancelled},
	models.TaskPaused:    {models.TaskRunning, models.TaskCancelled},
}

// CanTransition reports whether the FSM permits moving from one status to
// another.
func CanTransition(from, to models.TaskStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
