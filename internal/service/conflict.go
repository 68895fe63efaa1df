package service

import "github.com/akulasagar/aura-backend/internal/model"

// occupiedTimes collects every time string already scheduled across the
// given plans. Tasks belonging to excludePlanID, and the single task
// excludeTaskID, are left out so a plan or task can be updated against
// everything but itself. Zero means no exclusion.
func occupiedTimes(plans []model.Plan, excludePlanID, excludeTaskID uint) map[string]struct{} {
	existing := make(map[string]struct{})
	for _, plan := range plans {
		if excludePlanID != 0 && plan.ID == excludePlanID {
			continue
		}
		for _, task := range plan.Tasks {
			if excludeTaskID != 0 && task.ID == excludeTaskID {
				continue
			}
			existing[task.Time] = struct{}{}
		}
	}
	return existing
}

// findConflict returns the first candidate whose time is already taken,
// or nil when the whole batch is clear. Candidates are expected to
// carry normalized times.
func findConflict(existing map[string]struct{}, candidates []model.Task) *model.Task {
	for i := range candidates {
		if _, taken := existing[candidates[i].Time]; taken {
			return &candidates[i]
		}
	}
	return nil
}
