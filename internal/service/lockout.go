package service

import (
	"time"

	"github.com/akulasagar/aura-backend/internal/timeutil"
)

// mutationLockout is how close to a plan's start time edits and deletes
// stop being allowed.
const mutationLockout = 15 * time.Minute

// isLocked reports whether a plan may no longer be mutated. The plan's
// first task (construction order, not necessarily the earliest) is the
// representative start time. An unparsable time fails open: the
// mutation is allowed. That is inherited behavior, kept on purpose.
func isLocked(firstTaskTime string, planDate, now time.Time) bool {
	hours, minutes, ok := timeutil.ParseTime(firstTaskTime)
	if !ok {
		return false
	}
	startsAt := time.Date(planDate.Year(), planDate.Month(), planDate.Day(),
		hours, minutes, 0, 0, now.Location())
	return startsAt.Sub(now) < mutationLockout
}
