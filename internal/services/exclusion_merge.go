package services

import (
	"time"

	"github.com/planmate/planmate-backend/internal/types"
)

// Exclusion types, highest priority first. The Korean labels are the values
// stored in the database and shown to users.
const (
	ExclusionTypeHoliday  = "휴일지정"
	ExclusionTypeVacation = "휴가"
	ExclusionTypePersonal = "개인사정"
	ExclusionTypeOther    = "기타"
)

// exclusionPriority gives higher numbers to higher-priority types. Unknown
// types rank below every known one.
var exclusionPriority = map[string]int{
	ExclusionTypeHoliday:  4,
	ExclusionTypeVacation: 3,
	ExclusionTypePersonal: 2,
	ExclusionTypeOther:    1,
}

func exclusionRank(exclusionType string) int {
	return exclusionPriority[exclusionType]
}

func exclusionDateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// MergeExclusions resolves the template's locked exclusion list against the
// student's submission into one list with at most one entry per date.
//
// Template entries start the result set, marked source=template and locked.
// A student entry for a new date is appended as source=student, unlocked. A
// student entry colliding with a template date replaces it only when the
// student's type strictly outranks the template's. Student entries that claim
// source=template are stale echoes of a previous merge and are dropped before
// anything else.
func MergeExclusions(templateExclusions, studentExclusions []types.PlanExclusion) []types.PlanExclusion {
	byDate := make(map[string]types.PlanExclusion, len(templateExclusions))
	order := make([]string, 0, len(templateExclusions)+len(studentExclusions))

	for _, excl := range templateExclusions {
		entry := excl
		entry.Source = types.ExclusionSourceTemplate
		entry.IsLocked = true
		key := exclusionDateKey(entry.ExclusionDate)
		if _, seen := byDate[key]; !seen {
			order = append(order, key)
		}
		byDate[key] = entry
	}

	for _, excl := range studentExclusions {
		if excl.Source == types.ExclusionSourceTemplate {
			continue
		}
		entry := excl
		entry.Source = types.ExclusionSourceStudent
		entry.IsLocked = false
		key := exclusionDateKey(entry.ExclusionDate)
		existing, found := byDate[key]
		if !found {
			byDate[key] = entry
			order = append(order, key)
			continue
		}
		if existing.Source == types.ExclusionSourceTemplate && exclusionRank(entry.ExclusionType) > exclusionRank(existing.ExclusionType) {
			byDate[key] = entry
		}
	}

	merged := make([]types.PlanExclusion, 0, len(byDate))
	for _, key := range order {
		merged = append(merged, byDate[key])
	}
	return merged
}
