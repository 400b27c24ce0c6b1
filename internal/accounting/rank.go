package accounting

import (
	"sort"

	"github.com/noah-isme/coursebook-api/internal/models"
)

// RankStudents returns a reordered copy of stats. All orderings are stable,
// so students comparing equal keep their input order. Unknown modes behave
// like SortNone.
func RankStudents(stats []models.StudentStats, mode models.SortMode) []models.StudentStats {
	ranked := make([]models.StudentStats, len(stats))
	copy(ranked, stats)

	switch mode {
	case models.SortRemainingDesc:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].TotalRemaining > ranked[j].TotalRemaining
		})
	case models.SortRemainingAsc:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].TotalRemaining < ranked[j].TotalRemaining
		})
	case models.SortCompleted:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].HasCompletedCourses && !ranked[j].HasCompletedCourses
		})
	case models.SortNone:
	}
	return ranked
}
