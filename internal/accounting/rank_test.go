package accounting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/coursebook-api/internal/models"
)

func ranked(id string, remaining int, completed bool) models.StudentStats {
	return models.StudentStats{
		Student:             models.Student{ID: id},
		TotalRemaining:      remaining,
		HasCompletedCourses: completed,
	}
}

func ids(stats []models.StudentStats) []string {
	out := make([]string, 0, len(stats))
	for _, s := range stats {
		out = append(out, s.Student.ID)
	}
	return out
}

func TestRankStudents(t *testing.T) {
	input := []models.StudentStats{
		ranked("a", 3, false),
		ranked("b", 0, true),
		ranked("c", 5, false),
		ranked("d", 3, true),
		ranked("e", 1, false),
	}

	tests := []struct {
		name string
		mode models.SortMode
		want []string
	}{
		{name: "remaining desc", mode: models.SortRemainingDesc, want: []string{"c", "a", "d", "e", "b"}},
		{name: "remaining asc", mode: models.SortRemainingAsc, want: []string{"b", "e", "a", "d", "c"}},
		{name: "completed first", mode: models.SortCompleted, want: []string{"b", "d", "a", "c", "e"}},
		{name: "none", mode: models.SortNone, want: []string{"a", "b", "c", "d", "e"}},
		{name: "unknown", mode: models.SortMode("alphabetical"), want: []string{"a", "b", "c", "d", "e"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RankStudents(input, tc.mode)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestRankStudentsDoesNotMutateInput(t *testing.T) {
	input := []models.StudentStats{ranked("a", 1, false), ranked("b", 9, false)}

	got := RankStudents(input, models.SortRemainingDesc)

	assert.Equal(t, []string{"b", "a"}, ids(got))
	assert.Equal(t, []string{"a", "b"}, ids(input))
}

func TestRankStudentsEmpty(t *testing.T) {
	got := RankStudents(nil, models.SortCompleted)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
