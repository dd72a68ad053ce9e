package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func fixture() ([]domain.Task, []domain.User) {
	users := []domain.User{
		{ID: 1, Name: "Admin", Role: domain.RoleAdmin},
		{ID: 2, Name: "Ada", Role: domain.RoleUser},
		{ID: 3, Name: "Idle", Role: domain.RoleUser},
	}
	tasks := []domain.Task{
		{ID: 6, Title: "overdue high", Status: domain.StatusTodo, Priority: domain.PriorityHigh, DueDate: ptr("2024-05-01"), AssignedTo: ptr(int64(2))},
		{ID: 5, Title: "done past due", Status: domain.StatusDone, Priority: domain.PriorityHigh, DueDate: ptr("2024-05-01"), AssignedTo: ptr(int64(2))},
		{ID: 4, Title: "in progress", Status: domain.StatusInProgress, Priority: domain.PriorityLow, DueDate: ptr("2024-07-01"), AssignedTo: ptr(int64(1))},
		{ID: 3, Title: "bad date", Status: domain.StatusTodo, Priority: domain.PriorityMedium, DueDate: ptr("whenever")},
		{ID: 2, Title: "done low", Status: domain.StatusDone, Priority: domain.PriorityLow},
		{ID: 1, Title: "ghost assignee", Status: domain.StatusInProgress, Priority: domain.PriorityMedium, AssignedTo: ptr(int64(99))},
	}
	return tasks, users
}

func ids(views []domain.TaskView) []int64 {
	out := make([]int64, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}

func TestAggregate(t *testing.T) {
	tasks, users := fixture()
	s := Aggregate(tasks, users, now)

	assert.Equal(t, 6, s.TotalTasks)
	assert.Equal(t, 3, s.TotalUsers)
	assert.Equal(t, now, s.GeneratedAt)

	assert.Equal(t, []int64{6, 5, 4, 3, 2, 1}, ids(s.AllTasks))
	assert.Equal(t, []int64{5, 2}, ids(s.Completed))
	assert.Equal(t, 2, s.CompletedCount)

	assert.Equal(t, []int64{6}, ids(s.Overdue), "done tasks must never be overdue")
	assert.Equal(t, 1, s.OverdueCount)

	assert.Equal(t, []int64{6, 3}, ids(s.Todo))
	assert.Equal(t, []int64{4, 1}, ids(s.InProgress))
	assert.Equal(t, s.TotalTasks, len(s.Todo)+len(s.InProgress)+len(s.Completed))

	assert.Equal(t, []int64{6}, ids(s.HighPriority))
	assert.Equal(t, []int64{3, 1}, ids(s.MediumPriority))
	assert.Equal(t, []int64{4}, ids(s.LowPriority))

	assert.Equal(t, map[domain.Status]int{
		domain.StatusTodo:       2,
		domain.StatusInProgress: 2,
		domain.StatusDone:       2,
	}, s.StatusBreakdown)
	assert.Equal(t, map[domain.Priority]int{
		domain.PriorityHigh:   2,
		domain.PriorityMedium: 2,
		domain.PriorityLow:    2,
	}, s.PriorityBreakdown)
}

func TestAggregate_UserDistribution(t *testing.T) {
	tasks, users := fixture()
	s := Aggregate(tasks, users, now)

	require.Len(t, s.UserDistribution, 3)

	admin, ada, idle := s.UserDistribution[0], s.UserDistribution[1], s.UserDistribution[2]
	assert.Equal(t, "Admin", admin.Name)
	assert.Equal(t, []int64{4}, ids(admin.Tasks))

	assert.Equal(t, 2, ada.TaskCount, "user load includes done tasks")
	assert.Equal(t, []int64{6, 5}, ids(ada.Tasks))

	assert.Equal(t, 0, idle.TaskCount)
	assert.NotNil(t, idle.Tasks)
}

func TestAggregate_Enrichment(t *testing.T) {
	tasks, users := fixture()
	s := Aggregate(tasks, users, now)

	byID := map[int64]domain.TaskView{}
	for _, v := range s.AllTasks {
		byID[v.ID] = v
	}

	require.NotNil(t, byID[6].AssignedUserName)
	assert.Equal(t, "Ada", *byID[6].AssignedUserName)
	assert.True(t, byID[6].IsOverdue)
	assert.Nil(t, byID[1].AssignedUserName, "unknown assignee has no name")
	assert.False(t, byID[3].IsOverdue, "unparseable due date fails open")
	assert.False(t, byID[5].IsOverdue)
}

func TestAggregate_EmptyInputs(t *testing.T) {
	s := Aggregate(nil, nil, now)

	assert.Zero(t, s.TotalTasks)
	assert.Zero(t, s.TotalUsers)

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, key := range []string{
		"all_tasks_list", "completed_tasks_list", "overdue_tasks_list",
		"todo_tasks_list", "in_progress_tasks_list", "high_priority_tasks_list",
		"medium_priority_tasks_list", "low_priority_tasks_list", "user_distribution",
	} {
		list, ok := decoded[key].([]any)
		assert.True(t, ok, "%s must be a JSON array, got %v", key, decoded[key])
		assert.Empty(t, list, key)
	}

	statuses, ok := decoded["status_breakdown"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, statuses, 3)
}
