// Package analytics builds the admin dashboard snapshot from task and user
// records. Aggregate is pure: it reads its inputs and the supplied clock only.
package analytics

import (
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// UserLoad is one user's share of the task set, done tasks included.
type UserLoad struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	TaskCount int               `json:"task_count"`
	Tasks     []domain.TaskView `json:"tasks"`
}

// Snapshot is the result of one aggregation pass. Every list field is non-nil
// so clients can render empty states without null checks.
//
// Status lists cover every task. Priority lists cover pending (not done)
// tasks only, while PriorityBreakdown counts every task.
type Snapshot struct {
	TotalTasks     int `json:"total_tasks"`
	TotalUsers     int `json:"total_users"`
	CompletedCount int `json:"completed_tasks"`
	OverdueCount   int `json:"overdue_tasks"`

	StatusBreakdown   map[domain.Status]int   `json:"status_breakdown"`
	PriorityBreakdown map[domain.Priority]int `json:"priority_breakdown"`
	UserDistribution  []UserLoad              `json:"user_distribution"`

	AllTasks       []domain.TaskView `json:"all_tasks_list"`
	Completed      []domain.TaskView `json:"completed_tasks_list"`
	Overdue        []domain.TaskView `json:"overdue_tasks_list"`
	Todo           []domain.TaskView `json:"todo_tasks_list"`
	InProgress     []domain.TaskView `json:"in_progress_tasks_list"`
	HighPriority   []domain.TaskView `json:"high_priority_tasks_list"`
	MediumPriority []domain.TaskView `json:"medium_priority_tasks_list"`
	LowPriority    []domain.TaskView `json:"low_priority_tasks_list"`

	GeneratedAt time.Time `json:"generated_at"`
}

// Aggregate groups tasks for the dashboard. Task order is preserved within
// every list, so callers pass tasks newest first.
func Aggregate(tasks []domain.Task, users []domain.User, now time.Time) Snapshot {
	names := make(map[int64]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	s := Snapshot{
		TotalTasks:        len(tasks),
		TotalUsers:        len(users),
		StatusBreakdown:   make(map[domain.Status]int, len(domain.Statuses)),
		PriorityBreakdown: make(map[domain.Priority]int, len(domain.Priorities)),
		UserDistribution:  make([]UserLoad, 0, len(users)),
		AllTasks:          make([]domain.TaskView, 0, len(tasks)),
		Completed:         []domain.TaskView{},
		Overdue:           []domain.TaskView{},
		Todo:              []domain.TaskView{},
		InProgress:        []domain.TaskView{},
		HighPriority:      []domain.TaskView{},
		MediumPriority:    []domain.TaskView{},
		LowPriority:       []domain.TaskView{},
		GeneratedAt:       now,
	}
	for _, st := range domain.Statuses {
		s.StatusBreakdown[st] = 0
	}
	for _, p := range domain.Priorities {
		s.PriorityBreakdown[p] = 0
	}

	byAssignee := make(map[int64][]domain.TaskView)

	for _, t := range tasks {
		var assignee *string
		if t.AssignedTo != nil {
			if name, ok := names[*t.AssignedTo]; ok {
				assignee = &name
			}
		}
		view := domain.NewTaskView(t, assignee, now)

		s.AllTasks = append(s.AllTasks, view)
		s.StatusBreakdown[t.Status]++
		s.PriorityBreakdown[t.Priority]++

		switch t.Status {
		case domain.StatusDone:
			s.Completed = append(s.Completed, view)
		case domain.StatusTodo:
			s.Todo = append(s.Todo, view)
		case domain.StatusInProgress:
			s.InProgress = append(s.InProgress, view)
		}

		// IsOverdue already excludes done tasks; the status check keeps the
		// overdue list correct even if that rule changes.
		if t.Status != domain.StatusDone && view.IsOverdue {
			s.Overdue = append(s.Overdue, view)
		}

		if t.Status != domain.StatusDone {
			switch t.Priority {
			case domain.PriorityHigh:
				s.HighPriority = append(s.HighPriority, view)
			case domain.PriorityMedium:
				s.MediumPriority = append(s.MediumPriority, view)
			case domain.PriorityLow:
				s.LowPriority = append(s.LowPriority, view)
			}
		}

		if t.AssignedTo != nil {
			byAssignee[*t.AssignedTo] = append(byAssignee[*t.AssignedTo], view)
		}
	}

	s.CompletedCount = len(s.Completed)
	s.OverdueCount = len(s.Overdue)

	for _, u := range users {
		assigned := byAssignee[u.ID]
		if assigned == nil {
			assigned = []domain.TaskView{}
		}
		s.UserDistribution = append(s.UserDistribution, UserLoad{
			ID:        u.ID,
			Name:      u.Name,
			TaskCount: len(assigned),
			Tasks:     assigned,
		})
	}

	return s
}
