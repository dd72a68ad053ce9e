package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	admin := Actor{ID: 1, Role: RoleAdmin}
	assignee := Actor{ID: 2, Role: RoleUser}
	creator := Actor{ID: 3, Role: RoleUser}

	task := &Task{ID: 10, CreatedBy: creator.ID, AssignedTo: int64Ptr(assignee.ID)}
	unassigned := &Task{ID: 11, CreatedBy: creator.ID}

	tests := []struct {
		name    string
		actor   Actor
		task    *Task
		op      Operation
		wantErr error
	}{
		{"user creates", creator, nil, OpCreate, nil},
		{"user lists", creator, nil, OpReadAll, nil},
		{"admin reads any", admin, task, OpReadOne, nil},
		{"assignee reads", assignee, task, OpReadOne, nil},
		{"creator cannot read", creator, task, OpReadOne, ErrForbidden},
		{"admin updates any", admin, unassigned, OpUpdate, nil},
		{"assignee updates", assignee, task, OpUpdate, nil},
		{"creator cannot update", creator, task, OpUpdate, ErrForbidden},
		{"nobody owns unassigned", assignee, unassigned, OpUpdate, ErrForbidden},
		{"admin deletes", admin, task, OpDelete, nil},
		{"assignee cannot delete", assignee, task, OpDelete, ErrForbidden},
		{"zero actor", Actor{}, nil, OpCreate, ErrUnauthenticated},
		{"unknown role", Actor{ID: 9, Role: "root"}, nil, OpReadAll, ErrUnauthenticated},
		{"unknown operation", admin, task, Operation("archive"), ErrForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.actor, tc.task, tc.op)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestVisibleTo(t *testing.T) {
	assert.Nil(t, VisibleTo(Actor{ID: 1, Role: RoleAdmin}))

	filter := VisibleTo(Actor{ID: 5, Role: RoleUser})
	if assert.NotNil(t, filter) {
		assert.Equal(t, int64(5), *filter)
	}
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, RequireAdmin(Actor{ID: 1, Role: RoleAdmin}))
	assert.ErrorIs(t, RequireAdmin(Actor{ID: 2, Role: RoleUser}), ErrForbidden)
	assert.ErrorIs(t, RequireAdmin(Actor{}), ErrUnauthenticated)
}
