// Package policy decides which task mutations a user may perform.
//
// The functions are pure: they look only at the acting user's role and id and
// at the task's owner. Unknown roles are always denied.
package policy

import "workplace/internal/model"

// CanCreate reports whether user may create a task. Every authenticated user may.
func CanCreate(user *model.User) bool {
	return true
}

// CanUpdate reports whether user may edit task.
// Admins and managers may edit any task; members only their own.
func CanUpdate(user *model.User, task *model.Task) bool {
	switch user.Role {
	case model.RoleAdmin, model.RoleManager:
		return true
	case model.RoleMember:
		return task.OwnedBy(user.ID)
	default:
		return false
	}
}

// CanDelete reports whether user may delete task.
// Admins may delete any task; managers and members only their own.
func CanDelete(user *model.User, task *model.Task) bool {
	switch user.Role {
	case model.RoleAdmin:
		return true
	case model.RoleManager, model.RoleMember:
		return task.OwnedBy(user.ID)
	default:
		return false
	}
}
