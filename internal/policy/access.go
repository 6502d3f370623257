package policy

import (
	"eventease/internal/auth"
	"eventease/internal/model"
)

// Access decides what a caller may do with an event. The privileged flags
// let admin/staff override ownership checks; both default to off until the
// product decides otherwise.
type Access struct {
	AllowPrivilegedView     bool
	AllowPrivilegedMutation bool
}

// NewAccess creates an access policy with the given override flags.
func NewAccess(allowPrivilegedView, allowPrivilegedMutation bool) *Access {
	return &Access{
		AllowPrivilegedView:     allowPrivilegedView,
		AllowPrivilegedMutation: allowPrivilegedMutation,
	}
}

func isPrivileged(identity *auth.Identity) bool {
	return identity != nil && (identity.Role == model.RoleAdmin || identity.Role == model.RoleStaff)
}

// CanView reports whether the caller may know the event exists and see its
// detail. Public events are visible to everyone; private events only to
// their creator (and admin/staff when the override is on).
func (a *Access) CanView(event *model.Event, identity *auth.Identity) bool {
	if event.IsPublic {
		return true
	}
	if identity != nil && identity.UserID == event.CreatorID {
		return true
	}
	return a.AllowPrivilegedView && isPrivileged(identity)
}

// CanMutate reports whether the caller may update or delete the event.
func (a *Access) CanMutate(event *model.Event, identity *auth.Identity) bool {
	if identity == nil {
		return false
	}
	if identity.UserID == event.CreatorID {
		return true
	}
	return a.AllowPrivilegedMutation && isPrivileged(identity)
}

// ShouldCountView reports whether a read should bump the view counter.
// Creators never count their own views; everyone else counts, anonymous
// callers included.
func (a *Access) ShouldCountView(event *model.Event, identity *auth.Identity) bool {
	return identity == nil || identity.UserID != event.CreatorID
}
