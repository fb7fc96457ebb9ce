package services

import (
	"taskboard/backend/internal/errs"
	"taskboard/backend/internal/models"
)

type Resource string

const (
	ResourceTask Resource = "task"
	ResourceUser Resource = "user"
)

type Action string

const (
	ActionRead     Action = "read"
	ActionList     Action = "list"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionReassign Action = "reassign"
)

// AuthorizationDecision is the outcome of a policy check. Kind is only
// meaningful when Allowed is false.
type AuthorizationDecision struct {
	Allowed bool      `json:"allowed"`
	Kind    errs.Kind `json:"-"`
	Reason  string    `json:"reason"`
}

// Err returns nil for an allow and the typed error for a deny.
func (d AuthorizationDecision) Err() error {
	if d.Allowed {
		return nil
	}
	return errs.New(d.Kind, d.Reason)
}

func allow(reason string) AuthorizationDecision {
	return AuthorizationDecision{Allowed: true, Reason: reason}
}

func deny(kind errs.Kind, reason string) AuthorizationDecision {
	return AuthorizationDecision{Allowed: false, Kind: kind, Reason: reason}
}

// Decide evaluates whether caller may perform action on resource. ownerID
// is the owner of the task in question and is ignored for user resources.
// It performs no I/O and is safe for concurrent use.
func Decide(caller *models.Identity, resource Resource, action Action, ownerID uint) AuthorizationDecision {
	if caller == nil {
		return deny(errs.KindUnauthorized, "authentication required")
	}

	switch caller.Role {
	case models.RoleAdmin:
		return allow("admin")
	case models.RoleUser:
	default:
		return deny(errs.KindForbidden, "unknown role")
	}

	if resource != ResourceTask {
		return deny(errs.KindForbidden, "admin access required")
	}

	switch action {
	case ActionRead, ActionList, ActionUpdate:
		if ownerID == caller.UserID {
			return allow("owner")
		}
		return deny(errs.KindForbidden, "you do not have access to this task")
	default:
		return deny(errs.KindForbidden, "admin access required")
	}
}
