// Package permissions centralizes every role check made by state-changing
// operations. Callers get a typed Decision back so the denial reason can be
// surfaced to the user instead of a bare boolean.
package permissions

import "github.com/uucee/ClubWebApp/internal/models"

type Capability string

const (
	ManageMembers      Capability = "manage_members"       // list, add, invite, bulk import
	ManageFinances     Capability = "manage_finances"      // dues, payments, reports
	UpdateMemberStatus Capability = "update_member_status" // ACT/SUS/REM/PEN transitions
	ToggleAccess       Capability = "toggle_access"        // enable/disable login
	DeleteMembers      Capability = "delete_members"
	GrantElevatedRoles Capability = "grant_elevated_roles" // create ADM/FS members
)

// Decision is the outcome of a capability check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Check decides whether the acting member holds the given capability.
// Superusers pass every check regardless of profile role.
func Check(actor models.Member, cap Capability) Decision {
	if actor.User.IsSuperuser {
		return allow()
	}

	switch cap {
	case ToggleAccess, DeleteMembers, GrantElevatedRoles:
		if actor.Profile.IsAdmin() {
			return allow()
		}
		return deny("administrator role required")
	case ManageMembers, ManageFinances, UpdateMemberStatus:
		if actor.Profile.IsFinancialSecretary() {
			return allow()
		}
		return deny("administrator or financial secretary role required")
	}
	return deny("unknown capability")
}

// CheckTarget decides capability checks that also depend on the target
// user. Superuser targets are protected from access toggling and deletion
// no matter who is asking.
func CheckTarget(actor models.Member, cap Capability, target models.User) Decision {
	if cap == ToggleAccess || cap == DeleteMembers {
		if target.IsSuperuser {
			return deny("superuser accounts cannot be modified")
		}
	}
	return Check(actor, cap)
}
