package models

import "time"

type Role string

const (
	RoleAdmin              Role = "ADM"
	RoleFinancialSecretary Role = "FS"
	RoleMember             Role = "MEM"
)

type Status string

const (
	StatusActive    Status = "ACT"
	StatusSuspended Status = "SUS" // Financially not up to date
	StatusRemoved   Status = "REM" // No longer a member
	StatusPending   Status = "PEN" // Invitation sent but profile not yet completed
)

// Profile extends a User with club membership data. Exactly one profile
// exists per user; deleting the user cascades to the profile.
type Profile struct {
	ID               uint `gorm:"primarykey"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	UserID           uint   `gorm:"uniqueIndex;not null"`
	User             User   `gorm:"constraint:OnDelete:CASCADE"`
	Role             Role   `gorm:"type:varchar(3);not null;default:'MEM'"`
	Status           Status `gorm:"type:varchar(3);not null;default:'PEN'"`
	Phone            string `gorm:"type:varchar(20)"`
	Address          string `gorm:"type:text"`
	City             string `gorm:"type:varchar(100)"`
	Country          string `gorm:"type:varchar(100)"`
	InvitationToken  *string `gorm:"type:varchar(64);uniqueIndex"`
	InvitationSentAt *time.Time
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFinancialSecretary, RoleMember:
		return true
	}
	return false
}

func (r Role) Display() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleFinancialSecretary:
		return "Financial Secretary"
	case RoleMember:
		return "Member"
	}
	return string(r)
}

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusRemoved, StatusPending:
		return true
	}
	return false
}

func (s Status) Display() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusSuspended:
		return "Suspended"
	case StatusRemoved:
		return "Removed"
	case StatusPending:
		return "Pending"
	}
	return string(s)
}

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// IsFinancialSecretary is true for admins too; admins hold every
// financial-secretary permission.
func (p *Profile) IsFinancialSecretary() bool {
	return p.Role == RoleAdmin || p.Role == RoleFinancialSecretary
}

// HasOutstandingInvitation reports whether an unconsumed invitation token
// is attached to this profile.
func (p *Profile) HasOutstandingInvitation() bool {
	return p.InvitationToken != nil && *p.InvitationToken != ""
}

// Member is the User+Profile aggregate. The two records are created and
// destroyed together; services hand out this pair rather than either half.
type Member struct {
	User    User
	Profile Profile
}

func (m *Member) IsActiveMember() bool {
	return m.User.IsActive && m.Profile.Status == StatusActive
}
