// Package models defines the CloudVault domain records: accounts and the
// metadata of the files stored under them.
package models

import "time"

// Role determines an account's storage limit. The numeric values are the
// ordinals used by the persisted formats.
type Role int

const (
	RoleBasic Role = iota
	RolePremium
	RoleAdmin
)

// Roles lists every role.
var Roles = []Role{RoleBasic, RolePremium, RoleAdmin}

var roleNames = map[Role]string{
	RoleBasic:   "Free User",
	RolePremium: "Premium User",
	RoleAdmin:   "Administrator",
}

// storage limits in MB
var roleLimits = map[Role]float64{
	RoleBasic:   1024,
	RolePremium: 10240,
	RoleAdmin:   102400,
}

func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return "Unknown"
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// StorageLimitMB returns the quota of the role. Unknown roles get the Basic
// limit.
func (r Role) StorageLimitMB() float64 {
	if l, ok := roleLimits[r]; ok {
		return l
	}
	return roleLimits[RoleBasic]
}

// Account is a registered identity with its credentials, role and quota
// state.
type Account struct {
	Username       string
	Salt           string
	PasswordDigest string
	FullName       string
	Age            int
	Gender         string
	Role           Role
	UsedStorageMB  float64
	RegisteredAt   time.Time
	Active         bool
	FailedLogins   int
	Locked         bool
	LastLoginAt    time.Time // zero: never logged in
	MfaEnabled     bool
}

// StorageLimitMB is the quota of the account's current role.
func (a Account) StorageLimitMB() float64 {
	return a.Role.StorageLimitMB()
}

// AvailableMB is the remaining quota, never negative.
func (a Account) AvailableMB() float64 {
	free := a.StorageLimitMB() - a.UsedStorageMB
	if free < 0 {
		return 0
	}
	return free
}

// UsagePercent is the used share of the quota in percent.
func (a Account) UsagePercent() float64 {
	return a.UsedStorageMB / a.StorageLimitMB() * 100
}

// IsMale reports whether the gender marker denotes a man.
func (a Account) IsMale() bool {
	return a.Gender == "M" || a.Gender == "m"
}

// Salutation is the form of address shown in greetings.
func (a Account) Salutation() string {
	male := a.IsMale()
	if a.Age > 40 {
		if male {
			return "Sir"
		}
		return "Ma'am"
	}
	if male {
		return "Mr."
	}
	return "Ms."
}
