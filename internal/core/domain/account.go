package domain

import (
	"strings"
	"time"
)

// Role identifies the portal an operator works in.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleOfficer      Role = "officer"
	RoleSupervisor   Role = "supervisor"
	RoleInvestigator Role = "investigator"
)

// Roles lists the closed set of operator roles.
var Roles = []Role{RoleAdmin, RoleOfficer, RoleSupervisor, RoleInvestigator}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, role := range Roles {
		if role == r {
			return true
		}
	}
	return false
}

// AdminAccountID is the well-known id of the central administrator account.
const AdminAccountID = "admin-001"

// Account models an operator of the device.
type Account struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	State     string    `json:"state"`
	Locality  string    `json:"locality"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SameUsername compares usernames the way login does: case-insensitive,
// ignoring surrounding spaces.
func SameUsername(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// BaselineAccount is one entry of the always-present seeded account set.
type BaselineAccount struct {
	ID       string
	Username string
	Role     Role
	FullName string
}

// BaselineAccounts is re-asserted at every process start.
var BaselineAccounts = []BaselineAccount{
	{ID: AdminAccountID, Username: "admin", Role: RoleAdmin, FullName: "Central System Administrator"},
	{ID: "ops-001", Username: "ops", Role: RoleAdmin, FullName: "Operations Room Duty Officer"},
	{ID: "officer-001", Username: "officer", Role: RoleOfficer, FullName: "Field Traffic Officer"},
	{ID: "supervisor-001", Username: "supervisor", Role: RoleSupervisor, FullName: "Traffic Supervisor"},
	{ID: "investigator-001", Username: "investigator", Role: RoleInvestigator, FullName: "Accident Investigator"},
}

// baselineState and baselineLocality are applied when a baseline account is
// first created.
const (
	baselineState    = "Khartoum"
	baselineLocality = "Headquarters"
)

// NewBaselineAccount builds the account for a baseline entry.
func NewBaselineAccount(b BaselineAccount, now time.Time) Account {
	return Account{
		ID:        b.ID,
		FullName:  b.FullName,
		Username:  b.Username,
		Role:      b.Role,
		State:     baselineState,
		Locality:  baselineLocality,
		IsActive:  true,
		CreatedAt: now,
	}
}

// IsBaselineID reports whether id belongs to a baseline account.
func IsBaselineID(id string) bool {
	for _, b := range BaselineAccounts {
		if b.ID == id {
			return true
		}
	}
	return false
}
