package models

// Role a user can hold. Exactly one role per user.
type Role string

const (
	RoleUser    Role = "ROLE_USER"
	RoleManager Role = "ROLE_MANAGER"
	RoleAdmin   Role = "ROLE_ADMIN"
)

// Ranks define the total order between roles.
// Authorization compares ranks, never parses role strings.
var roleRanks = map[Role]int{
	RoleUser:    1,
	RoleManager: 2,
	RoleAdmin:   3,
}

func (r Role) Known() bool {
	_, ok := roleRanks[r]
	return ok
}

// AtLeast reports whether r grants at least the privileges of required.
// Unknown roles rank below everything.
func (r Role) AtLeast(required Role) bool {
	return roleRanks[r] >= roleRanks[required] && roleRanks[required] != 0
}
