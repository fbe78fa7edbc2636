package model

// Session is the acting user of a request. It is passed explicitly to every
// workflow operation.
type Session struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// HasRole reports whether the session's role is one of allowed.
func (s Session) HasRole(allowed ...Role) bool {
	return contains(allowed, s.Role)
}

// Role groups used to gate operations.
var (
	Managers = []Role{RoleAdmin, RoleProjectManager}
	Editors  = []Role{RoleAdmin, RoleProjectManager, RoleTeamMember}
)
