package domain

import "fmt"

// Role enumerates operator capability tiers. Capabilities are defined
// per pair in the authz package, not derived from rank.
type Role string

const (
	RoleOwner     Role = "owner"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// ParseRole validates a raw role value against the closed set. All role
// values entering the system must pass through here; the authz predicates
// assume validated input.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleOwner, RoleAdmin, RoleModerator, RoleUser:
		return Role(raw), nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}
