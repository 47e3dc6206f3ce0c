package user

import "errors"

var ErrInvalidRole = errors.New("invalid role")

type Role string

const (
	RoleGuest    Role = "guest"
	RoleHost     Role = "host"
	RolePayments Role = "payments"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleGuest, RoleHost, RolePayments:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
