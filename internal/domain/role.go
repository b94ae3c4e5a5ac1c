package domain

type Role string

const (
	RoleStaff    Role = "STAFF"
	RoleManager  Role = "MANAGER"
	RoleCustomer Role = "CUSTOMER"
	RoleSystem   Role = "SYSTEM"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStaff, RoleManager, RoleCustomer, RoleSystem:
		return true
	}
	return false
}
