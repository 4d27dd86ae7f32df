package core

// Logger is implemented by the services/logger backends.
// args may contain errors, map[string]interface{} fields and a Caller.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Caller identifies who issued a request, for log and error reports.
type Caller struct {
	ID        string
	Role      string
	StudentID string
}

// caller roles
const (
	RoleStudent    = "student"
	RoleStaff      = "staff"
	RoleSupervisor = "supervisor"
	RoleExaminer   = "examiner"
	RoleAdmin      = "admin"
)

var Roles = []string{RoleStudent, RoleStaff, RoleSupervisor, RoleExaminer, RoleAdmin}

// IsStaff reports whether the caller reviews other students' records.
func (c Caller) IsStaff() bool {
	switch c.Role {
	case RoleStaff, RoleSupervisor, RoleExaminer, RoleAdmin:
		return true
	}
	return false
}

// ValidRole reports whether role is one of Roles.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
