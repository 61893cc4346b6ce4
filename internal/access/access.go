// Package access holds the per-operation role allow-lists.
package access

import (
	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/pkg/errors"
)

type Operation string

const (
	ClientRead   Operation = "client.read"
	ClientList   Operation = "client.list"
	ClientCreate Operation = "client.create"
	ClientUpdate Operation = "client.update"
	ClientDelete Operation = "client.delete"

	ProgramRead   Operation = "program.read"
	ProgramList   Operation = "program.list"
	ProgramCreate Operation = "program.create"
	ProgramUpdate Operation = "program.update"
	ProgramDelete Operation = "program.delete"

	EnrollmentRead   Operation = "enrollment.read"
	EnrollmentCreate Operation = "enrollment.create"

	DashboardRead Operation = "dashboard.read"
	ApiKeyManage  Operation = "apikey.manage"
	UserRoleWrite Operation = "user.role.update"
)

var (
	allStaff      = []model.Role{model.RoleAdmin, model.RoleDoctor, model.RoleNurse}
	adminOrDoctor = []model.Role{model.RoleAdmin, model.RoleDoctor}
	staffOrKey    = []model.Role{model.RoleAdmin, model.RoleDoctor, model.RoleNurse, model.RoleAPIClient}
)

var allowList = map[Operation][]model.Role{
	ClientRead:   staffOrKey,
	ClientList:   staffOrKey,
	ClientCreate: allStaff,
	ClientUpdate: allStaff,
	ClientDelete: {model.RoleDoctor},

	ProgramRead:   staffOrKey,
	ProgramList:   staffOrKey,
	ProgramCreate: allStaff,
	ProgramUpdate: adminOrDoctor,
	ProgramDelete: adminOrDoctor,

	EnrollmentRead:   allStaff,
	EnrollmentCreate: allStaff,

	DashboardRead: allStaff,
	ApiKeyManage:  {model.RoleAdmin},
	UserRoleWrite: {model.RoleAdmin},
}

// Allowed reports whether role may perform op. Unknown operations are denied.
func Allowed(role model.Role, op Operation) bool {
	for _, r := range allowList[op] {
		if r == role {
			return true
		}
	}
	return false
}

// Require fails with Unauthorized when sess is nil and Forbidden when the
// session role is not on the operation's allow-list.
func Require(sess *model.Session, op Operation) error {
	if sess == nil {
		return errors.Unauthorized("authentication required")
	}
	if !Allowed(sess.Role, op) {
		return errors.Forbidden("you do not have permission to perform this action")
	}
	return nil
}

// APIKeySession is the principal of a request authenticated by API key. It
// may only read clients and programs.
func APIKeySession() *model.Session {
	return &model.Session{Name: "api-key", Role: model.RoleAPIClient}
}
