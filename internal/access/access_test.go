package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/pkg/errors"
)

func TestRequire(t *testing.T) {
	tests := []struct {
		op      Operation
		role    model.Role
		allowed bool
	}{
		{ClientCreate, model.RoleNurse, true},
		{ClientUpdate, model.RoleAdmin, true},
		{ClientDelete, model.RoleDoctor, true},
		{ClientDelete, model.RoleAdmin, false},
		{ClientDelete, model.RoleNurse, false},
		{ProgramCreate, model.RoleNurse, true},
		{ProgramUpdate, model.RoleDoctor, true},
		{ProgramUpdate, model.RoleNurse, false},
		{ProgramDelete, model.RoleNurse, false},
		{ProgramDelete, model.RoleAdmin, true},
		{EnrollmentCreate, model.RoleNurse, true},
		{ApiKeyManage, model.RoleAdmin, true},
		{ApiKeyManage, model.RoleDoctor, false},
		{UserRoleWrite, model.RoleNurse, false},
		{ClientList, model.RoleAPIClient, true},
		{ProgramRead, model.RoleAPIClient, true},
		{ClientCreate, model.RoleAPIClient, false},
		{EnrollmentRead, model.RoleAPIClient, false},
		{Operation("unknown"), model.RoleAdmin, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.op)+"/"+string(tt.role), func(t *testing.T) {
			err := Require(&model.Session{Role: tt.role}, tt.op)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, errors.ErrForbidden))
		})
	}
}

func TestRequireWithoutSession(t *testing.T) {
	err := Require(nil, ProgramList)
	assert.True(t, errors.Is(err, errors.ErrUnauthorized))
}

func TestUnknownRoleDenied(t *testing.T) {
	err := Require(&model.Session{Role: "Receptionist"}, ClientRead)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
}
