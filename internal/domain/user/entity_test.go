package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrincipalIsScopeUnrestricted(t *testing.T) {
	tests := []struct {
		name      string
		principal Principal
		want      bool
	}{
		{"superadmin", Principal{Role: RoleSuperAdmin}, true},
		{"superadmin with companies", Principal{Role: RoleSuperAdmin, CompanyIDs: []string{"a"}}, true},
		{"admin without companies", Principal{Role: RoleAdmin}, true},
		{"admin with companies", Principal{Role: RoleAdmin, CompanyIDs: []string{"a"}}, false},
		{"supervisor", Principal{Role: RoleSupervisor, CompanyIDs: []string{"a"}}, false},
		{"supervisor without companies", Principal{Role: RoleSupervisor}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.principal.IsScopeUnrestricted())
		})
	}
}

func TestPrincipalCanWriteAnyDate(t *testing.T) {
	assert.True(t, Principal{Role: RoleSuperAdmin}.CanWriteAnyDate())
	assert.True(t, Principal{Role: RoleAdmin, CompanyIDs: []string{"a"}}.CanWriteAnyDate())
	assert.False(t, Principal{Role: RoleSupervisor, CompanyIDs: []string{"a"}}.CanWriteAnyDate())
}

func TestUserPrincipal(t *testing.T) {
	u := User{
		ID:         "u-1",
		Username:   "ravi",
		Role:       RoleSupervisor,
		CompanyIDs: []string{"c-1"},
	}

	p := u.Principal()
	assert.Equal(t, "u-1", p.ID)
	assert.Equal(t, "ravi", p.Name)
	assert.Equal(t, []string{"c-1"}, p.CompanyIDs)

	u.FirstName, u.LastName = "Ravi", "Kumar"
	assert.Equal(t, "Ravi Kumar", u.Principal().Name)
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin, PermissionReportsView))
	assert.True(t, HasPermission(RoleSupervisor, PermissionAttendanceWrite))
	assert.False(t, HasPermission(RoleSupervisor, PermissionReportsView))
	assert.False(t, HasPermission(RoleSupervisor, PermissionPastDateManage))
	assert.False(t, HasPermission(Role("owner"), PermissionAttendanceView))
}
