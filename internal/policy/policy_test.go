package policy

import (
	"testing"

	"github.com/leon37/Hamhama/internal/model"
	"github.com/stretchr/testify/assert"
)

var (
	owner    = &model.Principal{UserID: 1, Username: "bob", Authorities: []string{"ROLE_USER"}}
	stranger = &model.Principal{UserID: 2, Username: "carol", Authorities: []string{"ROLE_USER"}}
	admin    = &model.Principal{UserID: 9, Username: "root", Authorities: []string{"ROLE_USER", "ROLE_ADMIN"}}
)

func TestCanViewProfile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		view ProfileView
		want bool
	}{
		{"public anonymous", ProfileView{OwnerID: 1}, true},
		{"public stranger", ProfileView{OwnerID: 1, Viewer: stranger}, true},
		{"private anonymous", ProfileView{OwnerID: 1, OwnerPrivate: true}, false},
		{"private owner", ProfileView{OwnerID: 1, OwnerPrivate: true, Viewer: owner}, true},
		{"private follower", ProfileView{OwnerID: 1, OwnerPrivate: true, Viewer: stranger, ViewerFollowsOwner: true}, true},
		{"private stranger", ProfileView{OwnerID: 1, OwnerPrivate: true, Viewer: stranger}, false},
		// 管理员不享受特殊可见性
		{"private admin", ProfileView{OwnerID: 1, OwnerPrivate: true, Viewer: admin}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanViewProfile(tt.view))
		})
	}
}

func TestGuards(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, RequireAuthenticated(nil), model.ErrUnauthenticated)
	assert.NoError(t, RequireAuthenticated(stranger))

	assert.ErrorIs(t, RequireRole(nil, model.RoleAdmin), model.ErrUnauthenticated)
	assert.ErrorIs(t, RequireRole(stranger, model.RoleAdmin), model.ErrAccessDenied)
	assert.NoError(t, RequireRole(admin, model.RoleAdmin))

	assert.ErrorIs(t, RequireSelfOrRole(nil, 1, model.RoleAdmin), model.ErrUnauthenticated)
	assert.NoError(t, RequireSelfOrRole(owner, 1, model.RoleAdmin))
	assert.NoError(t, RequireSelfOrRole(admin, 1, model.RoleAdmin))
	assert.ErrorIs(t, RequireSelfOrRole(stranger, 1, model.RoleAdmin), model.ErrAccessDenied)
}
