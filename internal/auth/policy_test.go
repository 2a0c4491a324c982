package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/quote-service/internal/domain"
)

func TestCanAccess(t *testing.T) {
	private := Resource{OwnerID: "owner", Visibility: domain.VisibilityPrivate}
	public := Resource{OwnerID: "owner", Visibility: domain.VisibilityPublic}

	tests := []struct {
		name      string
		requester string
		isAdmin   bool
		resource  Resource
		action    Action
		want      bool
	}{
		{name: "public read anonymous", resource: public, action: ActionRead, want: true},
		{name: "public write anonymous", resource: public, action: ActionWrite, want: false},
		{name: "private read anonymous", resource: private, action: ActionRead, want: false},
		{name: "anonymous flagged admin is still denied", isAdmin: true, resource: private, action: ActionRead, want: false},
		{name: "owner read", requester: "owner", resource: private, action: ActionRead, want: true},
		{name: "owner write", requester: "owner", resource: private, action: ActionWrite, want: true},
		{name: "admin read", requester: "admin", isAdmin: true, resource: private, action: ActionRead, want: true},
		{name: "admin write", requester: "admin", isAdmin: true, resource: private, action: ActionWrite, want: true},
		{name: "stranger read", requester: "other", resource: private, action: ActionRead, want: false},
		{name: "stranger write public", requester: "other", resource: public, action: ActionWrite, want: false},
		{name: "ownerless resource", requester: "other", resource: Resource{}, action: ActionRead, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccess(tt.requester, tt.isAdmin, tt.resource, tt.action))
		})
	}
}

func TestPrincipalCanAccess_Nil(t *testing.T) {
	var p *Principal
	assert.False(t, p.CanAccess(Resource{OwnerID: "owner"}, ActionRead))
	assert.True(t, p.CanAccess(Resource{OwnerID: "owner", Visibility: domain.VisibilityPublic}, ActionRead))
}
