package subscriptions

import (
	"context"

	"github.com/angelmondragon/footballzones-backend/pkg/enums"
	"github.com/google/uuid"
)

// EntitlementChecker resolves whether a user may read premium content.
// Billing lives outside this service; the checker is the seam where it plugs in.
type EntitlementChecker interface {
	Entitled(ctx context.Context, userID uuid.UUID, role enums.Role) (bool, error)
}

// RoleEntitlements grants premium access to every role that implies a paid plan.
type RoleEntitlements struct {
	paid map[enums.Role]struct{}
}

// NewRoleEntitlements returns a checker treating the given roles as subscribed.
// With no roles it falls back to PLAYER, COACH, PARENT and ADMIN.
func NewRoleEntitlements(roles ...enums.Role) *RoleEntitlements {
	if len(roles) == 0 {
		roles = []enums.Role{enums.RolePlayer, enums.RoleCoach, enums.RoleParent, enums.RoleAdmin}
	}
	paid := make(map[enums.Role]struct{}, len(roles))
	for _, r := range roles {
		paid[r] = struct{}{}
	}
	return &RoleEntitlements{paid: paid}
}

func (r *RoleEntitlements) Entitled(_ context.Context, userID uuid.UUID, role enums.Role) (bool, error) {
	if userID == uuid.Nil {
		return false, nil
	}
	_, ok := r.paid[role]
	return ok, nil
}
