// Package permissions resolves a guild member to a staff tier.
//
// Tiers are ordered, so a command that needs Supervisor is also open to
// Management and Owner:
//
//	Owner > Management > Supervisor > Admin > SrMod > Moderator > Everyone
package permissions

import "github.com/NewLifeSMP/NewLifeBotGo/pkg/config"

// Tier is a permission level. Higher values carry more permissions.
type Tier int

const (
	Everyone Tier = iota
	Moderator
	SrMod
	Admin
	Supervisor
	Management
	Owner
)

// Staff is the lowest staff tier.
const Staff = Moderator

func (t Tier) String() string {
	switch t {
	case Everyone:
		return "Everyone"
	case Moderator:
		return "Moderator"
	case SrMod:
		return "Sr. Moderator"
	case Admin:
		return "Admin"
	case Supervisor:
		return "Supervisor"
	case Management:
		return "Management"
	case Owner:
		return "Owner"
	default:
		return "Unknown"
	}
}

// AtLeast reports whether t satisfies required.
func (t Tier) AtLeast(required Tier) bool {
	return t >= required
}

// Resolver maps role membership to a Tier.
type Resolver struct {
	roles   config.Roles
	ownerID string
}

// NewResolver builds a Resolver from the configured role IDs and owner user ID.
func NewResolver(roles config.Roles, ownerID string) *Resolver {
	return &Resolver{roles: roles, ownerID: ownerID}
}

// TierOf returns the highest tier held by a user with the given roles.
// The configured owner user always resolves to Owner.
func (r *Resolver) TierOf(userID string, roleIDs []string) Tier {
	if r.ownerID != "" && userID == r.ownerID {
		return Owner
	}

	held := make(map[string]struct{}, len(roleIDs))
	for _, id := range roleIDs {
		held[id] = struct{}{}
	}
	has := func(id string) bool {
		if id == "" {
			return false
		}
		_, ok := held[id]
		return ok
	}

	ladder := []struct {
		role string
		tier Tier
	}{
		{r.roles.Owner, Owner},
		{r.roles.Management, Management},
		{r.roles.Supervisor, Supervisor},
		{r.roles.Admin, Admin},
		{r.roles.SrMod, SrMod},
		{r.roles.Moderator, Moderator},
	}
	for _, step := range ladder {
		if has(step.role) {
			return step.tier
		}
	}
	return Everyone
}

// Has reports whether the user meets required.
func (r *Resolver) Has(userID string, roleIDs []string, required Tier) bool {
	return r.TierOf(userID, roleIDs).AtLeast(required)
}

// IsOwnerUser reports whether userID is the configured owner.
func (r *Resolver) IsOwnerUser(userID string) bool {
	return r.ownerID != "" && userID == r.ownerID
}

// StaffRoleIDs returns every configured tier role, lowest first.
func (r *Resolver) StaffRoleIDs() []string {
	var out []string
	for _, id := range []string{r.roles.Moderator, r.roles.SrMod, r.roles.Admin, r.roles.Supervisor, r.roles.Management, r.roles.Owner} {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
