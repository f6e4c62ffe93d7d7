// Package access implements the hierarchical visibility and user-management
// rules. A viewer sees their own records always, plus records from levels
// strictly below their own position in the geography, never peers or
// superiors.
package access

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
)

// Scope captures one viewer's visibility over surveys: who they are, where
// they sit in the hierarchy, and any optional narrowing the caller chose
// (e.g. a Zone manager drilling into one region).
type Scope struct {
	ViewerID primitive.ObjectID
	Role     models.UserRole
	OrgUnit  models.OrgUnit

	// Filter optionally narrows the subordinate view to a deeper slice of
	// the viewer's jurisdiction. Fields at or above the viewer's own level
	// are ignored for non-admin viewers.
	Filter models.OrgUnit

	// IncludeSubordinates false restricts the scope to the viewer's own
	// surveys regardless of role.
	IncludeSubordinates bool
}

// VisibleLevels returns the survey levels a viewer may see besides their own
// records. Branch users see no subordinate levels.
func (s Scope) VisibleLevels() []models.UserRole {
	switch s.Role {
	case models.UserRoleAdmin:
		return []models.UserRole{models.UserRoleZone, models.UserRoleRegion, models.UserRoleCity, models.UserRoleBranch}
	case models.UserRoleZone:
		return []models.UserRole{models.UserRoleRegion, models.UserRoleCity, models.UserRoleBranch}
	case models.UserRoleRegion:
		return []models.UserRole{models.UserRoleCity, models.UserRoleBranch}
	case models.UserRoleCity:
		return []models.UserRole{models.UserRoleBranch}
	}
	return nil
}

// Allows reports whether a survey is visible inside this scope. It is the
// in-memory twin of MongoFilter and must agree with it.
func (s Scope) Allows(survey *models.Survey) bool {
	if !s.IncludeSubordinates {
		return survey.UserID == s.ViewerID
	}

	switch s.Role {
	case models.UserRoleAdmin:
		return s.adminFilterMatches(survey)
	}

	// Self-visibility always wins for hierarchy viewers.
	if survey.UserID == s.ViewerID {
		return true
	}

	switch s.Role {
	case models.UserRoleZone:
		if survey.OrgUnit.Zone != s.OrgUnit.Zone {
			return false
		}
		if !levelIn(survey.RoleLevel, models.UserRoleRegion, models.UserRoleCity, models.UserRoleBranch) {
			return false
		}
		return matchNarrowing(survey.OrgUnit, s.Filter, false, true, true, true)
	case models.UserRoleRegion:
		if survey.OrgUnit.Zone != s.OrgUnit.Zone || survey.OrgUnit.Region != s.OrgUnit.Region {
			return false
		}
		if !levelIn(survey.RoleLevel, models.UserRoleCity, models.UserRoleBranch) {
			return false
		}
		return matchNarrowing(survey.OrgUnit, s.Filter, false, false, true, true)
	case models.UserRoleCity:
		if survey.OrgUnit.Zone != s.OrgUnit.Zone ||
			survey.OrgUnit.Region != s.OrgUnit.Region ||
			survey.OrgUnit.City != s.OrgUnit.City {
			return false
		}
		if survey.RoleLevel != models.UserRoleBranch {
			return false
		}
		return matchNarrowing(survey.OrgUnit, s.Filter, false, false, false, true)
	}
	// Branch and unknown roles see only their own surveys.
	return false
}

// adminFilterMatches applies the admin's optional geographic narrowing. The
// deepest provided filter field decides how much of the chain must match.
func (s Scope) adminFilterMatches(survey *models.Survey) bool {
	f := s.Filter
	switch {
	case f.Branch != "":
		return survey.OrgUnit == f
	case f.City != "":
		return survey.OrgUnit.Zone == f.Zone && survey.OrgUnit.Region == f.Region && survey.OrgUnit.City == f.City
	case f.Region != "":
		return survey.OrgUnit.Zone == f.Zone && survey.OrgUnit.Region == f.Region
	case f.Zone != "":
		return survey.OrgUnit.Zone == f.Zone
	}
	return true
}

// MongoFilter builds the surveys-collection filter implementing this scope.
func (s Scope) MongoFilter() bson.M {
	own := bson.M{"user_id": s.ViewerID}
	if !s.IncludeSubordinates {
		return own
	}

	switch s.Role {
	case models.UserRoleAdmin:
		f := s.Filter
		switch {
		case f.Branch != "":
			return bson.M{
				"org_unit.zone_id":   f.Zone,
				"org_unit.region_id": f.Region,
				"org_unit.city_id":   f.City,
				"org_unit.branch_id": f.Branch,
			}
		case f.City != "":
			return bson.M{
				"org_unit.zone_id":   f.Zone,
				"org_unit.region_id": f.Region,
				"org_unit.city_id":   f.City,
			}
		case f.Region != "":
			return bson.M{
				"org_unit.zone_id":   f.Zone,
				"org_unit.region_id": f.Region,
			}
		case f.Zone != "":
			return bson.M{"org_unit.zone_id": f.Zone}
		}
		return bson.M{}
	case models.UserRoleZone:
		base := bson.M{
			"org_unit.zone_id": s.OrgUnit.Zone,
			"role_level": bson.M{"$in": []models.UserRole{
				models.UserRoleRegion, models.UserRoleCity, models.UserRoleBranch,
			}},
		}
		narrow(base, s.Filter, false, true, true, true)
		return bson.M{"$or": []bson.M{own, base}}
	case models.UserRoleRegion:
		base := bson.M{
			"org_unit.zone_id":   s.OrgUnit.Zone,
			"org_unit.region_id": s.OrgUnit.Region,
			"role_level": bson.M{"$in": []models.UserRole{
				models.UserRoleCity, models.UserRoleBranch,
			}},
		}
		narrow(base, s.Filter, false, false, true, true)
		return bson.M{"$or": []bson.M{own, base}}
	case models.UserRoleCity:
		base := bson.M{
			"org_unit.zone_id":   s.OrgUnit.Zone,
			"org_unit.region_id": s.OrgUnit.Region,
			"org_unit.city_id":   s.OrgUnit.City,
			"role_level":         models.UserRoleBranch,
		}
		narrow(base, s.Filter, false, false, false, true)
		return bson.M{"$or": []bson.M{own, base}}
	}
	return own
}

// narrow adds the caller's optional deeper filters to a base filter. Only the
// fields flagged true may narrow; the rest belong to the viewer's own chain.
func narrow(base bson.M, f models.OrgUnit, zone, region, city, branch bool) {
	if zone && f.Zone != "" {
		base["org_unit.zone_id"] = f.Zone
	}
	if region && f.Region != "" {
		base["org_unit.region_id"] = f.Region
	}
	if city && f.City != "" {
		base["org_unit.city_id"] = f.City
	}
	if branch && f.Branch != "" {
		base["org_unit.branch_id"] = f.Branch
	}
}

func matchNarrowing(unit, f models.OrgUnit, zone, region, city, branch bool) bool {
	if zone && f.Zone != "" && unit.Zone != f.Zone {
		return false
	}
	if region && f.Region != "" && unit.Region != f.Region {
		return false
	}
	if city && f.City != "" && unit.City != f.City {
		return false
	}
	if branch && f.Branch != "" && unit.Branch != f.Branch {
		return false
	}
	return true
}

func levelIn(level models.UserRole, levels ...models.UserRole) bool {
	for _, l := range levels {
		if level == l {
			return true
		}
	}
	return false
}
