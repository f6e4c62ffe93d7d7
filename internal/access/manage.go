package access

import (
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
)

// AllowedChildRoles returns the roles a manager may create, edit, or delete.
// Admin manages everyone including other admins; every other role manages
// only strictly lower levels. Branch manages nobody.
func AllowedChildRoles(manager models.UserRole) []models.UserRole {
	switch manager {
	case models.UserRoleAdmin:
		return []models.UserRole{
			models.UserRoleAdmin, models.UserRoleZone, models.UserRoleRegion,
			models.UserRoleCity, models.UserRoleBranch,
		}
	case models.UserRoleZone:
		return []models.UserRole{models.UserRoleRegion, models.UserRoleCity, models.UserRoleBranch}
	case models.UserRoleRegion:
		return []models.UserRole{models.UserRoleCity, models.UserRoleBranch}
	case models.UserRoleCity:
		return []models.UserRole{models.UserRoleBranch}
	}
	return nil
}

// CanAssignRole reports whether a manager may assign the given role to a user.
func CanAssignRole(manager, target models.UserRole) bool {
	return levelIn(target, AllowedChildRoles(manager)...)
}

// WithinJurisdiction reports whether a target user's position falls inside
// the manager's geographic jurisdiction. Admin has global jurisdiction.
func WithinJurisdiction(manager models.UserRole, managerUnit, targetUnit models.OrgUnit) bool {
	switch manager {
	case models.UserRoleAdmin:
		return true
	case models.UserRoleZone:
		return targetUnit.Zone == managerUnit.Zone
	case models.UserRoleRegion:
		return targetUnit.Zone == managerUnit.Zone && targetUnit.Region == managerUnit.Region
	case models.UserRoleCity:
		return targetUnit.Zone == managerUnit.Zone &&
			targetUnit.Region == managerUnit.Region &&
			targetUnit.City == managerUnit.City
	}
	return false
}

// NormalizeOrgUnit trims an org unit to the depth the role requires: an
// Admin carries no geography, a Zone user carries a zone only, and so on
// down to Branch which carries the full chain. Missing required fields are
// rejected.
func NormalizeOrgUnit(role models.UserRole, unit models.OrgUnit) (models.OrgUnit, error) {
	out := models.OrgUnit{}
	switch role {
	case models.UserRoleAdmin:
		return out, nil
	case models.UserRoleZone:
		out.Zone = unit.Zone
	case models.UserRoleRegion:
		out.Zone, out.Region = unit.Zone, unit.Region
	case models.UserRoleCity:
		out.Zone, out.Region, out.City = unit.Zone, unit.Region, unit.City
	case models.UserRoleBranch:
		out = unit
	default:
		return out, models.ErrInvalidUserRole
	}
	if !requiredDepthSatisfied(role, out) {
		return models.OrgUnit{}, models.ErrIncompleteOrgUnit
	}
	return out, nil
}

func requiredDepthSatisfied(role models.UserRole, unit models.OrgUnit) bool {
	switch role {
	case models.UserRoleAdmin:
		return true
	case models.UserRoleZone:
		return unit.Zone != ""
	case models.UserRoleRegion:
		return unit.Zone != "" && unit.Region != ""
	case models.UserRoleCity:
		return unit.Zone != "" && unit.Region != "" && unit.City != ""
	case models.UserRoleBranch:
		return unit.Zone != "" && unit.Region != "" && unit.City != "" && unit.Branch != ""
	}
	return false
}

// CheckManage validates a management operation against the full rule set and
// returns a typed error describing the first violation.
func CheckManage(manager *models.User, targetRole models.UserRole, targetUnit models.OrgUnit) error {
	if !targetRole.IsValid() {
		return models.ErrInvalidUserRole
	}
	if !CanAssignRole(manager.Role, targetRole) {
		return models.ErrRoleNotManageable
	}
	if !WithinJurisdiction(manager.Role, manager.OrgUnit, targetUnit) {
		return models.ErrOrgUnitOutsideScope
	}
	return nil
}
