package access

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
)

func survey(owner primitive.ObjectID, level models.UserRole, zone, region, city, branch string) *models.Survey {
	return &models.Survey{
		UserID:    owner,
		RoleLevel: level,
		OrgUnit:   models.OrgUnit{Zone: zone, Region: region, City: city, Branch: branch},
	}
}

func TestScope_Allows_BranchSeesOnlySelf(t *testing.T) {
	viewer := primitive.NewObjectID()
	other := primitive.NewObjectID()
	scope := Scope{
		ViewerID:            viewer,
		Role:                models.UserRoleBranch,
		OrgUnit:             models.OrgUnit{Zone: "East", Region: "CCU", City: "KOLKATA", Branch: "K01"},
		IncludeSubordinates: true,
	}

	if !scope.Allows(survey(viewer, models.UserRoleBranch, "East", "CCU", "KOLKATA", "K01")) {
		t.Error("branch user should see their own survey")
	}
	if scope.Allows(survey(other, models.UserRoleBranch, "East", "CCU", "KOLKATA", "K01")) {
		t.Error("branch user should not see another branch user's survey, even at the same branch")
	}
}

func TestScope_Allows_RegionViewer(t *testing.T) {
	viewer := primitive.NewObjectID()
	other := primitive.NewObjectID()
	scope := Scope{
		ViewerID:            viewer,
		Role:                models.UserRoleRegion,
		OrgUnit:             models.OrgUnit{Zone: "East", Region: "CCU"},
		IncludeSubordinates: true,
	}

	tests := []struct {
		name     string
		survey   *models.Survey
		expected bool
	}{
		{"own survey", survey(viewer, models.UserRoleRegion, "East", "CCU", "", ""), true},
		{"city survey in own region", survey(other, models.UserRoleCity, "East", "CCU", "KOLKATA", ""), true},
		{"branch survey in own region", survey(other, models.UserRoleBranch, "East", "CCU", "KOLKATA", "K01"), true},
		{"peer region survey", survey(other, models.UserRoleRegion, "East", "CCU", "", ""), false},
		{"other region", survey(other, models.UserRoleBranch, "East", "BBS", "CUTTACK", "C01"), false},
		{"other zone same region name", survey(other, models.UserRoleBranch, "West", "CCU", "KOLKATA", "K01"), false},
		{"zone survey above viewer", survey(other, models.UserRoleZone, "East", "", "", ""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scope.Allows(tt.survey); got != tt.expected {
				t.Errorf("Allows() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestScope_Allows_ZoneViewerWithNarrowing(t *testing.T) {
	viewer := primitive.NewObjectID()
	other := primitive.NewObjectID()
	scope := Scope{
		ViewerID:            viewer,
		Role:                models.UserRoleZone,
		OrgUnit:             models.OrgUnit{Zone: "East"},
		Filter:              models.OrgUnit{Region: "CCU"},
		IncludeSubordinates: true,
	}

	if !scope.Allows(survey(other, models.UserRoleBranch, "East", "CCU", "KOLKATA", "K01")) {
		t.Error("narrowed zone viewer should see CCU branch surveys")
	}
	if scope.Allows(survey(other, models.UserRoleBranch, "East", "BBS", "CUTTACK", "C01")) {
		t.Error("narrowed zone viewer should not see surveys outside the region filter")
	}
	if !scope.Allows(survey(viewer, models.UserRoleZone, "East", "", "", "")) {
		t.Error("self-visibility should override the narrowing filter")
	}
}

func TestScope_Allows_OwnOnlyWhenSubordinatesExcluded(t *testing.T) {
	viewer := primitive.NewObjectID()
	other := primitive.NewObjectID()
	scope := Scope{
		ViewerID: viewer,
		Role:     models.UserRoleZone,
		OrgUnit:  models.OrgUnit{Zone: "East"},
	}

	if !scope.Allows(survey(viewer, models.UserRoleZone, "East", "", "", "")) {
		t.Error("own survey should be visible")
	}
	if scope.Allows(survey(other, models.UserRoleBranch, "East", "CCU", "KOLKATA", "K01")) {
		t.Error("subordinate surveys should be hidden unless requested")
	}
}

func TestScope_Allows_AdminFilters(t *testing.T) {
	viewer := primitive.NewObjectID()
	other := primitive.NewObjectID()

	unfiltered := Scope{ViewerID: viewer, Role: models.UserRoleAdmin, IncludeSubordinates: true}
	if !unfiltered.Allows(survey(other, models.UserRoleBranch, "West", "BOM", "MUMBAI", "M01")) {
		t.Error("unfiltered admin should see everything")
	}

	narrowed := Scope{
		ViewerID:            viewer,
		Role:                models.UserRoleAdmin,
		Filter:              models.OrgUnit{Zone: "East", Region: "CCU"},
		IncludeSubordinates: true,
	}
	if !narrowed.Allows(survey(other, models.UserRoleBranch, "East", "CCU", "KOLKATA", "K01")) {
		t.Error("narrowed admin should see matching surveys")
	}
	if narrowed.Allows(survey(other, models.UserRoleBranch, "West", "BOM", "MUMBAI", "M01")) {
		t.Error("narrowed admin should not see surveys outside the filter")
	}
}

func TestScope_MongoFilter_OwnOnly(t *testing.T) {
	viewer := primitive.NewObjectID()
	scope := Scope{ViewerID: viewer, Role: models.UserRoleZone, OrgUnit: models.OrgUnit{Zone: "East"}}

	got := scope.MongoFilter()
	want := bson.M{"user_id": viewer}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MongoFilter() = %v, want %v", got, want)
	}
}

func TestScope_MongoFilter_AdminUnrestricted(t *testing.T) {
	scope := Scope{ViewerID: primitive.NewObjectID(), Role: models.UserRoleAdmin, IncludeSubordinates: true}
	if got := scope.MongoFilter(); len(got) != 0 {
		t.Errorf("MongoFilter() = %v, want empty filter", got)
	}
}

func TestScope_MongoFilter_CityViewer(t *testing.T) {
	viewer := primitive.NewObjectID()
	scope := Scope{
		ViewerID:            viewer,
		Role:                models.UserRoleCity,
		OrgUnit:             models.OrgUnit{Zone: "East", Region: "CCU", City: "KOLKATA"},
		Filter:              models.OrgUnit{Branch: "K01"},
		IncludeSubordinates: true,
	}

	got := scope.MongoFilter()
	or, ok := got["$or"].([]bson.M)
	if !ok || len(or) != 2 {
		t.Fatalf("MongoFilter() = %v, want $or with own and base clauses", got)
	}
	if !reflect.DeepEqual(or[0], bson.M{"user_id": viewer}) {
		t.Errorf("own clause = %v", or[0])
	}
	base := or[1]
	if base["role_level"] != models.UserRoleBranch {
		t.Errorf("role_level = %v, want BRANCH only", base["role_level"])
	}
	if base["org_unit.city_id"] != "KOLKATA" || base["org_unit.branch_id"] != "K01" {
		t.Errorf("base clause missing city/branch restriction: %v", base)
	}
}

func TestAllowedChildRoles(t *testing.T) {
	tests := []struct {
		manager  models.UserRole
		expected []models.UserRole
	}{
		{models.UserRoleAdmin, []models.UserRole{models.UserRoleAdmin, models.UserRoleZone, models.UserRoleRegion, models.UserRoleCity, models.UserRoleBranch}},
		{models.UserRoleZone, []models.UserRole{models.UserRoleRegion, models.UserRoleCity, models.UserRoleBranch}},
		{models.UserRoleRegion, []models.UserRole{models.UserRoleCity, models.UserRoleBranch}},
		{models.UserRoleCity, []models.UserRole{models.UserRoleBranch}},
		{models.UserRoleBranch, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.manager), func(t *testing.T) {
			if got := AllowedChildRoles(tt.manager); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("AllowedChildRoles(%s) = %v, want %v", tt.manager, got, tt.expected)
			}
		})
	}
}

func TestCanAssignRole(t *testing.T) {
	tests := []struct {
		name     string
		manager  models.UserRole
		target   models.UserRole
		expected bool
	}{
		{"admin assigns admin", models.UserRoleAdmin, models.UserRoleAdmin, true},
		{"zone assigns region", models.UserRoleZone, models.UserRoleRegion, true},
		{"zone cannot assign zone", models.UserRoleZone, models.UserRoleZone, false},
		{"zone cannot assign admin", models.UserRoleZone, models.UserRoleAdmin, false},
		{"city cannot assign city", models.UserRoleCity, models.UserRoleCity, false},
		{"branch assigns nobody", models.UserRoleBranch, models.UserRoleBranch, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAssignRole(tt.manager, tt.target); got != tt.expected {
				t.Errorf("CanAssignRole(%s, %s) = %v, want %v", tt.manager, tt.target, got, tt.expected)
			}
		})
	}
}

func TestWithinJurisdiction(t *testing.T) {
	regionUnit := models.OrgUnit{Zone: "East", Region: "CCU"}
	tests := []struct {
		name     string
		manager  models.UserRole
		unit     models.OrgUnit
		target   models.OrgUnit
		expected bool
	}{
		{"admin anywhere", models.UserRoleAdmin, models.OrgUnit{}, models.OrgUnit{Zone: "West"}, true},
		{"zone inside", models.UserRoleZone, models.OrgUnit{Zone: "East"}, models.OrgUnit{Zone: "East", Region: "CCU"}, true},
		{"zone outside", models.UserRoleZone, models.OrgUnit{Zone: "East"}, models.OrgUnit{Zone: "West", Region: "BOM"}, false},
		{"region inside", models.UserRoleRegion, regionUnit, models.OrgUnit{Zone: "East", Region: "CCU", City: "KOLKATA"}, true},
		{"region wrong region", models.UserRoleRegion, regionUnit, models.OrgUnit{Zone: "East", Region: "BBS"}, false},
		{"branch never manages", models.UserRoleBranch, models.OrgUnit{Zone: "East", Region: "CCU", City: "KOLKATA", Branch: "K01"}, models.OrgUnit{Zone: "East", Region: "CCU", City: "KOLKATA", Branch: "K01"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinJurisdiction(tt.manager, tt.unit, tt.target); got != tt.expected {
				t.Errorf("WithinJurisdiction() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNormalizeOrgUnit(t *testing.T) {
	full := models.OrgUnit{Zone: "East", Region: "CCU", City: "KOLKATA", Branch: "K01"}

	tests := []struct {
		name     string
		role     models.UserRole
		unit     models.OrgUnit
		expected models.OrgUnit
		wantErr  error
	}{
		{"admin carries no geography", models.UserRoleAdmin, full, models.OrgUnit{}, nil},
		{"zone keeps zone only", models.UserRoleZone, full, models.OrgUnit{Zone: "East"}, nil},
		{"region keeps zone and region", models.UserRoleRegion, full, models.OrgUnit{Zone: "East", Region: "CCU"}, nil},
		{"city keeps three levels", models.UserRoleCity, full, models.OrgUnit{Zone: "East", Region: "CCU", City: "KOLKATA"}, nil},
		{"branch keeps full chain", models.UserRoleBranch, full, full, nil},
		{"branch missing branch id", models.UserRoleBranch, models.OrgUnit{Zone: "East", Region: "CCU", City: "KOLKATA"}, models.OrgUnit{}, models.ErrIncompleteOrgUnit},
		{"zone missing zone", models.UserRoleZone, models.OrgUnit{}, models.OrgUnit{}, models.ErrIncompleteOrgUnit},
		{"invalid role", models.UserRole("NOPE"), full, models.OrgUnit{}, models.ErrInvalidUserRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeOrgUnit(tt.role, tt.unit)
			if err != tt.wantErr {
				t.Fatalf("NormalizeOrgUnit() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("NormalizeOrgUnit() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCheckManage(t *testing.T) {
	regionManager := &models.User{
		Role:    models.UserRoleRegion,
		OrgUnit: models.OrgUnit{Zone: "East", Region: "CCU"},
	}

	if err := CheckManage(regionManager, models.UserRoleBranch, models.OrgUnit{Zone: "East", Region: "CCU", City: "KOLKATA", Branch: "K01"}); err != nil {
		t.Errorf("CheckManage() error = %v, want nil", err)
	}
	if err := CheckManage(regionManager, models.UserRoleRegion, models.OrgUnit{Zone: "East", Region: "CCU"}); err != models.ErrRoleNotManageable {
		t.Errorf("equal role error = %v, want ErrRoleNotManageable", err)
	}
	if err := CheckManage(regionManager, models.UserRoleZone, models.OrgUnit{Zone: "East"}); err != models.ErrRoleNotManageable {
		t.Errorf("higher role error = %v, want ErrRoleNotManageable", err)
	}
	if err := CheckManage(regionManager, models.UserRoleBranch, models.OrgUnit{Zone: "East", Region: "BBS", City: "CUTTACK", Branch: "C01"}); err != models.ErrOrgUnitOutsideScope {
		t.Errorf("outside jurisdiction error = %v, want ErrOrgUnitOutsideScope", err)
	}
	if err := CheckManage(regionManager, models.UserRole("NOPE"), models.OrgUnit{}); err != models.ErrInvalidUserRole {
		t.Errorf("invalid role error = %v, want ErrInvalidUserRole", err)
	}
}
