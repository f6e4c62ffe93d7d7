package services

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/hierarchy"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository for service tests
type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.EmployeeID == user.EmployeeID && u.DeletedAt == nil {
			return models.ErrEmployeeIDExists
		}
	}
	user.BeforeCreate()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, models.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmployeeID(ctx context.Context, employeeID string) (*models.User, error) {
	for _, u := range r.users {
		if u.EmployeeID == employeeID && u.DeletedAt == nil {
			copied := *u
			return &copied, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return models.ErrUserNotFound
	}
	user.BeforeUpdate()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return models.ErrUserNotFound
	}
	u.SoftDelete()
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error {
	u, ok := r.users[id]
	if !ok {
		return models.ErrUserNotFound
	}
	u.UpdateLastLogin()
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, filter bson.M, includeInactive bool, opts repository.PaginationOptions) (*repository.PaginatedResult[models.User], error) {
	items := []models.User{}
	for _, u := range r.users {
		if u.DeletedAt != nil {
			continue
		}
		if !includeInactive && !u.IsActive {
			continue
		}
		items = append(items, *u)
	}
	return &repository.PaginatedResult[models.User]{
		Items:      items,
		TotalCount: int64(len(items)),
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalPages: 1,
	}, nil
}

func (r *fakeUserRepo) CountActiveAdmins(ctx context.Context) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Role == models.UserRoleAdmin && u.IsActive && u.DeletedAt == nil {
			n++
		}
	}
	return n, nil
}

// noopAuditService discards audit entries
type noopAuditService struct{}

func (noopAuditService) Log(ctx context.Context, entry *models.AuditLog) error { return nil }
func (noopAuditService) LogAsync(entry *models.AuditLog)                       {}
func (noopAuditService) ListByResource(ctx context.Context, resourceType string, resourceID primitive.ObjectID, opts repository.PaginationOptions) (*repository.PaginatedResult[models.AuditLog], error) {
	return nil, nil
}
func (noopAuditService) ListByActor(ctx context.Context, actorUserID primitive.ObjectID, opts repository.PaginationOptions) (*repository.PaginatedResult[models.AuditLog], error) {
	return nil, nil
}
func (noopAuditService) ListRecent(ctx context.Context, opts repository.PaginationOptions) (*repository.PaginatedResult[models.AuditLog], error) {
	return nil, nil
}

func testMappings() hierarchy.Mappings {
	return hierarchy.Mappings{
		"East": {
			"CCU": {
				"KOLKATA": {"K01": "Moulali", "K02": "Park Street"},
			},
		},
		"West": {
			"BOM": {
				"MUMBAI": {"M01": "Andheri"},
			},
		},
	}
}

func testUser(employeeID string, role models.UserRole, unit models.OrgUnit) *models.User {
	return &models.User{
		ID:         primitive.NewObjectID(),
		EmployeeID: employeeID,
		Name:       employeeID,
		Role:       role,
		OrgUnit:    unit,
		IsActive:   true,
	}
}

func TestUserServiceCreate(t *testing.T) {
	admin := testUser("admin", models.UserRoleAdmin, models.OrgUnit{})
	zone := testUser("zone1", models.UserRoleZone, models.OrgUnit{Zone: "East"})
	branch := testUser("branch1", models.UserRoleBranch, models.OrgUnit{Zone: "East", Region: "CCU", City: "KOLKATA", Branch: "K01"})

	tests := []struct {
		name    string
		manager *models.User
		input   CreateUserInput
		wantErr error
	}{
		{
			name:    "admin creates zone supervisor",
			manager: admin,
			input: CreateUserInput{
				EmployeeID: "zone-new", Name: "New Zone", Role: models.UserRoleZone,
				Password: "secret", OrgUnit: models.OrgUnit{Zone: "West"},
			},
		},
		{
			name:    "zone creates region inside own zone",
			manager: zone,
			input: CreateUserInput{
				EmployeeID: "region-new", Name: "New Region", Role: models.UserRoleRegion,
				Password: "secret", OrgUnit: models.OrgUnit{Zone: "East", Region: "CCU"},
			},
		},
		{
			name:    "zone cannot create peer zone",
			manager: zone,
			input: CreateUserInput{
				EmployeeID: "zone-peer", Name: "Peer", Role: models.UserRoleZone,
				Password: "secret", OrgUnit: models.OrgUnit{Zone: "East"},
			},
			wantErr: models.ErrRoleNotManageable,
		},
		{
			name:    "zone cannot create region in other zone",
			manager: zone,
			input: CreateUserInput{
				EmployeeID: "region-west", Name: "West Region", Role: models.UserRoleRegion,
				Password: "secret", OrgUnit: models.OrgUnit{Zone: "West", Region: "BOM"},
			},
			wantErr: models.ErrOrgUnitOutsideScope,
		},
		{
			name:    "branch manages nobody",
			manager: branch,
			input: CreateUserInput{
				EmployeeID: "x", Name: "X", Role: models.UserRoleBranch,
				Password: "secret", OrgUnit: branch.OrgUnit,
			},
			wantErr: models.ErrRoleNotManageable,
		},
		{
			name:    "unknown chain rejected",
			manager: admin,
			input: CreateUserInput{
				EmployeeID: "ghost", Name: "Ghost", Role: models.UserRoleRegion,
				Password: "secret", OrgUnit: models.OrgUnit{Zone: "East", Region: "NOPE"},
			},
			wantErr: models.ErrInvalidOrgUnit,
		},
		{
			name:    "incomplete unit rejected",
			manager: admin,
			input: CreateUserInput{
				EmployeeID: "partial", Name: "Partial", Role: models.UserRoleCity,
				Password: "secret", OrgUnit: models.OrgUnit{Zone: "East"},
			},
			wantErr: models.ErrIncompleteOrgUnit,
		},
		{
			name:    "missing password rejected",
			manager: admin,
			input: CreateUserInput{
				EmployeeID: "nopass", Name: "No Pass", Role: models.UserRoleZone,
				OrgUnit: models.OrgUnit{Zone: "East"},
			},
			wantErr: models.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeUserRepo(admin, zone, branch)
			svc := NewUserService(repo, noopAuditService{}, testMappings(), "C32722")

			user, err := svc.Create(context.Background(), tt.manager, tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.PasswordHash == "" || user.PasswordHash == tt.input.Password {
				t.Error("password was not hashed")
			}
			if !user.IsActive {
				t.Error("new users should start active")
			}
		})
	}
}

func TestUserServiceCreateNormalizesOrgUnit(t *testing.T) {
	admin := testUser("admin", models.UserRoleAdmin, models.OrgUnit{})
	repo := newFakeUserRepo(admin)
	svc := NewUserService(repo, noopAuditService{}, testMappings(), "C32722")

	// Extra depth beyond the role's level must be trimmed away.
	user, err := svc.Create(context.Background(), admin, CreateUserInput{
		EmployeeID: "zone-x", Name: "Zone X", Role: models.UserRoleZone,
		Password: "secret",
		OrgUnit:  models.OrgUnit{Zone: "East", Region: "CCU", City: "KOLKATA", Branch: "K01"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.OrgUnit != (models.OrgUnit{Zone: "East"}) {
		t.Errorf("expected unit trimmed to zone, got %+v", user.OrgUnit)
	}
}

func TestUserServiceUpdateLastAdmin(t *testing.T) {
	admin := testUser("admin", models.UserRoleAdmin, models.OrgUnit{})
	repo := newFakeUserRepo(admin)
	svc := NewUserService(repo, noopAuditService{}, testMappings(), "C32722")

	demote := models.UserRoleZone
	_, err := svc.Update(context.Background(), admin, admin.ID, UpdateUserInput{
		Role:    &demote,
		OrgUnit: &models.OrgUnit{Zone: "East"},
	})
	if !errors.Is(err, models.ErrLastAdmin) {
		t.Errorf("expected ErrLastAdmin on demoting sole admin, got %v", err)
	}

	inactive := false
	_, err = svc.Update(context.Background(), admin, admin.ID, UpdateUserInput{IsActive: &inactive})
	if !errors.Is(err, models.ErrLastAdmin) {
		t.Errorf("expected ErrLastAdmin on deactivating sole admin, got %v", err)
	}

	// With a second active admin the demotion is allowed.
	second := testUser("admin2", models.UserRoleAdmin, models.OrgUnit{})
	repo2 := newFakeUserRepo(admin, second)
	svc2 := NewUserService(repo2, noopAuditService{}, testMappings(), "C32722")
	updated, err := svc2.Update(context.Background(), admin, second.ID, UpdateUserInput{
		Role:    &demote,
		OrgUnit: &models.OrgUnit{Zone: "East"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Role != models.UserRoleZone {
		t.Errorf("expected role ZONE after demotion, got %s", updated.Role)
	}
}

func TestUserServiceProtectedAccount(t *testing.T) {
	super := testUser("C32722", models.UserRoleAdmin, models.OrgUnit{})
	admin := testUser("admin", models.UserRoleAdmin, models.OrgUnit{})
	repo := newFakeUserRepo(super, admin)
	svc := NewUserService(repo, noopAuditService{}, testMappings(), "C32722")

	name := "Renamed"
	if _, err := svc.Update(context.Background(), admin, super.ID, UpdateUserInput{Name: &name}); !errors.Is(err, models.ErrProtectedAccount) {
		t.Errorf("expected ErrProtectedAccount on update, got %v", err)
	}
	if err := svc.Delete(context.Background(), admin, super.ID); !errors.Is(err, models.ErrProtectedAccount) {
		t.Errorf("expected ErrProtectedAccount on delete, got %v", err)
	}
}

func TestUserServiceDelete(t *testing.T) {
	admin := testUser("admin", models.UserRoleAdmin, models.OrgUnit{})
	admin2 := testUser("admin2", models.UserRoleAdmin, models.OrgUnit{})
	zone := testUser("zone1", models.UserRoleZone, models.OrgUnit{Zone: "East"})

	t.Run("self delete refused", func(t *testing.T) {
		repo := newFakeUserRepo(admin, admin2)
		svc := NewUserService(repo, noopAuditService{}, testMappings(), "C32722")
		if err := svc.Delete(context.Background(), admin, admin.ID); !errors.Is(err, models.ErrSelfDelete) {
			t.Errorf("expected ErrSelfDelete, got %v", err)
		}
	})

	t.Run("last admin refused", func(t *testing.T) {
		repo := newFakeUserRepo(admin, admin2)
		svc := NewUserService(repo, noopAuditService{}, testMappings(), "C32722")
		if err := svc.Delete(context.Background(), admin, admin2.ID); err != nil {
			t.Fatalf("unexpected error deleting second admin: %v", err)
		}
		// admin is now the only active admin left; nobody may remove them.
		third := testUser("admin3", models.UserRoleAdmin, models.OrgUnit{})
		if err := repo.Create(context.Background(), third); err != nil {
			t.Fatal(err)
		}
		if err := svc.Delete(context.Background(), third, admin.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := svc.Delete(context.Background(), admin, third.ID); !errors.Is(err, models.ErrLastAdmin) {
			t.Errorf("expected ErrLastAdmin, got %v", err)
		}
	})

	t.Run("jurisdiction enforced", func(t *testing.T) {
		westRegion := testUser("region-west", models.UserRoleRegion, models.OrgUnit{Zone: "West", Region: "BOM"})
		repo := newFakeUserRepo(admin, zone, westRegion)
		svc := NewUserService(repo, noopAuditService{}, testMappings(), "C32722")
		if err := svc.Delete(context.Background(), zone, westRegion.ID); !errors.Is(err, models.ErrOrgUnitOutsideScope) {
			t.Errorf("expected ErrOrgUnitOutsideScope, got %v", err)
		}
	})
}

func TestUserServiceGetHidesOutOfScope(t *testing.T) {
	zone := testUser("zone1", models.UserRoleZone, models.OrgUnit{Zone: "East"})
	westRegion := testUser("region-west", models.UserRoleRegion, models.OrgUnit{Zone: "West", Region: "BOM"})
	repo := newFakeUserRepo(zone, westRegion)
	svc := NewUserService(repo, noopAuditService{}, testMappings(), "C32722")

	if _, err := svc.Get(context.Background(), zone, westRegion.ID); !errors.Is(err, models.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound for out-of-scope account, got %v", err)
	}
	if _, err := svc.Get(context.Background(), zone, zone.ID); err != nil {
		t.Errorf("users should always see themselves: %v", err)
	}
}

func TestManageableFilter(t *testing.T) {
	svc := &userService{}

	admin := testUser("admin", models.UserRoleAdmin, models.OrgUnit{})
	filter, empty := svc.manageableFilter(admin)
	if empty || len(filter) != 0 {
		t.Errorf("admin filter should be unrestricted, got %v empty=%v", filter, empty)
	}

	branch := testUser("branch1", models.UserRoleBranch, models.OrgUnit{Zone: "East", Region: "CCU", City: "KOLKATA", Branch: "K01"})
	if _, empty := svc.manageableFilter(branch); !empty {
		t.Error("branch users manage nobody")
	}

	region := testUser("region1", models.UserRoleRegion, models.OrgUnit{Zone: "East", Region: "CCU"})
	filter, empty = svc.manageableFilter(region)
	if empty {
		t.Fatal("region filter should not be empty")
	}
	if filter["org_unit.zone_id"] != "East" || filter["org_unit.region_id"] != "CCU" {
		t.Errorf("expected zone and region constraints, got %v", filter)
	}
	if _, ok := filter["org_unit.city_id"]; ok {
		t.Error("region filter must not constrain city")
	}
}
