package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/access"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/auth"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/hierarchy"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/repository"
)

// CreateUserInput carries the fields needed to create a user account.
type CreateUserInput struct {
	EmployeeID string
	Name       string
	Role       models.UserRole
	Password   string
	OrgUnit    models.OrgUnit
}

// UpdateUserInput carries the optional fields of a user update. Nil fields
// are left unchanged.
type UpdateUserInput struct {
	Name     *string
	Role     *models.UserRole
	OrgUnit  *models.OrgUnit
	Password *string
	IsActive *bool
}

// UserService defines the interface for user management operations. Every
// operation is evaluated against the manager performing it: managers may
// only act on roles below their own and inside their geographic jurisdiction.
type UserService interface {
	Create(ctx context.Context, manager *models.User, input CreateUserInput) (*models.User, error)
	Get(ctx context.Context, manager *models.User, id primitive.ObjectID) (*models.User, error)
	Update(ctx context.Context, manager *models.User, id primitive.ObjectID, input UpdateUserInput) (*models.User, error)
	Delete(ctx context.Context, manager *models.User, id primitive.ObjectID) error
	List(ctx context.Context, manager *models.User, includeInactive bool, opts repository.PaginationOptions) (*repository.PaginatedResult[models.User], error)
}

type userService struct {
	userRepo     repository.UserRepository
	auditService AuditService
	mappings     hierarchy.Mappings
	superAdminID string
}

// NewUserService creates a new user management service. The superAdminID is
// the employee ID of the bootstrap account that can never be modified or
// deleted through the API. A nil mappings tree disables chain validation.
func NewUserService(userRepo repository.UserRepository, auditService AuditService, mappings hierarchy.Mappings, superAdminID string) UserService {
	return &userService{
		userRepo:     userRepo,
		auditService: auditService,
		mappings:     mappings,
		superAdminID: superAdminID,
	}
}

// Create provisions a new account within the manager's jurisdiction.
func (s *userService) Create(ctx context.Context, manager *models.User, input CreateUserInput) (*models.User, error) {
	input.EmployeeID = strings.TrimSpace(input.EmployeeID)
	input.Name = strings.TrimSpace(input.Name)
	if input.EmployeeID == "" || input.Name == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: employee_id, name, and password are required", models.ErrInvalidInput)
	}

	unit, err := access.NormalizeOrgUnit(input.Role, input.OrgUnit)
	if err != nil {
		return nil, err
	}
	if err := access.CheckManage(manager, input.Role, unit); err != nil {
		return nil, err
	}
	if s.mappings != nil && !s.mappings.ValidChain(unit) {
		return nil, models.ErrInvalidOrgUnit
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		EmployeeID:   input.EmployeeID,
		Name:         input.Name,
		Role:         input.Role,
		OrgUnit:      unit,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.auditService.LogAsync(models.NewAuditLog(
		models.AuditActionCreate, models.ResourceTypeUser, user.ID,
		fmt.Sprintf("created user %s with role %s", user.EmployeeID, user.Role),
	).SetActor(&manager.ID, manager.EmployeeID))

	return user, nil
}

// Get fetches a single user. Managers may fetch themselves or anyone they
// are allowed to manage.
func (s *userService) Get(ctx context.Context, manager *models.User, id primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.ID == manager.ID {
		return user, nil
	}
	if err := access.CheckManage(manager, user.Role, user.OrgUnit); err != nil {
		// #SECURITY_CONCERN: out-of-scope accounts are indistinguishable
		// from missing ones, so jurisdiction cannot be probed by ID.
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

// Update modifies an account. Role and org unit changes are re-validated
// against both the manager's authority and the hierarchy tree, and the last
// active admin can neither be demoted nor deactivated.
func (s *userService) Update(ctx context.Context, manager *models.User, id primitive.ObjectID, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.EmployeeID == s.superAdminID {
		return nil, models.ErrProtectedAccount
	}
	if err := access.CheckManage(manager, user.Role, user.OrgUnit); err != nil {
		return nil, err
	}

	newRole := user.Role
	if input.Role != nil {
		newRole = *input.Role
	}
	newUnit := user.OrgUnit
	if input.OrgUnit != nil {
		newUnit = *input.OrgUnit
	}
	if input.Role != nil || input.OrgUnit != nil {
		newUnit, err = access.NormalizeOrgUnit(newRole, newUnit)
		if err != nil {
			return nil, err
		}
		if err := access.CheckManage(manager, newRole, newUnit); err != nil {
			return nil, err
		}
		if s.mappings != nil && !s.mappings.ValidChain(newUnit) {
			return nil, models.ErrInvalidOrgUnit
		}
	}

	// #BUSINESS_RULE: demoting or deactivating the last active admin would
	// lock everyone out of user management.
	losesAdmin := user.IsAdmin() && user.IsActive &&
		(newRole != models.UserRoleAdmin || (input.IsActive != nil && !*input.IsActive))
	if losesAdmin {
		count, err := s.userRepo.CountActiveAdmins(ctx)
		if err != nil {
			return nil, err
		}
		if count <= 1 {
			return nil, models.ErrLastAdmin
		}
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", models.ErrInvalidInput)
		}
		user.Name = name
	}
	user.Role = newRole
	user.OrgUnit = newUnit
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != nil {
		if *input.Password == "" {
			return nil, fmt.Errorf("%w: password cannot be empty", models.ErrInvalidInput)
		}
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.auditService.LogAsync(models.NewAuditLog(
		models.AuditActionUpdate, models.ResourceTypeUser, user.ID,
		fmt.Sprintf("updated user %s", user.EmployeeID),
	).SetActor(&manager.ID, manager.EmployeeID))

	return user, nil
}

// Delete soft deletes an account. Self-deletion, the protected bootstrap
// account, and the last active admin are all refused.
func (s *userService) Delete(ctx context.Context, manager *models.User, id primitive.ObjectID) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.EmployeeID == s.superAdminID {
		return models.ErrProtectedAccount
	}
	if user.ID == manager.ID {
		return models.ErrSelfDelete
	}
	if err := access.CheckManage(manager, user.Role, user.OrgUnit); err != nil {
		return err
	}
	if user.IsAdmin() && user.IsActive {
		count, err := s.userRepo.CountActiveAdmins(ctx)
		if err != nil {
			return err
		}
		if count <= 1 {
			return models.ErrLastAdmin
		}
	}

	if err := s.userRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.auditService.LogAsync(models.NewAuditLog(
		models.AuditActionDelete, models.ResourceTypeUser, user.ID,
		fmt.Sprintf("deleted user %s", user.EmployeeID),
	).SetActor(&manager.ID, manager.EmployeeID))

	return nil
}

// List returns the accounts the manager may manage, paginated. Admins see
// everyone; other roles see only the child roles inside their jurisdiction.
func (s *userService) List(ctx context.Context, manager *models.User, includeInactive bool, opts repository.PaginationOptions) (*repository.PaginatedResult[models.User], error) {
	filter, empty := s.manageableFilter(manager)
	if empty {
		return &repository.PaginatedResult[models.User]{
			Items:      []models.User{},
			TotalCount: 0,
			Page:       opts.Page,
			Limit:      opts.Limit,
			TotalPages: 0,
		}, nil
	}
	return s.userRepo.List(ctx, filter, includeInactive, opts)
}

// manageableFilter builds the MongoDB filter matching every account the
// manager may manage. The second return value is true when the manager can
// manage nobody (branch users), so no query is needed at all.
func (s *userService) manageableFilter(manager *models.User) (bson.M, bool) {
	if manager.IsAdmin() {
		return bson.M{}, false
	}
	childRoles := access.AllowedChildRoles(manager.Role)
	if len(childRoles) == 0 {
		return nil, true
	}
	roles := make([]string, 0, len(childRoles))
	for _, r := range childRoles {
		roles = append(roles, string(r))
	}
	filter := bson.M{"role": bson.M{"$in": roles}}

	// Jurisdiction is a prefix match on the org unit down to the manager's
	// own depth. Child role fields below that depth are unconstrained.
	switch manager.Role {
	case models.UserRoleZone:
		filter["org_unit.zone_id"] = manager.OrgUnit.Zone
	case models.UserRoleRegion:
		filter["org_unit.zone_id"] = manager.OrgUnit.Zone
		filter["org_unit.region_id"] = manager.OrgUnit.Region
	case models.UserRoleCity:
		filter["org_unit.zone_id"] = manager.OrgUnit.Zone
		filter["org_unit.region_id"] = manager.OrgUnit.Region
		filter["org_unit.city_id"] = manager.OrgUnit.City
	}
	return filter, false
}
