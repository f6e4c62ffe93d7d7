// Package services provides business logic implementations.
// #IMPLEMENTATION_DECISION: Services orchestrate repositories and external services
package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/auth"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/repository"
)

// Custom errors for auth service
var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// AuthService handles authentication logic
// #INTEGRATION_POINT: Used by auth handler for login/logout flows
type AuthService interface {
	// Login authenticates with employee ID and password
	Login(ctx context.Context, employeeID, password string) (*auth.TokenPair, *models.User, error)

	// RefreshAccessToken refreshes an access token using a refresh token
	RefreshAccessToken(ctx context.Context, refreshToken string) (*auth.TokenPair, error)

	// ChangePassword replaces a user's password after verifying the old one
	ChangePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword string) error

	// GetUserContext retrieves user context from token claims
	GetUserContext(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
}

// authService implements AuthService
type authService struct {
	userRepo     repository.UserRepository
	jwtService   auth.JWTService
	auditService AuditService
}

// NewAuthService creates a new auth service instance
// #IMPLEMENTATION_DECISION: Constructor injection for testability
func NewAuthService(userRepo repository.UserRepository, jwtService auth.JWTService, auditService AuditService) AuthService {
	return &authService{
		userRepo:     userRepo,
		jwtService:   jwtService,
		auditService: auditService,
	}
}

// Login authenticates with employee ID and password
// #SECURITY_CONCERN: Unknown users and wrong passwords return the same error
// so callers cannot probe for valid employee IDs
func (s *authService) Login(ctx context.Context, employeeID, password string) (*auth.TokenPair, *models.User, error) {
	user, err := s.userRepo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		if models.IsNotFoundError(err) {
			return nil, nil, models.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive || user.IsDeleted() {
		return nil, nil, models.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, nil, models.ErrInvalidCredentials
	}

	// A failed last-login stamp must not fail the login itself
	if updateErr := s.userRepo.UpdateLastLogin(ctx, user.ID); updateErr != nil {
		log.Printf("Failed to update last login for %s: %v", user.EmployeeID, updateErr)
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(identityFor(user))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if s.auditService != nil {
		s.auditService.LogAsync(models.NewAuditLog(
			models.AuditActionLogin, models.ResourceTypeUser, user.ID, "",
		).SetActor(&user.ID, user.EmployeeID))
	}

	return tokenPair, user, nil
}

// RefreshAccessToken refreshes an access token
// #SECURITY_CONCERN: Refresh tokens should ideally be stored and tracked for rotation
func (s *authService) RefreshAccessToken(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	// Parse user ID
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	// Tokens outlive role changes, so the identity is rebuilt from the
	// current user document rather than the old claims
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		return nil, models.ErrUserNotFound
	}

	if !user.IsActive || user.IsDeleted() {
		return nil, models.ErrUserInactive
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(identityFor(user))
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return tokenPair, nil
}

// ChangePassword replaces a user's password after verifying the old one
func (s *authService) ChangePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.PasswordHash, oldPassword) {
		return models.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hash
	return s.userRepo.Update(ctx, user)
}

// GetUserContext retrieves full user context
func (s *authService) GetUserContext(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

// identityFor builds the JWT identity for a user
func identityFor(user *models.User) auth.Identity {
	return auth.Identity{
		UserID:     user.ID.Hex(),
		EmployeeID: user.EmployeeID,
		Role:       string(user.Role),
		Zone:       user.OrgUnit.Zone,
		Region:     user.OrgUnit.Region,
		City:       user.OrgUnit.City,
		Branch:     user.OrgUnit.Branch,
	}
}
