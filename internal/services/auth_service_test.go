package services

import (
	"context"
	"testing"
	"time"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/auth"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
)

// stubJWTService issues fixed tokens for service tests
type stubJWTService struct{}

func (stubJWTService) GenerateAccessToken(identity auth.Identity) (string, time.Time, error) {
	return "access-" + identity.EmployeeID, time.Now().Add(time.Hour), nil
}

func (stubJWTService) GenerateRefreshToken(userID string) (string, error) {
	return "refresh-" + userID, nil
}

func (s stubJWTService) GenerateTokenPair(identity auth.Identity) (*auth.TokenPair, error) {
	access, expiresAt, _ := s.GenerateAccessToken(identity)
	refresh, _ := s.GenerateRefreshToken(identity.UserID)
	return &auth.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		ExpiresIn:    3600,
	}, nil
}

func (stubJWTService) ValidateAccessToken(tokenString string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}

func (stubJWTService) ValidateRefreshToken(tokenString string) (*auth.RefreshClaims, error) {
	return nil, auth.ErrInvalidToken
}

func loginTestUser(t *testing.T, employeeID, password string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	u := testUser(employeeID, models.UserRoleBranch, models.OrgUnit{
		Zone: "East", Region: "CCU", City: "KOLKATA", Branch: "K01",
	})
	u.PasswordHash = hash
	return u
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()
	user := loginTestUser(t, "E2001", "orange-crate-7")
	svc := NewAuthService(newFakeUserRepo(user), stubJWTService{}, noopAuditService{})

	pair, got, err := svc.Login(ctx, "E2001", "orange-crate-7")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if pair == nil || pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("Login() returned incomplete token pair: %+v", pair)
	}
	if got.EmployeeID != "E2001" {
		t.Errorf("Login() user = %s, want E2001", got.EmployeeID)
	}
}

func TestAuthServiceLoginRejections(t *testing.T) {
	ctx := context.Background()

	inactive := loginTestUser(t, "E2003", "dusty-pallet-3")
	inactive.IsActive = false

	tests := []struct {
		name       string
		employeeID string
		password   string
	}{
		{"wrong password", "E2002", "not-the-password"},
		{"unknown employee", "E9999", "anything"},
		{"inactive account", "E2003", "dusty-pallet-3"},
	}

	repo := newFakeUserRepo(loginTestUser(t, "E2002", "blue-lorry-9"), inactive)
	svc := NewAuthService(repo, stubJWTService{}, noopAuditService{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(ctx, tt.employeeID, tt.password)
			if err != models.ErrInvalidCredentials {
				t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestAuthServiceChangePassword(t *testing.T) {
	ctx := context.Background()
	user := loginTestUser(t, "E2004", "old-depot-1")
	repo := newFakeUserRepo(user)
	svc := NewAuthService(repo, stubJWTService{}, noopAuditService{})

	if err := svc.ChangePassword(ctx, user.ID, "wrong-old", "new-depot-2"); err != models.ErrInvalidCredentials {
		t.Fatalf("ChangePassword() with wrong old password error = %v, want ErrInvalidCredentials", err)
	}

	if err := svc.ChangePassword(ctx, user.ID, "old-depot-1", "new-depot-2"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	updated, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !auth.CheckPassword(updated.PasswordHash, "new-depot-2") {
		t.Error("new password does not verify after change")
	}
	if auth.CheckPassword(updated.PasswordHash, "old-depot-1") {
		t.Error("old password still verifies after change")
	}
}
