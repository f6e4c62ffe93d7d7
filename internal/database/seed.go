package database

import (
	"context"
	"fmt"
	"log"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/auth"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeder handles database seeding operations
// #SEED_DATA: Bootstrap accounts covering every level of the hierarchy
type Seeder struct {
	db *mongo.Database
}

// NewSeeder creates a new database seeder
func NewSeeder(db *mongo.Database) *Seeder {
	return &Seeder{db: db}
}

// seedUser describes a bootstrap account before password hashing
type seedUser struct {
	EmployeeID string
	Name       string
	Role       models.UserRole
	Password   string
	OrgUnit    models.OrgUnit
}

// SeedAll runs all seed operations
func (s *Seeder) SeedAll(ctx context.Context) error {
	log.Println("Starting database seeding...")

	if err := s.SeedBootstrapUsers(ctx); err != nil {
		return fmt.Errorf("failed to seed bootstrap users: %w", err)
	}

	log.Println("Database seeding completed successfully")
	return nil
}

// SeedBootstrapUsers inserts one account per hierarchy level plus the
// protected super admin. Existing accounts are never overwritten so
// changed passwords survive restarts.
func (s *Seeder) SeedBootstrapUsers(ctx context.Context) error {
	collection := s.db.Collection(models.User{}.CollectionName())

	seeded := 0
	for _, su := range s.bootstrapUsers() {
		count, err := collection.CountDocuments(ctx, bson.M{"employee_id": su.EmployeeID})
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		hash, err := auth.HashPassword(su.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", su.EmployeeID, err)
		}

		user := &models.User{
			EmployeeID:   su.EmployeeID,
			Name:         su.Name,
			Role:         su.Role,
			OrgUnit:      su.OrgUnit,
			PasswordHash: hash,
		}
		user.BeforeCreate()

		// Upsert guards against a concurrent instance seeding the same account
		filter := bson.M{"employee_id": su.EmployeeID}
		update := bson.M{"$setOnInsert": user}
		_, err = collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if err != nil {
			return err
		}
		seeded++
	}

	if seeded == 0 {
		log.Println("Bootstrap users already exist, skipping seeding")
		return nil
	}

	log.Printf("Seeded %d bootstrap users", seeded)
	return nil
}

// bootstrapUsers returns the default account hierarchy
// #DATA_ASSUMPTION: Default passwords are placeholders for first login only
func (s *Seeder) bootstrapUsers() []seedUser {
	return []seedUser{
		{
			EmployeeID: "admin",
			Name:       "Administrator",
			Role:       models.UserRoleAdmin,
			Password:   "Admin@123",
		},
		{
			EmployeeID: "zone1",
			Name:       "Zone Supervisor East",
			Role:       models.UserRoleZone,
			Password:   "Zone@123",
			OrgUnit:    models.OrgUnit{Zone: "East"},
		},
		{
			EmployeeID: "region1",
			Name:       "Region Supervisor CCU",
			Role:       models.UserRoleRegion,
			Password:   "Region@123",
			OrgUnit:    models.OrgUnit{Zone: "East", Region: "CCU"},
		},
		{
			EmployeeID: "city1",
			Name:       "City Supervisor Kolkata",
			Role:       models.UserRoleCity,
			Password:   "City@123",
			OrgUnit:    models.OrgUnit{Zone: "East", Region: "CCU", City: "KOLKATA"},
		},
		{
			EmployeeID: "branch1",
			Name:       "Branch Supervisor MOULALI",
			Role:       models.UserRoleBranch,
			Password:   "Branch@123",
			OrgUnit:    models.OrgUnit{Zone: "East", Region: "CCU", City: "KOLKATA", Branch: "K01"},
		},
		{
			EmployeeID: "C32722",
			Name:       "Arup Mahatha",
			Role:       models.UserRoleAdmin,
			Password:   "#C32722@dtdc",
		},
	}
}

// ClearSeededData removes the bootstrap accounts (development use only)
func (s *Seeder) ClearSeededData(ctx context.Context) error {
	collection := s.db.Collection(models.User{}.CollectionName())

	ids := make([]string, 0, 6)
	for _, su := range s.bootstrapUsers() {
		ids = append(ids, su.EmployeeID)
	}

	result, err := collection.DeleteMany(ctx, bson.M{"employee_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}

	log.Printf("Removed %d bootstrap users", result.DeletedCount)
	return nil
}
