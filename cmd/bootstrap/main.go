// Package main provides a CLI tool that seeds the bootstrap accounts and can
// create an additional user at any hierarchy level.
// Usage: go run cmd/bootstrap/main.go [-employee-id C123 -name "Jane" -role city ...]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/access"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/auth"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/database"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
)

func main() {
	// Define command line flags
	employeeID := flag.String("employee-id", "", "Employee ID for an extra user (omit to seed bootstrap accounts only)")
	name := flag.String("name", "", "Display name for the extra user")
	role := flag.String("role", "", "Role for the extra user (admin, zone, region, city, branch)")
	password := flag.String("password", "", "Password for the extra user")
	zone := flag.String("zone", "", "Zone ID")
	region := flag.String("region", "", "Region ID")
	city := flag.String("city", "", "City ID")
	branch := flag.String("branch", "", "Branch ID")
	skipSeed := flag.Bool("skip-seed", false, "Skip seeding the standard bootstrap accounts")
	envFile := flag.String("env", "", "Path to .env file (defaults to .env in current dir)")
	dryRun := flag.Bool("dry-run", false, "Print what would be created without writing to database")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Seeds the standard bootstrap accounts and optionally creates one extra user.\n\n")
		fmt.Fprintf(os.Stderr, "Configuration is loaded from .env file and/or environment variables.\n")
		fmt.Fprintf(os.Stderr, "Environment variables take precedence over .env file values.\n\n")
		fmt.Fprintf(os.Stderr, "Required config (via .env or environment):\n")
		fmt.Fprintf(os.Stderr, "  LOGIHEALTH_DATABASE_URI   MongoDB connection URI\n")
		fmt.Fprintf(os.Stderr, "  LOGIHEALTH_DATABASE_NAME  Database name (default: logihealth)\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -employee-id C555 -name \"Jane Roy\" -role city -password secret -zone East -region CCU -city KOLKATA\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -dry-run\n", os.Args[0])
	}

	flag.Parse()

	// Load .env file
	loadEnvFile(*envFile)

	// Validate extra-user flags as a group
	extraUser := *employeeID != ""
	if extraUser {
		if *name == "" || *role == "" || *password == "" {
			log.Fatal("Error: -name, -role and -password are required with -employee-id")
		}
	}

	// Load database configuration from environment
	dbURI := os.Getenv("LOGIHEALTH_DATABASE_URI")
	if dbURI == "" {
		log.Fatal("Error: LOGIHEALTH_DATABASE_URI environment variable is required")
	}
	dbName := os.Getenv("LOGIHEALTH_DATABASE_NAME")
	if dbName == "" {
		dbName = "logihealth"
	}

	var user *models.User
	if extraUser {
		userRole := models.UserRole(strings.ToUpper(*role))
		unit, err := access.NormalizeOrgUnit(userRole, models.OrgUnit{
			Zone:   *zone,
			Region: *region,
			City:   *city,
			Branch: *branch,
		})
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		hash, err := auth.HashPassword(*password)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}

		user = &models.User{
			EmployeeID:   *employeeID,
			Name:         *name,
			Role:         userRole,
			OrgUnit:      unit,
			PasswordHash: hash,
		}
		user.BeforeCreate()

		fmt.Println("=== Extra User ===")
		fmt.Printf("  ID:          %s\n", user.ID.Hex())
		fmt.Printf("  Employee ID: %s\n", user.EmployeeID)
		fmt.Printf("  Name:        %s\n", user.Name)
		fmt.Printf("  Role:        %s\n", user.Role)
		fmt.Printf("  Org Unit:    %+v\n", user.OrgUnit)
		fmt.Println()
	}

	if *dryRun {
		if !*skipSeed {
			fmt.Println("[DRY RUN] Would seed the standard bootstrap accounts")
		}
		fmt.Println("[DRY RUN] No changes made to database")
		return
	}

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(dbURI)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if disconnectErr := client.Disconnect(ctx); disconnectErr != nil {
			log.Printf("Error disconnecting from MongoDB: %v", disconnectErr)
		}
	}()

	// Ping database
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	db := client.Database(dbName)

	if !*skipSeed {
		if err := database.NewSeeder(db).SeedAll(ctx); err != nil {
			log.Fatalf("Failed to seed bootstrap accounts: %v", err)
		}
		fmt.Println("✓ Seeded bootstrap accounts")
	}

	if user != nil {
		userCollection := db.Collection(models.User{}.CollectionName())

		// Refuse to clobber an existing account
		var existing models.User
		err = userCollection.FindOne(ctx, bson.M{"employee_id": user.EmployeeID, "deleted_at": nil}).Decode(&existing)
		if err == nil {
			log.Fatalf("Error: user with employee ID '%s' already exists (ID: %s)", user.EmployeeID, existing.ID.Hex())
		} else if err != mongo.ErrNoDocuments {
			log.Fatalf("Error checking existing user: %v", err)
		}

		if _, err := userCollection.InsertOne(ctx, user); err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}
		fmt.Printf("✓ Created user: %s (%s)\n", user.EmployeeID, user.ID.Hex())
	}

	fmt.Println()
	fmt.Println("Bootstrap complete!")
}

// loadEnvFile loads environment variables from a .env file
func loadEnvFile(path string) {
	if path == "" {
		cwd, _ := os.Getwd()
		if _, err := os.Stat(filepath.Join(cwd, ".env")); err == nil {
			path = ".env"
		}
	}

	if path != "" {
		if err := godotenv.Load(path); err != nil {
			log.Printf("Error loading .env file: %v", err)
		}
	}
}
