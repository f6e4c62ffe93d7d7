// Package repository provides data access layer implementations.
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
)

// AuditRepository defines operations for the audit trail
// #IMPLEMENTATION_DECISION: Audit logs are append-only, no update/delete operations
type AuditRepository interface {
	// Create appends a new audit entry
	Create(ctx context.Context, entry *models.AuditLog) error

	// ListByResource lists audit entries for a specific resource
	ListByResource(ctx context.Context, resourceType string, resourceID primitive.ObjectID, opts PaginationOptions) (*PaginatedResult[models.AuditLog], error)

	// ListByActor lists audit entries recorded for an actor
	ListByActor(ctx context.Context, actorUserID primitive.ObjectID, opts PaginationOptions) (*PaginatedResult[models.AuditLog], error)

	// ListRecent lists audit entries across all resources, newest first
	ListRecent(ctx context.Context, opts PaginationOptions) (*PaginatedResult[models.AuditLog], error)
}

// MongoAuditRepository implements AuditRepository for MongoDB
type MongoAuditRepository struct {
	entries *mongo.Collection
}

// NewMongoAuditRepository creates a new MongoDB audit repository
func NewMongoAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{
		entries: db.Collection(models.AuditLog{}.CollectionName()),
	}
}

// Create appends a new audit entry
func (r *MongoAuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	entry.BeforeCreate()
	_, err := r.entries.InsertOne(ctx, entry)
	return err
}

// ListByResource lists audit entries for a specific resource
func (r *MongoAuditRepository) ListByResource(ctx context.Context, resourceType string, resourceID primitive.ObjectID, opts PaginationOptions) (*PaginatedResult[models.AuditLog], error) {
	return r.list(ctx, bson.M{
		"resource_type": resourceType,
		"resource_id":   resourceID,
	}, opts)
}

// ListByActor lists audit entries recorded for an actor
func (r *MongoAuditRepository) ListByActor(ctx context.Context, actorUserID primitive.ObjectID, opts PaginationOptions) (*PaginatedResult[models.AuditLog], error) {
	return r.list(ctx, bson.M{"actor_user_id": actorUserID}, opts)
}

// ListRecent lists audit entries across all resources, newest first
func (r *MongoAuditRepository) ListRecent(ctx context.Context, opts PaginationOptions) (*PaginatedResult[models.AuditLog], error) {
	return r.list(ctx, bson.M{}, opts)
}

// list runs a paginated query over the audit collection. The trail is read
// newest-first unless the caller asked for a different sort.
func (r *MongoAuditRepository) list(ctx context.Context, filter bson.M, opts PaginationOptions) (*PaginatedResult[models.AuditLog], error) {
	total, err := r.entries.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	sortDir := opts.SortDir
	if sortDir == 0 {
		sortDir = -1
	}

	skip := int64((opts.Page - 1) * opts.Limit)
	findOpts := options.Find().
		SetSkip(skip).
		SetLimit(int64(opts.Limit)).
		SetSort(bson.D{{Key: sortBy, Value: sortDir}})

	cursor, err := r.entries.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []models.AuditLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}

	totalPages := int(total) / opts.Limit
	if int(total)%opts.Limit > 0 {
		totalPages++
	}

	return &PaginatedResult[models.AuditLog]{
		Items:      logs,
		TotalCount: total,
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalPages: totalPages,
	}, nil
}

// Ensure MongoAuditRepository implements AuditRepository
var _ AuditRepository = (*MongoAuditRepository)(nil)
