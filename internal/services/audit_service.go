// Package services provides business logic implementations.
package services

import (
	"context"
	"fmt"
	"log"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditService handles audit logging
// #INTEGRATION_POINT: Used by all services for traceability of mutations
type AuditService interface {
	// Log creates an audit log entry
	Log(ctx context.Context, entry *models.AuditLog) error

	// LogAsync logs asynchronously (non-blocking)
	LogAsync(entry *models.AuditLog)

	// ListByResource lists audit logs for a resource
	ListByResource(ctx context.Context, resourceType string, resourceID primitive.ObjectID, opts repository.PaginationOptions) (*repository.PaginatedResult[models.AuditLog], error)

	// ListByActor lists audit logs for an actor
	ListByActor(ctx context.Context, actorUserID primitive.ObjectID, opts repository.PaginationOptions) (*repository.PaginatedResult[models.AuditLog], error)

	// ListRecent lists audit logs across all resources, newest first
	ListRecent(ctx context.Context, opts repository.PaginationOptions) (*repository.PaginatedResult[models.AuditLog], error)
}

// auditService implements AuditService
type auditService struct {
	auditRepo repository.AuditRepository
	logChan   chan *models.AuditLog
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	svc := &auditService{
		auditRepo: auditRepo,
		logChan:   make(chan *models.AuditLog, 1000), // Buffer for async logging
	}

	// Start async worker
	go svc.asyncWorker()

	return svc
}

// asyncWorker processes audit entries asynchronously
func (s *auditService) asyncWorker() {
	for entry := range s.logChan {
		ctx := context.Background()
		if err := s.Log(ctx, entry); err != nil {
			log.Printf("Failed to log audit entry: %v", err)
		}
	}
}

// Log creates an audit log entry
func (s *auditService) Log(ctx context.Context, entry *models.AuditLog) error {
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// LogAsync logs asynchronously (non-blocking)
func (s *auditService) LogAsync(entry *models.AuditLog) {
	select {
	case s.logChan <- entry:
		// Successfully queued
	default:
		// Channel full, log synchronously as fallback
		log.Printf("Audit log channel full, logging synchronously")
		ctx := context.Background()
		if err := s.Log(ctx, entry); err != nil {
			log.Printf("Failed to log audit entry: %v", err)
		}
	}
}

// ListByResource lists audit logs for a resource
func (s *auditService) ListByResource(ctx context.Context, resourceType string, resourceID primitive.ObjectID, opts repository.PaginationOptions) (*repository.PaginatedResult[models.AuditLog], error) {
	return s.auditRepo.ListByResource(ctx, resourceType, resourceID, opts)
}

// ListByActor lists audit logs for an actor
func (s *auditService) ListByActor(ctx context.Context, actorUserID primitive.ObjectID, opts repository.PaginationOptions) (*repository.PaginatedResult[models.AuditLog], error) {
	return s.auditRepo.ListByActor(ctx, actorUserID, opts)
}

// ListRecent lists audit logs across all resources, newest first
func (s *auditService) ListRecent(ctx context.Context, opts repository.PaginationOptions) (*repository.PaginatedResult[models.AuditLog], error) {
	return s.auditRepo.ListRecent(ctx, opts)
}

// Ensure auditService implements AuditService
var _ AuditService = (*auditService)(nil)
