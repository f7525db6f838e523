package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/parallelme/parallelme/parallelme/logger"
	"go.mongodb.org/mongo-driver/mongo"
)

const DefaultQueryTimeout = 5 * time.Second

// BaseRepository provides common repository functionality
type BaseRepository struct {
	coll           *mongo.Collection
	entity         string
	defaultTimeout time.Duration
}

// NewBaseRepository creates a new base repository over one collection
func NewBaseRepository(coll *mongo.Collection, entity string) BaseRepository {
	return BaseRepository{
		coll:           coll,
		entity:         entity,
		defaultTimeout: DefaultQueryTimeout,
	}
}

// RepositoryError represents a repository-level error
type RepositoryError struct {
	Operation string
	Entity    string
	Err       error
}

func (re *RepositoryError) Error() string {
	return fmt.Sprintf("repository error during %s for %s: %v", re.Operation, re.Entity, re.Err)
}

func (re *RepositoryError) Unwrap() error {
	return re.Err
}

// NotFoundError represents an entity not found error
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (nfe *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %v not found", nfe.Entity, nfe.ID)
}

// ConflictError represents a data conflict error: a unique index violation
// or a conditional update whose precondition no longer holds.
type ConflictError struct {
	Entity string
	Field  string
	Value  interface{}
}

func (ce *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %v conflicts with existing data", ce.Entity, ce.Field, ce.Value)
}

// WithTimeout creates a context with the default timeout
func (br *BaseRepository) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, br.defaultTimeout)
}

// HandleError standardizes error handling across repositories
func (br *BaseRepository) HandleError(operation string, id interface{}, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &NotFoundError{Entity: br.entity, ID: id}
	}
	return &RepositoryError{
		Operation: operation,
		Entity:    br.entity,
		Err:       err,
	}
}

// observe logs a finished operation and normalizes its error.
func (br *BaseRepository) observe(operation string, id interface{}, start time.Time, err error) error {
	err = br.HandleError(operation, id, err)
	var nf *NotFoundError
	if errors.As(err, &nf) {
		logger.LogQuery(br.entity+"."+operation, time.Since(start), nil)
		return err
	}
	logger.LogQuery(br.entity+"."+operation, time.Since(start), err)
	return err
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict checks if an error is a ConflictError
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsRepositoryError checks if an error is a RepositoryError
func IsRepositoryError(err error) bool {
	var re *RepositoryError
	return errors.As(err, &re)
}
