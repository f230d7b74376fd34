package repository

import (
	"database/sql"
	"errors"
	"strings"

	"rainpath-cases/internal/domain"

	"github.com/lib/pq"
)

const duplicateIdentifierMessage = "A case with the same identifier already exists."

// errorContext messages used when a store failure maps onto the taxonomy.
type errorContext struct {
	uniqueMessage   string
	notFoundMessage string
}

// translateStoreError maps driver failures onto domain errors. This is the only place
// where driver error codes are inspected.
func translateStoreError(op string, err error, ectx errorContext) error {
	if err == nil {
		return nil
	}

	var (
		conflict   *domain.ConflictError
		notFound   *domain.NotFoundError
		validation *domain.ValidationError
		unexpected *domain.UnexpectedError
	)
	if errors.As(err, &conflict) || errors.As(err, &notFound) || errors.As(err, &validation) || errors.As(err, &unexpected) {
		return err
	}

	switch {
	case isUniqueViolation(err):
		return &domain.ConflictError{Message: ectx.uniqueMessage}
	case errors.Is(err, sql.ErrNoRows):
		return &domain.NotFoundError{Message: ectx.notFoundMessage}
	}
	return &domain.UnexpectedError{Op: op, Cause: err}
}

// isUniqueViolation recognises Postgres 23505 and SQLite UNIQUE constraint failures.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
