package service

import (
	"errors"

	"github.com/iliyamo/coursehub/internal/apperr"
	"github.com/iliyamo/coursehub/internal/repository"
)

// fromRepo translates a repository error into the apperr taxonomy.
// notFound is the message used when the row is missing; anything
// unrecognised becomes Unknown with the original error kept as cause.
func fromRepo(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperr.E(apperr.NotFound, notFound)
	case errors.Is(err, repository.ErrDuplicate):
		return apperr.E(apperr.Duplicate, "already exists")
	case errors.Is(err, repository.ErrConflict):
		return apperr.E(apperr.Conflict, "conflicting state")
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}
	return apperr.Wrap(err, apperr.Unknown, "storage failure")
}
