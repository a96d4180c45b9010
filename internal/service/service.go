// Package service orchestrates authorization, validation and storage for
// each resource type. Handlers stay thin; every rule lives here.
package service

import (
	"errors"
	"log/slog"
	"strings"

	"taskhub/internal/apperr"
	"taskhub/internal/storage/sqlite"
)

// Services bundles the per-resource services over one store.
type Services struct {
	Users      *UserService
	Projects   *ProjectService
	Tasks      *TaskService
	Tags       *TagService
	Categories *CategoryService
}

// New wires all resource services to the given store.
func New(store *sqlite.Store, logger *slog.Logger) *Services {
	if logger == nil {
		logger = slog.Default()
	}
	return &Services{
		Users:      &UserService{store: store, logger: logger},
		Projects:   &ProjectService{store: store, logger: logger},
		Tasks:      &TaskService{store: store, logger: logger},
		Tags:       &TagService{store: store, logger: logger},
		Categories: &CategoryService{store: store, logger: logger},
	}
}

// storeErr translates store sentinels into the service taxonomy.
func storeErr(entity string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sqlite.ErrNotFound):
		return apperr.NotFoundf("%s not found", entity)
	case errors.Is(err, sqlite.ErrDuplicate):
		return apperr.Conflictf("%s already exists", entity)
	default:
		return apperr.Internal(err)
	}
}

// requireFields reports all missing required fields in one validation
// error. Arguments alternate field name and value.
func requireFields(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return apperr.Validationf("missing required field(s): %s", strings.Join(missing, ", "))
}

func invalidEnum(field string, value any) error {
	return apperr.Validationf("invalid %s: %v", field, value)
}
