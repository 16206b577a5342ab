// Package savegame provides the save-slot backends used by the store: a
// directory of JSON files and a SQLite database.
package savegame

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/lox/publishorperish/internal/store"
)

// ErrNotFound is returned by Load for an empty slot.
var ErrNotFound = errors.New("save slot not found")

// ErrInvalidSlot is returned for slot names that are not safe file names.
// It is reported together with store.ErrPermanent.
var ErrInvalidSlot = errors.New("invalid slot name")

var slotPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

func validateSlot(slot string) error {
	if !slotPattern.MatchString(slot) {
		return fmt.Errorf("%w: %q: %w", ErrInvalidSlot, slot, store.ErrPermanent)
	}
	return nil
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Backend is a save-slot store. It satisfies store.Persister.
type Backend interface {
	Save(ctx context.Context, slot string, data []byte) error
	Load(ctx context.Context, slot string) ([]byte, error)
	Slots(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, slot string) error
	Close() error
}

// Open opens a backend by name. For the file backend path is a directory,
// for SQLite a database file.
func Open(backend, path string) (Backend, error) {
	switch backend {
	case BackendFile:
		return NewFileStore(path)
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown save backend %q", backend)
	}
}
