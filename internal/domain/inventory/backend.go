package inventory

import (
	"context"
	"errors"

	"github.com/disgoorg/snowflake/v2"
)

var (
	ErrModuleNotFound    = errors.New("module does not exist")
	ErrModuleExists      = errors.New("module already exists")
	ErrInvalidModuleName = errors.New("invalid module name")
	ErrInvalidItem       = errors.New("items must not contain line breaks")
)

// Backend is the durable key-value text store behind a Store. Each
// (scope, module) pair maps to an ordered list of item literals.
//
// Implementations do not need to be safe for concurrent read-modify-write;
// the Store serialises every mutation.
type Backend interface {
	List(ctx context.Context, scope snowflake.ID) ([]string, error)
	Read(ctx context.Context, scope snowflake.ID, module string) ([]string, error)
	Write(ctx context.Context, scope snowflake.ID, module string, items []string) error
	Exists(ctx context.Context, scope snowflake.ID, module string) (bool, error)
	Create(ctx context.Context, scope snowflake.ID, module string) error
	Delete(ctx context.Context, scope snowflake.ID, module string) error
}
