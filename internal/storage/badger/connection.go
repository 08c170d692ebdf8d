// -----------------------------------------------------------------------
// Last Modified: Monday, 1st September 2025
// -----------------------------------------------------------------------

package badger

import (
	"fmt"
	"os"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"
	"github.com/twokomi/oneclick-reports-backend/internal/common"
)

// DB wraps the badgerhold store used by the report store.
type DB struct {
	store  *badgerhold.Store
	logger arbor.ILogger
}

// NewDB opens (creating if necessary) the badger database at the configured
// path. InMemory mode keeps everything off disk, which the tests use.
func NewDB(logger arbor.ILogger, config *common.BadgerConfig) (*DB, error) {
	options := badgerhold.DefaultOptions
	options.Logger = nil

	if config.InMemory {
		options.InMemory = true
	} else {
		if err := os.MkdirAll(config.Path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		options.Dir = config.Path
		options.ValueDir = config.Path
	}

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Info().Str("path", config.Path).Bool("in_memory", config.InMemory).Msg("Badger database opened")

	return &DB{store: store, logger: logger}, nil
}

// Store exposes the underlying badgerhold store.
func (d *DB) Store() *badgerhold.Store {
	return d.store
}

// Close closes the database.
func (d *DB) Close() error {
	return d.store.Close()
}
