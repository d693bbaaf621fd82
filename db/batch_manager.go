package db

import (
	"fmt"

	"chainstd/logx"
)

// WithBatch executes fn within a batch context on the provider. If fn returns
// nil the batch is committed, otherwise it is discarded and nothing reaches
// the database.
func WithBatch(provider DatabaseProvider, fn func(batch DatabaseBatch) error) error {
	batch := provider.Batch()
	defer func() {
		if err := batch.Close(); err != nil {
			logx.Error("DB", "Failed to close batch:", err)
		}
	}()

	if err := fn(batch); err != nil {
		batch.Reset()
		return fmt.Errorf("batch aborted: %w", err)
	}

	if err := batch.Write(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}

	return nil
}
