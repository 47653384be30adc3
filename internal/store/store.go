// Package store is the gateway to the keyed document store that holds one
// record per game slug. Implementations exist for Firebase RTDB (what the
// frontend reads) and a local sqlite file (offline runs, the API server,
// tests).
package store

import (
	"context"

	"gamewatch/pkg/models"
)

// Store is the minimal contract the pipeline needs. Get returns (nil, nil)
// when the key has never been written. Set replaces the whole record;
// Update merges at the top level, overwriting only the fields present in
// the given record.
//
// No transactional guarantee ties a Get to the following Set/Update.
type Store interface {
	Get(ctx context.Context, key string) (*models.GameRecord, error)
	Set(ctx context.Context, key string, rec models.GameRecord) error
	Update(ctx context.Context, key string, rec models.GameRecord) error
}
