package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/nketchum/sidebet/internal/domain/mapping"
)

type MappingRepository struct {
	mu       sync.RWMutex
	mappings map[string]mapping.Mapping
}

func NewMappingRepository(mappings []mapping.Mapping) *MappingRepository {
	byID := make(map[string]mapping.Mapping, len(mappings))
	for _, item := range mappings {
		byID[item.InternalID] = item
	}

	return &MappingRepository{mappings: byID}
}

func (r *MappingRepository) Get(_ context.Context, gameID string) (mapping.Mapping, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.mappings[gameID]
	return item, ok, nil
}

func (r *MappingRepository) Put(_ context.Context, item mapping.Mapping) error {
	if item.InternalID == "" {
		return fmt.Errorf("mapping game id is required")
	}

	r.mu.Lock()
	r.mappings[item.InternalID] = item
	r.mu.Unlock()
	return nil
}
