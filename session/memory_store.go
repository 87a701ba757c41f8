package session

import "github.com/junaidrashid-git/cartledger-api/models"

// MemoryStore is an in-process Store for local runs and tests.
type MemoryStore struct {
	carts map[string]models.Collection
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]models.Collection)}
}

func (s *MemoryStore) Get(key string) (models.Collection, error) {
	col, ok := s.carts[key]
	if !ok {
		return nil, nil
	}
	return cloneCollection(col), nil
}

func (s *MemoryStore) Put(key string, col models.Collection) error {
	s.carts[key] = cloneCollection(col)
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	delete(s.carts, key)
	return nil
}

// cloneCollection copies rows so callers never alias stored state.
func cloneCollection(col models.Collection) models.Collection {
	out := make(models.Collection, len(col))
	for id, row := range col {
		opts := make(map[string]string, len(row.Options))
		for k, v := range row.Options {
			opts[k] = v
		}
		row.Options = opts
		out[id] = row
	}
	return out
}
