// Package mocks holds hand-written in-memory doubles of the persistence
// collaborators. They record every call so tests can assert write sequences,
// and expose injectable callbacks to simulate failures mid-transaction.
package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/catalog-service/internal/domain/catalog"
)

// MockCategoryRepository is an in-memory CategoryRepository. Reads hand out
// copies so in-place entity mutation never leaks into stored state before a
// Save.
type MockCategoryRepository struct {
	mu         sync.Mutex
	seq        int
	categories map[string]*catalog.Category
	order      []string

	// Recorded calls.
	SaveCalls   []catalog.Category
	DeleteCalls []string

	// SaveCallback, when set, runs before each Save and can fail it.
	SaveCallback func(c *catalog.Category) error
	// ItemReloadFails makes FindItemByID return nothing, simulating a
	// broken read path after a write.
	ItemReloadFails bool
	// TreeReloadFails does the same for FindTreeByID.
	TreeReloadFails bool
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{categories: make(map[string]*catalog.Category)}
}

func cloneCategory(c *catalog.Category) *catalog.Category {
	cp := *c
	return &cp
}

// Seed stores a category directly, without recording a call.
func (m *MockCategoryRepository) Seed(c *catalog.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[c.ID]; !ok {
		m.order = append(m.order, c.ID)
	}
	m.categories[c.ID] = cloneCategory(c)
}

// Stored returns the current stored state of a category, or nil.
func (m *MockCategoryRepository) Stored(id string) *catalog.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil
	}
	return cloneCategory(c)
}

func (m *MockCategoryRepository) NextIdentity() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return fmt.Sprintf("cat-%d", m.seq)
}

func (m *MockCategoryRepository) FindByID(_ context.Context, id string) (*catalog.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, nil
	}
	return cloneCategory(c), nil
}

func (m *MockCategoryRepository) FindItemByID(_ context.Context, id string) (*catalog.CategoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ItemReloadFails {
		return nil, nil
	}
	return catalog.AssembleItem(m.allLocked(), id), nil
}

func (m *MockCategoryRepository) FindTreeByID(_ context.Context, id string) (*catalog.CategoryTree, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TreeReloadFails {
		return nil, nil
	}
	return catalog.AssembleTree(m.allLocked(), id), nil
}

func (m *MockCategoryRepository) FindChildren(_ context.Context, id string) ([]*catalog.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var children []*catalog.Category
	for _, cid := range m.order {
		if c := m.categories[cid]; c != nil && c.ParentID == id {
			children = append(children, cloneCategory(c))
		}
	}
	return children, nil
}

func (m *MockCategoryRepository) Save(_ context.Context, c *catalog.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveCallback != nil {
		if err := m.SaveCallback(c); err != nil {
			return err
		}
	}
	m.SaveCalls = append(m.SaveCalls, *c)
	if _, ok := m.categories[c.ID]; !ok {
		m.order = append(m.order, c.ID)
	}
	m.categories[c.ID] = cloneCategory(c)
	return nil
}

func (m *MockCategoryRepository) Delete(_ context.Context, c *catalog.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, c.ID)
	delete(m.categories, c.ID)
	for i, id := range m.order {
		if id == c.ID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// All returns every stored category in insertion order.
func (m *MockCategoryRepository) All() []*catalog.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allLocked()
}

func (m *MockCategoryRepository) allLocked() []*catalog.Category {
	nodes := make([]*catalog.Category, 0, len(m.order))
	for _, id := range m.order {
		if c, ok := m.categories[id]; ok {
			nodes = append(nodes, cloneCategory(c))
		}
	}
	return nodes
}
