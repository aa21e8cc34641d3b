package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/catalog-service/internal/domain/catalog"
)

// MockProductRepository is an in-memory ProductRepository with recorded
// calls, mirroring MockCategoryRepository.
type MockProductRepository struct {
	mu       sync.Mutex
	seq      int
	products map[string]*catalog.Product

	SaveCalls        []catalog.Product
	DeleteCalls      []string
	UpdateImageCalls []string

	// SaveCallback, when set, runs before each Save and can fail it.
	SaveCallback func(p *catalog.Product) error
	// UpdateImageErr fails UpdateImage outright when set.
	UpdateImageErr error
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{products: make(map[string]*catalog.Product)}
}

func cloneProduct(p *catalog.Product) *catalog.Product {
	cp := *p
	if p.Image != nil {
		img := *p.Image
		cp.Image = &img
	}
	return &cp
}

// Seed stores a product directly, without recording a call.
func (m *MockProductRepository) Seed(p *catalog.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = cloneProduct(p)
}

// Stored returns the current stored state of a product, or nil.
func (m *MockProductRepository) Stored(id string) *catalog.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil
	}
	return cloneProduct(p)
}

func (m *MockProductRepository) NextIdentity() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return fmt.Sprintf("prod-%d", m.seq)
}

func (m *MockProductRepository) FindByID(_ context.Context, id string) (*catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(p), nil
}

func (m *MockProductRepository) Save(_ context.Context, p *catalog.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveCallback != nil {
		if err := m.SaveCallback(p); err != nil {
			return err
		}
	}
	m.SaveCalls = append(m.SaveCalls, *p)
	m.products[p.ID] = cloneProduct(p)
	return nil
}

func (m *MockProductRepository) Delete(_ context.Context, p *catalog.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, p.ID)
	delete(m.products, p.ID)
	return nil
}

func (m *MockProductRepository) UpdateImage(_ context.Context, id string, file catalog.ImageFile) (*catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateImageCalls = append(m.UpdateImageCalls, id)
	if m.UpdateImageErr != nil {
		return nil, m.UpdateImageErr
	}
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	p.SetImage(file.Filename(), p.UpdatedAt)
	return cloneProduct(p), nil
}
