package catalog

import "context"

// CategoryRepository is the persistence collaborator for categories.
// Lookups return (nil, nil) when nothing matches; errors are reserved for
// infrastructure failures.
type CategoryRepository interface {
	NextIdentity() string
	FindByID(ctx context.Context, id string) (*Category, error)
	FindItemByID(ctx context.Context, id string) (*CategoryItem, error)
	FindTreeByID(ctx context.Context, id string) (*CategoryTree, error)
	FindChildren(ctx context.Context, id string) ([]*Category, error)
	Save(ctx context.Context, c *Category) error
	Delete(ctx context.Context, c *Category) error
}

// ProductRepository is the persistence collaborator for products.
// UpdateImage stores the file and associates it with the product in one
// step, returning (nil, nil) when the product does not exist.
type ProductRepository interface {
	NextIdentity() string
	FindByID(ctx context.Context, id string) (*Product, error)
	Save(ctx context.Context, p *Product) error
	Delete(ctx context.Context, p *Product) error
	UpdateImage(ctx context.Context, id string, file ImageFile) (*Product, error)
}

// ImageFile is an uploaded image. Valid is the precondition gate the image
// handler checks before any persistence happens.
type ImageFile interface {
	Valid() bool
	Filename() string
	Bytes() []byte
}

// Transactor executes fn atomically: either every write made through the
// repositories inside fn commits, or none survive. The error from fn is
// rethrown after rollback.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
