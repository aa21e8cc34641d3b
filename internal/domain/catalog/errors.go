package catalog

import "errors"

var (
	ErrCategoryNotFound       = errors.New("category not found")
	ErrParentCategoryNotFound = errors.New("parent category not found")
	ErrProductNotFound        = errors.New("product not found")

	ErrSelfParent       = errors.New("category cannot be its own parent")
	ErrCycleParent      = errors.New("category cannot be moved under its own descendant")
	ErrCategoryNotEmpty = errors.New("category still has products or child categories")
	ErrInvalidImage     = errors.New("invalid image file")

	ErrInvalidTitle        = errors.New("title must be between 2 and 100 characters")
	ErrInvalidDescription  = errors.New("description must be between 2 and 1000 characters")
	ErrInvalidPrice        = errors.New("price must be positive")
	ErrMissingCategory     = errors.New("product requires a category")
	ErrProductCountInvalid = errors.New("product count cannot become negative")
)
