package catalog

// Read models. These are pure projections over loaded category nodes and are
// never persisted. Tree assembly works on an explicit id -> node mapping
// instead of recursive store queries, so it can be unit tested and reused by
// any repository implementation.

// CategoryItem pairs a category with its resolved parent and direct children.
type CategoryItem struct {
	Category *Category   `json:"category"`
	Parent   *Category   `json:"parent,omitempty"`
	Children []*Category `json:"children"`
}

// CategoryTree pairs a category with its ancestor chain, immediate parent
// first and root last.
type CategoryTree struct {
	Category  *Category   `json:"category"`
	Ancestors []*Category `json:"ancestors"`
}

// ProductView pairs a product with the tree of its owning category.
type ProductView struct {
	Product *Product      `json:"product"`
	Tree    *CategoryTree `json:"category_tree"`
}

// Node is a category with nested children, used for full-tree listings.
type Node struct {
	*Category
	Children []*Node `json:"children"`
}

// indexByID builds the id lookup used by all assembly functions.
func indexByID(nodes []*Category) map[string]*Category {
	byID := make(map[string]*Category, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	return byID
}

// AssembleItem builds the CategoryItem for id out of a flat node set that
// must contain the category itself, its parent (if any), and its children.
// Returns nil when id is not present in the set.
func AssembleItem(nodes []*Category, id string) *CategoryItem {
	byID := indexByID(nodes)
	c, ok := byID[id]
	if !ok {
		return nil
	}

	item := &CategoryItem{Category: c, Children: []*Category{}}
	if c.ParentID != "" {
		item.Parent = byID[c.ParentID]
	}
	for _, n := range nodes {
		if n.ParentID == id {
			item.Children = append(item.Children, n)
		}
	}
	return item
}

// AssembleTree builds the CategoryTree for id out of a flat node set that
// must contain the category and its ancestors. Returns nil when id is not
// present. A broken or cyclic parent chain terminates the walk instead of
// looping.
func AssembleTree(nodes []*Category, id string) *CategoryTree {
	byID := indexByID(nodes)
	c, ok := byID[id]
	if !ok {
		return nil
	}

	tree := &CategoryTree{Category: c, Ancestors: []*Category{}}
	seen := map[string]bool{c.ID: true}
	for cur := c; cur.ParentID != ""; {
		parent, ok := byID[cur.ParentID]
		if !ok || seen[parent.ID] {
			break
		}
		seen[parent.ID] = true
		tree.Ancestors = append(tree.Ancestors, parent)
		cur = parent
	}
	return tree
}

// AssembleForest nests a flat node set into root-first trees. Nodes whose
// parent is missing from the set are treated as roots so a partial load
// still renders.
func AssembleForest(nodes []*Category) []*Node {
	byID := make(map[string]*Node, len(nodes))
	for _, c := range nodes {
		byID[c.ID] = &Node{Category: c, Children: []*Node{}}
	}

	var roots []*Node
	for _, c := range nodes {
		n := byID[c.ID]
		if parent, ok := byID[c.ParentID]; ok && c.ParentID != "" {
			parent.Children = append(parent.Children, n)
		} else {
			roots = append(roots, n)
		}
	}
	return roots
}
