package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNodes() []*Category {
	return []*Category{
		{ID: "root", Title: "Root", Level: 0},
		{ID: "mid", Title: "Mid", ParentID: "root", Level: 1},
		{ID: "leaf-1", Title: "Leaf 1", ParentID: "mid", Level: 2},
		{ID: "leaf-2", Title: "Leaf 2", ParentID: "mid", Level: 2},
		{ID: "other-root", Title: "Other", Level: 0},
	}
}

func TestAssembleItem(t *testing.T) {
	item := AssembleItem(testNodes(), "mid")

	require.NotNil(t, item)
	assert.Equal(t, "mid", item.Category.ID)
	require.NotNil(t, item.Parent)
	assert.Equal(t, "root", item.Parent.ID)
	require.Len(t, item.Children, 2)
	assert.Equal(t, "leaf-1", item.Children[0].ID)
	assert.Equal(t, "leaf-2", item.Children[1].ID)
}

func TestAssembleItem_Root(t *testing.T) {
	item := AssembleItem(testNodes(), "root")

	require.NotNil(t, item)
	assert.Nil(t, item.Parent)
	require.Len(t, item.Children, 1)
	assert.Equal(t, "mid", item.Children[0].ID)
}

func TestAssembleItem_Missing(t *testing.T) {
	assert.Nil(t, AssembleItem(testNodes(), "nope"))
}

func TestAssembleTree(t *testing.T) {
	tree := AssembleTree(testNodes(), "leaf-1")

	require.NotNil(t, tree)
	assert.Equal(t, "leaf-1", tree.Category.ID)
	// Immediate parent first, root last.
	require.Len(t, tree.Ancestors, 2)
	assert.Equal(t, "mid", tree.Ancestors[0].ID)
	assert.Equal(t, "root", tree.Ancestors[1].ID)
}

func TestAssembleTree_RootHasNoAncestors(t *testing.T) {
	tree := AssembleTree(testNodes(), "root")

	require.NotNil(t, tree)
	assert.Empty(t, tree.Ancestors)
}

func TestAssembleTree_CycleTerminates(t *testing.T) {
	nodes := []*Category{
		{ID: "a", ParentID: "b"},
		{ID: "b", ParentID: "a"},
	}

	tree := AssembleTree(nodes, "a")

	require.NotNil(t, tree)
	assert.Len(t, tree.Ancestors, 1)
}

func TestAssembleForest(t *testing.T) {
	roots := AssembleForest(testNodes())

	require.Len(t, roots, 2)
	assert.Equal(t, "root", roots[0].ID)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "mid", roots[0].Children[0].ID)
	assert.Len(t, roots[0].Children[0].Children, 2)
	assert.Empty(t, roots[1].Children)
}

func TestAssembleForest_OrphanBecomesRoot(t *testing.T) {
	nodes := []*Category{
		{ID: "orphan", ParentID: "missing"},
	}

	roots := AssembleForest(nodes)

	require.Len(t, roots, 1)
	assert.Equal(t, "orphan", roots[0].ID)
}
