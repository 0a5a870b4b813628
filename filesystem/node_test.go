package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camresh/emfs"
)

// Test helper to build a small populated directory
func createTestDir(t *testing.T, name string, files map[string][]byte) *Node {
	t.Helper()
	dir := NewDirNode(name)
	for fname, content := range files {
		file := NewFileNode(fname)
		file.content = append([]byte(nil), content...)
		dir.AddChild(file)
	}
	return dir
}

func TestNewFileNode(t *testing.T) {
	t.Parallel()

	node := NewFileNode("test.txt")

	assert.Equal(t, "test.txt", node.Name())
	assert.Equal(t, emfs.FileNode, node.Kind())
	assert.False(t, node.IsDir())
	assert.Zero(t, node.Size())
}

func TestNewDirNode(t *testing.T) {
	t.Parallel()

	node := NewDirNode("docs")

	assert.Equal(t, "docs", node.Name())
	assert.Equal(t, emfs.DirNode, node.Kind())
	assert.True(t, node.IsDir())
	assert.Zero(t, node.NumChildren())
}

func TestNode_AddChild(t *testing.T) {
	t.Parallel()

	parent := NewDirNode("parent")
	child := NewFileNode("child.txt")

	parent.AddChild(child)

	// Verify child was added
	retrieved, exists := parent.GetChild("child.txt")
	require.True(t, exists)
	assert.Equal(t, child, retrieved)

	// Verify parent back-reference was set
	assert.Equal(t, parent, child.parent)
}

func TestNode_GetChild(t *testing.T) {
	t.Parallel()

	parent := NewDirNode("parent")
	child := NewFileNode("child.txt")
	parent.AddChild(child)

	// Existing child
	retrieved, exists := parent.GetChild("child.txt")
	assert.True(t, exists)
	assert.Equal(t, child, retrieved)

	// Non-existing child
	missing, exists := parent.GetChild("nonexistent.txt")
	assert.False(t, exists)
	assert.Nil(t, missing)

	// Files have no children
	none, exists := child.GetChild("anything")
	assert.False(t, exists)
	assert.Nil(t, none)
}

func TestNode_RemoveChild(t *testing.T) {
	t.Parallel()

	parent := NewDirNode("parent")
	child := NewFileNode("child.txt")
	parent.AddChild(child)

	detached := parent.RemoveChild("child.txt")
	require.NotNil(t, detached)
	assert.Equal(t, child, detached)

	// Verify child no longer present and back-reference cleared
	_, exists := parent.GetChild("child.txt")
	assert.False(t, exists)
	assert.Nil(t, child.parent)

	// Removing a non-existent child is a nil no-op
	assert.Nil(t, parent.RemoveChild("nonexistent.txt"))
}

func TestNode_Size(t *testing.T) {
	t.Parallel()

	t.Run("FileSize", func(t *testing.T) {
		t.Parallel()

		file := NewFileNode("data.bin")
		file.content = []byte{0xDE, 0xAD, 0xBE, 0xEF}

		assert.Equal(t, 4, file.Size())
	})

	t.Run("DirectorySumsRecursively", func(t *testing.T) {
		t.Parallel()

		root := NewDirNode("")
		docs := createTestDir(t, "docs", map[string][]byte{
			"a.txt": make([]byte, 10),
			"b.txt": make([]byte, 20),
		})
		root.AddChild(docs)
		nested := createTestDir(t, "nested", map[string][]byte{
			"c.txt": make([]byte, 5),
		})
		docs.AddChild(nested)

		assert.Equal(t, 35, root.Size())
		assert.Equal(t, 35, docs.Size())
		assert.Equal(t, 5, nested.Size())
	})

	t.Run("EmptyDirectory", func(t *testing.T) {
		t.Parallel()

		assert.Zero(t, NewDirNode("empty").Size())
	})
}

func TestNode_Path(t *testing.T) {
	t.Parallel()

	root := NewDirNode("")
	home := NewDirNode("home")
	root.AddChild(home)
	file := NewFileNode("notes.txt")
	home.AddChild(file)

	assert.Equal(t, "/", root.Path())
	assert.Equal(t, "/home", home.Path())
	assert.Equal(t, "/home/notes.txt", file.Path())
}

func TestNode_ChildNames(t *testing.T) {
	t.Parallel()

	dir := NewDirNode("dir")
	for _, name := range []string{"zeta", "alpha", "mid"} {
		dir.AddChild(NewFileNode(name))
	}

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, dir.ChildNames())
}

func TestNode_Clone(t *testing.T) {
	t.Parallel()

	src := NewDirNode("src")
	file := NewFileNode("data.bin")
	file.content = []byte{1, 2, 3}
	src.AddChild(file)
	sub := NewDirNode("sub")
	src.AddChild(sub)
	subFile := NewFileNode("deep.txt")
	subFile.content = []byte("deep")
	sub.AddChild(subFile)

	copied := src.clone("copy")

	// Fully detached with the new name
	require.NotNil(t, copied)
	assert.Equal(t, "copy", copied.Name())
	assert.Nil(t, copied.parent)
	assert.Equal(t, src.Size(), copied.Size())

	// Structure preserved, no node shared
	gotFile, ok := copied.GetChild("data.bin")
	require.True(t, ok)
	assert.NotSame(t, file, gotFile)
	assert.Equal(t, file.content, gotFile.content)

	gotSub, ok := copied.GetChild("sub")
	require.True(t, ok)
	gotDeep, ok := gotSub.GetChild("deep.txt")
	require.True(t, ok)
	assert.Equal(t, []byte("deep"), gotDeep.content)

	// Mutating the clone never touches the source
	gotFile.content[0] = 99
	assert.Equal(t, byte(1), file.content[0])
}
