package filesystem

import (
	"sort"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/camresh/emfs"
)

// Node is a single entry in the tree: a file holding bytes or a directory
// holding a name-to-child mapping. The variant is fixed at construction and
// never changes.
//
// parent is a non-owning back-reference used only for upward traversal
// (ascending on "..", locating the old parent on move/remove); nil only for
// the root. Ownership runs strictly downward through the children map, so
// detaching a subtree from its parent is what destroys it.
type Node struct {
	name     string // Name of the node (last path segment); "" only for root
	parent   *Node
	kind     emfs.NodeType
	content  []byte                    // file payload; nil for directories
	children *xsync.Map[string, *Node] // child nodes by name; nil for files
}

// NewFileNode creates a detached, empty file node.
//
// NOTE: Parent node is responsible for adding itself to the returned Node's
// parent ref when linking it as a child.
func NewFileNode(name string) *Node {
	return &Node{
		name: name,
		kind: emfs.FileNode,
	}
}

// NewDirNode creates a detached directory node with no children.
func NewDirNode(name string) *Node {
	return &Node{
		name:     name,
		kind:     emfs.DirNode,
		children: xsync.NewMap[string, *Node](),
	}
}

// Kind returns the node's variant tag.
func (n *Node) Kind() emfs.NodeType {
	return n.kind
}

// Name returns the node's own segment name (not a path).
func (n *Node) Name() string {
	return n.name
}

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool {
	return n.kind == emfs.DirNode
}

// IsRoot reports whether the node is the tree root (no parent).
func (n *Node) IsRoot() bool {
	return n.parent == nil && n.kind == emfs.DirNode
}

// Path returns the absolute path of the node, "/" for the root.
// A detached node reports the path it would have under its last parent chain.
func (n *Node) Path() string {
	if n.parent == nil {
		if n.kind == emfs.DirNode && n.name == "" {
			return "/"
		}
		return "/" + n.name
	}
	pPath := n.parent.Path()
	if pPath == "/" {
		return "/" + n.name
	}
	return pPath + "/" + n.name
}

// Size returns the byte count of a file, or the recursive sum of all
// descendant files for a directory. Computed on demand, never cached.
func (n *Node) Size() int {
	if n.kind == emfs.FileNode {
		return len(n.content)
	}
	total := 0
	n.children.Range(func(_ string, child *Node) bool {
		total += child.Size()
		return true
	})
	return total
}

// AddChild adds a child node to the node's children map
// and sets the child's parent to this node.
func (n *Node) AddChild(child *Node) {
	n.children.Store(child.name, child)
	child.parent = n
}

// GetChild returns a child node by name.
func (n *Node) GetChild(name string) (child *Node, ok bool) {
	if n.kind != emfs.DirNode {
		return nil, false
	}
	return n.children.Load(name)
}

// RemoveChild detaches the named child, clearing its parent back-reference.
// Returns the detached node, or nil if no such child exists.
func (n *Node) RemoveChild(name string) *Node {
	if child, exists := n.children.LoadAndDelete(name); exists {
		child.parent = nil
		return child
	}
	return nil
}

// NumChildren returns the number of direct children of a directory.
func (n *Node) NumChildren() int {
	if n.kind != emfs.DirNode {
		return 0
	}
	return n.children.Size()
}

// ChildNames returns the direct child names sorted ascending.
func (n *Node) ChildNames() []string {
	names := make([]string, 0, n.children.Size())
	n.children.Range(func(name string, _ *Node) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}

// clone deep-copies the subtree rooted at n under a new name. The result is
// fully detached: file content is duplicated byte-for-byte and no node is
// shared with the source. Assembling the copy off-tree before attaching it
// keeps copy operations atomic and makes copying a directory into its own
// subtree well-defined.
func (n *Node) clone(name string) *Node {
	if n.kind == emfs.FileNode {
		file := NewFileNode(name)
		file.content = append([]byte(nil), n.content...)
		return file
	}
	dir := NewDirNode(name)
	n.children.Range(func(childName string, child *Node) bool {
		dir.AddChild(child.clone(childName))
		return true
	})
	return dir
}
