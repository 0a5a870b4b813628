package emfs

// NodeType discriminates the two node variants in the tree.
type NodeType int

const (
	FileNode NodeType = iota
	DirNode
)

func (t NodeType) String() string {
	if t == DirNode {
		return "directory"
	}
	return "file"
}

// Executor stages an in-memory file onto the real file system and runs it
// synchronously. It is the tree's only boundary with the outside world.
//
// Implementations own all staging cleanup; the returned int is the process
// exit code. Inability to stage or launch is reported as an error, a
// non-zero exit code is not.
type Executor interface {
	Execute(name string, content []byte) (int, error)
}
