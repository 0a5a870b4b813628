package filesystem

import (
	"sort"
	"strings"

	"github.com/camresh/emfs"
	"github.com/camresh/emfs/config"
	"github.com/camresh/emfs/internal/util"
)

// FileSystem is the path engine over a single node tree: it resolves
// absolute paths against the tree and applies shell-like operations to it.
// Every operation either fully succeeds or leaves the tree unchanged; the
// only sanctioned partial effect is Mkdir keeping intermediate directories
// created en route to a failing component.
//
// FileSystem has no operation-level locking. It assumes a single logical
// actor mutates the tree at a time; embedders needing multi-actor access
// must serialize around the whole FileSystem surface.
type FileSystem struct {
	cfg  *config.Config
	root *Node // Root of node tree; addressed by "/"
	exec emfs.Executor
}

// NewFS creates an empty file system containing only the root directory.
// A nil cfg falls back to defaults. The configured verbosity is applied to
// the global logger here, so embedders get the level they asked for without
// reaching into internal packages.
func NewFS(cfg *config.Config) *FileSystem {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	util.InitializeLogger(cfg.LogLvl)
	return &FileSystem{
		cfg:  cfg,
		root: NewDirNode(""),
	}
}

// SetExecutor wires the collaborator used by [FileSystem.Execute].
func (fs *FileSystem) SetExecutor(exec emfs.Executor) {
	fs.exec = exec
}

// Root returns the root directory node.
func (fs *FileSystem) Root() *Node {
	return fs.root
}

// splitPath breaks an absolute path into its meaningful segments: empty
// components and "." are dropped, ".." is kept for the walk to interpret.
func splitPath(path string) ([]string, error) {
	if path == "" {
		return nil, emfs.NewError(emfs.ErrInvalidPath, "path cannot be empty", path)
	}
	parts := strings.Split(path, "/")
	comps := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		comps = append(comps, part)
	}
	return comps, nil
}

// Resolve walks an absolute path from the root and returns the node it
// addresses. ".." ascends clamped at the root. A file in a non-terminal
// position fails with ErrNotDirectory; the terminal component may resolve
// to either kind.
func (fs *FileSystem) Resolve(path string) (*Node, error) {
	comps, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	cur := fs.root
	for i, comp := range comps {
		if comp == ".." {
			if cur.parent != nil {
				cur = cur.parent
			}
			continue
		}
		child, ok := cur.GetChild(comp)
		if !ok {
			return nil, emfs.NewError(emfs.ErrNotFound, "path not found", path)
		}
		if !child.IsDir() {
			if i != len(comps)-1 {
				return nil, emfs.NewError(emfs.ErrNotDirectory, "path component is not a directory: "+comp, path)
			}
			return child, nil
		}
		cur = child
	}
	return cur, nil
}

// resolveParentAndName splits a non-root absolute path at its last slash and
// resolves the prefix to a directory. Used by every creation/removal-target
// operation.
func (fs *FileSystem) resolveParentAndName(path string) (*Node, string, error) {
	if path == "" || path == "/" {
		return nil, "", emfs.NewError(emfs.ErrInvalidPath, "invalid path for child creation", path)
	}
	lastSlash := strings.LastIndex(path, "/")
	if lastSlash == -1 {
		return nil, "", emfs.NewError(emfs.ErrInvalidPath, "paths must be absolute (start with '/')", path)
	}

	parentPath := path[:lastSlash]
	if lastSlash == 0 {
		parentPath = "/"
	}
	name := path[lastSlash+1:]
	if name == "" {
		return nil, "", emfs.NewError(emfs.ErrInvalidPath, "path cannot end with a slash for this operation", path)
	}
	if name == "." || name == ".." {
		return nil, "", emfs.NewError(emfs.ErrInvalidPath, "invalid final path component: "+name, path)
	}

	parent, err := fs.Resolve(parentPath)
	if err != nil {
		return nil, "", err
	}
	if !parent.IsDir() {
		return nil, "", emfs.NewError(emfs.ErrNotDirectory, "parent path is not a directory", parentPath)
	}
	return parent, name, nil
}

// resolveDestination disambiguates a copy/move destination: an existing
// directory means "place sourceName inside it", an existing file is a
// conflict, and anything else falls back to parent resolution so the source
// lands under a new name. The fallback re-resolves the destination's parent
// prefix, so a missing intermediate directory still surfaces as ErrNotFound.
func (fs *FileSystem) resolveDestination(destPath, sourceName string) (*Node, string, error) {
	dest, err := fs.Resolve(destPath)
	if err != nil {
		return fs.resolveParentAndName(destPath)
	}
	if !dest.IsDir() {
		return nil, "", emfs.NewError(emfs.ErrAlreadyExists, "destination file already exists", destPath)
	}
	if _, ok := dest.GetChild(sourceName); ok {
		return nil, "", emfs.NewError(emfs.ErrAlreadyExists, "destination already exists", destPath+"/"+sourceName)
	}
	return dest, sourceName, nil
}

// Mkdir creates every missing directory along path, like `mkdir -p`.
// It is a no-op for "/" and for directories that already exist, and fails
// with ErrNotDirectory if a file occupies a needed component. Directories
// created en route to a failing component are kept.
func (fs *FileSystem) Mkdir(path string) error {
	logger := util.GetLogger("Mkdir")

	comps, err := splitPath(path)
	if err != nil {
		return err
	}
	cur := fs.root
	created := 0
	for _, comp := range comps {
		if comp == ".." {
			if cur.parent != nil {
				cur = cur.parent
			}
			continue
		}
		child, ok := cur.GetChild(comp)
		if !ok {
			dir := NewDirNode(comp)
			cur.AddChild(dir)
			cur = dir
			created++
			continue
		}
		if !child.IsDir() {
			return emfs.NewError(emfs.ErrNotDirectory, "a file exists at path component: "+comp, path)
		}
		cur = child
	}
	if created > 0 {
		logger.Debug().Str("path", path).Int("created", created).Msg("Created directories")
	}
	return nil
}

// Touch creates an empty file at path if absent. If a file already exists
// there it is left untouched; a directory occupying the name fails with
// ErrNotFile.
func (fs *FileSystem) Touch(path string) error {
	parent, name, err := fs.resolveParentAndName(path)
	if err != nil {
		return err
	}
	if child, ok := parent.GetChild(name); ok {
		if child.IsDir() {
			return emfs.NewError(emfs.ErrNotFile, "a directory with that name exists", path)
		}
		// existing file keeps its content
		return nil
	}
	parent.AddChild(NewFileNode(name))
	return nil
}

// WriteFile creates or overwrites the file at path with a copy of content.
// A directory occupying the name fails with ErrIsDirectory.
func (fs *FileSystem) WriteFile(path string, content []byte) error {
	parent, name, err := fs.resolveParentAndName(path)
	if err != nil {
		return err
	}
	child, ok := parent.GetChild(name)
	if ok && child.IsDir() {
		return emfs.NewError(emfs.ErrIsDirectory, "cannot write to a directory", path)
	}
	if err := fs.checkSizeLimit(path, len(content)); err != nil {
		return err
	}
	if !ok {
		child = NewFileNode(name)
		parent.AddChild(child)
	}
	child.content = append([]byte(nil), content...)
	return nil
}

// WriteString is a convenience wrapper over [FileSystem.WriteFile].
func (fs *FileSystem) WriteString(path, content string) error {
	return fs.WriteFile(path, []byte(content))
}

// Append appends a copy of content to an existing file.
func (fs *FileSystem) Append(path string, content []byte) error {
	node, err := fs.Resolve(path)
	if err != nil {
		return err
	}
	if node.IsDir() {
		return emfs.NewError(emfs.ErrNotFile, "path is not a file", path)
	}
	if err := fs.checkSizeLimit(path, len(node.content)+len(content)); err != nil {
		return err
	}
	node.content = append(node.content, content...)
	return nil
}

// AppendString is a convenience wrapper over [FileSystem.Append].
func (fs *FileSystem) AppendString(path, content string) error {
	return fs.Append(path, []byte(content))
}

// Cat returns a copy of the file's content at path.
func (fs *FileSystem) Cat(path string) ([]byte, error) {
	node, err := fs.Resolve(path)
	if err != nil {
		return nil, err
	}
	if node.IsDir() {
		return nil, emfs.NewError(emfs.ErrNotFile, "path is not a file", path)
	}
	return append([]byte(nil), node.content...), nil
}

// CatString returns the file's content at path as a string.
func (fs *FileSystem) CatString(path string) (string, error) {
	content, err := fs.Cat(path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// Rm detaches and destroys the node at path. Removing a non-empty directory
// requires recursive; removing the root is never allowed.
func (fs *FileSystem) Rm(path string, recursive bool) error {
	logger := util.GetLogger("Rm")

	if path == "/" {
		return emfs.NewError(emfs.ErrInvalidPath, "cannot remove the root directory", path)
	}
	parent, name, err := fs.resolveParentAndName(path)
	if err != nil {
		return err
	}
	child, ok := parent.GetChild(name)
	if !ok {
		return emfs.NewError(emfs.ErrNotFound, "path not found", path)
	}
	if child.IsDir() && !recursive && child.NumChildren() > 0 {
		return emfs.NewError(emfs.ErrDirNotEmpty, "directory not empty, use recursive flag", path)
	}
	parent.RemoveChild(name)
	logger.Debug().Str("path", path).Bool("recursive", recursive).Msg("Removed node")
	return nil
}

// Cp copies the node at src to dest. Files duplicate their content;
// directories are deep-copied preserving relative layout. The source is
// unmodified and no node is shared between the two subtrees. dest may be an
// existing directory (copy into, keeping the source name) or a new path
// (copy under the new final name).
func (fs *FileSystem) Cp(src, dest string) error {
	logger := util.GetLogger("Cp")

	srcNode, err := fs.Resolve(src)
	if err != nil {
		return err
	}
	destParent, newName, err := fs.resolveDestination(dest, srcNode.Name())
	if err != nil {
		return err
	}
	if newName == "" {
		// copying the root into an existing directory: there is no source
		// name to reuse
		return emfs.NewError(emfs.ErrInvalidPath, "copy destination needs an explicit name", dest)
	}
	if _, ok := destParent.GetChild(newName); ok {
		return emfs.NewError(emfs.ErrAlreadyExists, "destination already exists", dest)
	}
	// The per-file cap applies to copied content too: the source may predate
	// a lowered limit. Checked before cloning so a rejection mutates nothing.
	if err := fs.checkSubtreeSizeLimit(src, srcNode); err != nil {
		return err
	}
	// The clone is assembled fully detached before attaching, so a failure
	// cannot leave a half-copied subtree and the source snapshot is stable
	// even when dest sits inside it.
	destParent.AddChild(srcNode.clone(newName))
	logger.Debug().Str("src", src).Str("dest", dest).Msg("Copied subtree")
	return nil
}

// Mv relocates the node at src to dest without copying content: the node is
// detached from its old parent, renamed, and re-attached. Moving a directory
// into itself or any of its own descendants fails with ErrCyclicMove, and
// the root can never be moved.
func (fs *FileSystem) Mv(src, dest string) error {
	logger := util.GetLogger("Mv")

	if src == "/" {
		return emfs.NewError(emfs.ErrInvalidPath, "cannot move the root directory", src)
	}
	srcNode, err := fs.Resolve(src)
	if err != nil {
		return err
	}
	if srcNode.IsRoot() {
		// paths like "/a/.." still address the root
		return emfs.NewError(emfs.ErrInvalidPath, "cannot move the root directory", src)
	}
	oldParent := srcNode.parent

	newParent, newName, err := fs.resolveDestination(dest, srcNode.Name())
	if err != nil {
		return err
	}
	// Walk the destination's ancestor chain by identity: relocating a
	// directory inside its own subtree would orphan it from the root.
	for p := newParent; p != nil; p = p.parent {
		if p == srcNode {
			return emfs.NewError(emfs.ErrCyclicMove, "cannot move a directory into itself", src)
		}
	}
	if _, ok := newParent.GetChild(newName); ok {
		return emfs.NewError(emfs.ErrAlreadyExists, "destination already exists", dest)
	}

	oldParent.RemoveChild(srcNode.name)
	srcNode.name = newName
	newParent.AddChild(srcNode)
	logger.Debug().Str("src", src).Str("dest", dest).Msg("Moved node")
	return nil
}

// Ls returns the child names of the directory at path, lexicographically
// sorted ascending, with directories suffixed by "/". The order is stable
// and deterministic regardless of insertion order.
func (fs *FileSystem) Ls(path string) ([]string, error) {
	node, err := fs.Resolve(path)
	if err != nil {
		return nil, err
	}
	if !node.IsDir() {
		return nil, emfs.NewError(emfs.ErrNotDirectory, "path is not a directory", path)
	}
	entries := make([]string, 0, node.NumChildren())
	node.children.Range(func(name string, child *Node) bool {
		if child.IsDir() {
			name += "/"
		}
		entries = append(entries, name)
		return true
	})
	sort.Strings(entries)
	return entries, nil
}

// Exists reports whether path resolves to a node. It never fails: every
// resolution error maps to false.
func (fs *FileSystem) Exists(path string) bool {
	_, err := fs.Resolve(path)
	return err == nil
}

// Kind returns the node variant at path.
func (fs *FileSystem) Kind(path string) (emfs.NodeType, error) {
	node, err := fs.Resolve(path)
	if err != nil {
		return 0, err
	}
	return node.Kind(), nil
}

// Size returns the byte count of the file at path, or the recursive byte
// count of all files under the directory at path.
func (fs *FileSystem) Size(path string) (int, error) {
	node, err := fs.Resolve(path)
	if err != nil {
		return 0, err
	}
	return node.Size(), nil
}

// Execute hands the file at path to the configured executor: a copy of its
// content plus its base name, to be staged and run synchronously outside the
// tree. Returns the process exit code. The tree is never mutated as a result
// of execution.
func (fs *FileSystem) Execute(path string) (int, error) {
	logger := util.GetLogger("Execute")

	node, err := fs.Resolve(path)
	if err != nil {
		return 0, err
	}
	if node.IsDir() {
		return 0, emfs.NewError(emfs.ErrNotFile, "path is not a file and cannot be executed", path)
	}
	if fs.exec == nil {
		return 0, emfs.NewError(emfs.ErrExecFailed, "no executor configured", path)
	}
	content := append([]byte(nil), node.content...)
	code, err := fs.exec.Execute(node.Name(), content)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("Execution failed")
		return code, err
	}
	logger.Debug().Str("path", path).Int("code", code).Msg("Executed file")
	return code, nil
}

// Dir lists directory contents. [Alias for Ls]
func (fs *FileSystem) Dir(path string) ([]string, error) { return fs.Ls(path) }

// Del removes a file or directory. [Alias for Rm]
func (fs *FileSystem) Del(path string, recursive bool) error { return fs.Rm(path, recursive) }

// Ren moves or renames a file or directory. [Alias for Mv]
func (fs *FileSystem) Ren(src, dest string) error { return fs.Mv(src, dest) }

// Type reads the content of a file as a string. [Alias for CatString]
func (fs *FileSystem) Type(path string) (string, error) { return fs.CatString(path) }

// checkSizeLimit rejects content lengths beyond the configured per-file cap.
func (fs *FileSystem) checkSizeLimit(path string, length int) error {
	if fs.cfg.MaxFileSize > 0 && length > fs.cfg.MaxFileSize {
		return emfs.NewError(emfs.ErrTooLarge, "content exceeds configured max file size", path)
	}
	return nil
}

// checkSubtreeSizeLimit applies the per-file cap to every file under n.
func (fs *FileSystem) checkSubtreeSizeLimit(path string, n *Node) error {
	if !n.IsDir() {
		return fs.checkSizeLimit(path, len(n.content))
	}
	var err error
	n.children.Range(func(name string, child *Node) bool {
		err = fs.checkSubtreeSizeLimit(path+"/"+name, child)
		return err == nil
	})
	return err
}
