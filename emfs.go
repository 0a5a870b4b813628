// Package emfs defines the public contract surface of E-MFS, an in-memory
// hierarchical file system with a shell-like API: the node-kind enum, the
// error taxonomy shared by every operation, and the Executor boundary used
// to run a stored file outside the tree.
//
// The tree itself lives in [github.com/camresh/emfs/filesystem]; runtime
// options in [github.com/camresh/emfs/config]; the default executor in
// [github.com/camresh/emfs/executor].
package emfs
