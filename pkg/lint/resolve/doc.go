// Package resolve provides the cross-file lookups lint rules depend on.
//
// The Resolver answers four questions about the filesystem around a
// document: which Python siblings share its directory, what its package
// initializer says, which module descriptor encloses it, and what the
// module's access-control table grants.
//
// Missing resources are reported with ErrNotFound so that rules can tell
// "absent" apart from "unreadable":
//
//	table, err := resolver.AccessTable(module.Root)
//	switch {
//	case errors.Is(err, resolve.ErrNotFound):
//	    // report the missing table
//	case err != nil:
//	    return err
//	}
//
// The module lookup is bounded: FindManifest examines the starting directory
// and its ancestors, MaxManifestDepth directories in total, and gives up
// rather than walking out of a project.
package resolve
