package ports

import "context"

// Folder is one root of the inspected workspace.
type Folder struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// FindOptions bounds a file enumeration.
type FindOptions struct {
	// Extensions restricts matches (".ts", "js"). Empty matches everything.
	Extensions []string
	// IncludeHidden disables the default node_modules and dot-directory exclusion.
	IncludeHidden bool
	// Limit caps the number of results. Zero means no cap.
	Limit int
}

// Workspace is the read-only view of the user's workspace. Every call is an
// external call and may fail; callers render failures inline.
type Workspace interface {
	// Folders lists the workspace roots. An empty list means no workspace is open.
	Folders(ctx context.Context) ([]Folder, error)

	// FindFiles returns workspace-relative paths matching opts.
	FindFiles(ctx context.Context, opts FindOptions) ([]string, error)

	// Exists reports whether a file named name exists anywhere in the workspace
	// (outside node_modules).
	Exists(ctx context.Context, name string) (bool, error)
}
