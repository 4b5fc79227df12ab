package scenario

import (
	"context"
	"net/url"
	"path"

	"github.com/aretw0/pacer/pkg/ports"
)

// firstFolder returns the first workspace root. ok is false when no
// workspace is open; err reports a failed inspection.
func firstFolder(ctx context.Context, ws ports.Workspace) (folder ports.Folder, ok bool, err error) {
	if ws == nil {
		return ports.Folder{}, false, nil
	}
	folders, err := ws.Folders(ctx)
	if err != nil || len(folders) == 0 {
		return ports.Folder{}, false, err
	}
	return folders[0], true, nil
}

// fileURI builds a file:// link below base.
func fileURI(base string, elem ...string) string {
	u := url.URL{Scheme: "file", Path: path.Join(append([]string{"/", base}, elem...)...)}
	return u.String()
}
