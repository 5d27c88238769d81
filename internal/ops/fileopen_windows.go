//go:build windows

package ops

import (
	"os"

	"github.com/hpungsan/molgraph/internal/errors"
)

// openFileNoFollow falls back to os.OpenFile; Windows has no O_NOFOLLOW.
// ValidatePath has already rejected symlinked paths.
func openFileNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	f, err := os.OpenFile(path, flag, perm)
	if err != nil && flag&(os.O_WRONLY|os.O_RDWR) == 0 && os.IsNotExist(err) {
		return nil, errors.NewFileNotFound(path)
	}
	return f, err
}

// openFileNoFollowRead opens path read-only.
func openFileNoFollowRead(path string) (*os.File, error) {
	return openFileNoFollow(path, os.O_RDONLY, 0)
}
