//go:build !windows

package ops

import (
	stderrors "errors"
	"os"
	"syscall"

	"github.com/hpungsan/indotrip/internal/errors"
)

// openFileNoFollow opens a file for writing with O_NOFOLLOW so a symlink
// planted at the final path component is refused. O_CLOEXEC prevents FD leaks
// across exec.
//
// O_NOFOLLOW only covers the final component; ValidateExportPath keeps files
// directly inside allowed directories so there are no intermediate ones.
func openFileNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	fd, err := syscall.Open(path, flag|syscall.O_NOFOLLOW|syscall.O_CLOEXEC, uint32(perm))
	if err != nil {
		if stderrors.Is(err, syscall.ELOOP) {
			return nil, errors.NewInvalidRequest("cannot write to symlink")
		}
		return nil, err
	}
	return os.NewFile(uintptr(fd), path), nil
}
