//go:build !windows

package ops

import (
	stderrors "errors"
	"os"
	"syscall"

	"github.com/sonce/newsctl/internal/errors"
)

// openFileNoFollow opens a file for writing with O_NOFOLLOW so a symlink
// planted at the destination cannot redirect the write. O_CLOEXEC prevents
// FD leaks across exec. Only the final path component is protected;
// directory components are covered by ValidateBundlePath.
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
