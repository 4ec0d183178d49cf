package organizer

import (
	"errors"
	"io/fs"
)

// SkipReason is the categorized cause a single file's move did not complete.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipPermissionDenied
	SkipSourceNotFound
	SkipProtectedPath
	SkipCrossDeviceCopyFailed
	SkipDirectoryCreateFailed
	SkipOtherIOError
)

func (r SkipReason) String() string {
	switch r {
	case SkipPermissionDenied:
		return "permission denied"
	case SkipSourceNotFound:
		return "source not found"
	case SkipProtectedPath:
		return "protected path"
	case SkipCrossDeviceCopyFailed:
		return "cross-device copy failed"
	case SkipDirectoryCreateFailed:
		return "directory creation failed"
	case SkipOtherIOError:
		return "i/o error"
	default:
		return "none"
	}
}

// classifyError maps an I/O error to its skip reason.
func classifyError(err error) SkipReason {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return SkipPermissionDenied
	case errors.Is(err, fs.ErrNotExist):
		return SkipSourceNotFound
	default:
		return SkipOtherIOError
	}
}
