package engine

import (
	"errors"
	"fmt"
)

// Copy failures that the engine detects itself. Filesystem errors are
// wrapped in a PathError and otherwise passed through untouched.
var (
	ErrUnsupportedKind   = errors.New("unsupported entry kind")
	ErrDestinationExists = errors.New("destination already exists")
	ErrCircularCopy      = errors.New("cannot copy into a subdirectory of itself")
	ErrUnsafeOverwrite   = errors.New("unsafe overwrite")
	ErrSameFile          = errors.New("source and destination must not be the same")
	ErrTypeMismatch      = errors.New("cannot overwrite entry of a different type")
)

// PathError records a failed copy step together with the paths involved.
type PathError struct {
	Op  string
	Src string
	Dst string
	Err error
}

func (e *PathError) Error() string {
	switch {
	case e.Src != "" && e.Dst != "":
		return fmt.Sprintf("%s %s -> %s: %v", e.Op, e.Src, e.Dst, e.Err)
	case e.Dst != "":
		return fmt.Sprintf("%s %s: %v", e.Op, e.Dst, e.Err)
	default:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Src, e.Err)
	}
}

func (e *PathError) Unwrap() error {
	return e.Err
}

func unsupportedKind(src string, k Kind) error {
	return &PathError{Op: "copy", Src: src, Err: fmt.Errorf("%w: %s", ErrUnsupportedKind, k)}
}

func destinationExists(dst string) error {
	return &PathError{Op: "copy", Dst: dst, Err: ErrDestinationExists}
}

func circularCopy(src, dst string) error {
	return &PathError{Op: "copy", Src: src, Dst: dst, Err: ErrCircularCopy}
}

func unsafeOverwrite(dst, src string) error {
	return &PathError{
		Op:  "overwrite",
		Src: src,
		Dst: dst,
		Err: fmt.Errorf("%w: cannot overwrite %q with %q", ErrUnsafeOverwrite, dst, src),
	}
}
