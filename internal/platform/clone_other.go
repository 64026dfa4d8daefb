//go:build !darwin

package platform

import "errors"

var errCloneUnsupported = errors.New("clonefile not supported")

func clonePath(_, _ string) (CopyResult, error) {
	return CopyResult{}, errCloneUnsupported
}

func isFallbackCloneErr(err error) bool {
	return errors.Is(err, errCloneUnsupported)
}
