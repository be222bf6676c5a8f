//go:build !unix

package source

import "errors"

// ReattachStdin is not supported on this platform.
func ReattachStdin() error {
	return errors.New("reading a document from stdin needs a unix terminal")
}
