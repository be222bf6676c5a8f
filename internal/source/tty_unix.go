//go:build unix

package source

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// TerminalPath is the controlling terminal of the process.
const TerminalPath = "/dev/tty"

// replacedStdin keeps the original stdin file reachable; its finalizer
// would otherwise close fd 0 after the terminal took it over.
var replacedStdin []*os.File

// ReattachStdin points standard input at the controlling terminal. A
// document piped in on stdin leaves fd 0 at EOF; line editors read fd 0
// directly, so it has to be replaced rather than wrapped.
func ReattachStdin() error {
	return reattachStdin(TerminalPath)
}

func reattachStdin(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if err := unix.Dup2(int(f.Fd()), unix.Stdin); err != nil {
		return fmt.Errorf("attach %s to stdin: %w", path, err)
	}
	replacedStdin = append(replacedStdin, os.Stdin)
	os.Stdin = os.NewFile(uintptr(unix.Stdin), path)
	return nil
}
