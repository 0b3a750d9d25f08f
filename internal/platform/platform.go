// Package platform identifies the running OS so the redirect package can
// name the interception strategy that platform would need.
//
// Adapted from the teacher compiler's target-detection module
// (internal/engine/arch.go), which served the same OS/Arch enumeration for
// code generation. Here it answers "which redirect strategy applies" instead
// of "which instruction encoding applies".
package platform

import "runtime"

// OS identifies a host operating system family.
type OS int

const (
	Linux OS = iota
	Darwin
	Windows
	OtherOS
)

func (o OS) String() string {
	switch o {
	case Linux:
		return "linux"
	case Darwin:
		return "darwin"
	case Windows:
		return "windows"
	default:
		return "other"
	}
}

// Current returns the OS of the running process, as derived from GOOS.
func Current() OS {
	switch runtime.GOOS {
	case "linux":
		return Linux
	case "darwin":
		return Darwin
	case "windows":
		return Windows
	default:
		return OtherOS
	}
}

// RedirectStrategy names the interception technique a platform would need
// for the malloc-redirect extension described in spec.md §6. varena does not
// implement any of these (see redirect package doc comment) but surfaces the
// name for diagnostics and for parity with the teacher's per-OS branching
// style (filewatcher_unix.go / filewatcher_darwin.go / filewatcher_windows.go).
func (o OS) RedirectStrategy() string {
	switch o {
	case Linux:
		return "PLT rewriting"
	case Darwin:
		return "two-level namespace rebinding"
	case Windows:
		return "import-table trampolines"
	default:
		return "unsupported"
	}
}
