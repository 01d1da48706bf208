package utils

import "runtime"

// IsLinux checks if the current system is Linux
func IsLinux() bool {
	return runtime.GOOS == "linux"
}
