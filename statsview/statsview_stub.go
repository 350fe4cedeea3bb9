//go:build !statsview

package statsview

import "github.com/retroenv/retrogolib/log"

// Launch reports that the binary was built without the statistics server.
func Launch(logger *log.Logger) {
	logger.Warn("Stats server not compiled in, rebuild with -tags statsview")
}

// Available returns true if a statsview is available to launch.
func Available() bool {
	return false
}
