package freezer

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/pybuild-tools/version-freezer/internal/logger"
)

// executableName is the base name of the freezer binary as spawned by build systems.
const executableName = "version-freezer"

// errFreezerRunning indicates that another freezer instance is active.
var errFreezerRunning = errors.New("another version-freezer instance is running")

// instanceRunning scans the process table for a second freezer instance.
// Two concurrent freezers would race on the same generated module, so the
// later one refuses to start. Scan failures are not treated as a conflict.
func instanceRunning(ctx context.Context) bool {
	processes, err := ps.Processes()
	if err != nil {
		logger.Debugf(ctx, "unable to list processes: %v", err)
		return false
	}

	self := os.Getpid()

	for _, process := range processes {
		if process.Pid() == self {
			continue
		}

		name := strings.TrimSuffix(process.Executable(), ".exe")
		if name == executableName {
			logger.WarnKV(ctx, "Found another running freezer", "pid", process.Pid())
			return true
		}
	}

	return false
}
