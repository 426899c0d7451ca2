package state

import (
	"runtime"
	"time"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
	}
}

func defaultWorkers() int {
	return max(1, runtime.GOMAXPROCS(0))
}
