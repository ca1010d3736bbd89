package util

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

var (
	projectRootDir     string
	projectRootDirOnce sync.Once
)

// RunningInTest reports whether the current process is a "go test" binary.
func RunningInTest() bool {
	return strings.HasSuffix(os.Args[0], ".test") || strings.Contains(os.Args[0], "/_test/")
}

// GetProjectRootDir returns the path as string to the project_root, falling back to the
// directory containing the go.mod of this module when PROJECT_ROOT_DIR is not set.
func GetProjectRootDir() string {
	projectRootDirOnce.Do(func() {
		if val, ok := os.LookupEnv("PROJECT_ROOT_DIR"); ok {
			projectRootDir = val
			return
		}

		_, b, _, _ := runtime.Caller(0) //nolint:dogsled

		// internal/util/test.go -> project root
		projectRootDir = filepath.Join(filepath.Dir(b), "../..")
	})

	return projectRootDir
}
