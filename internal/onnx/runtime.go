package onnx

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/yalue/onnxruntime_go"
)

const (
	libLinux   = "libonnxruntime.so"
	libDarwin  = "libonnxruntime.dylib"
	libWindows = "onnxruntime.dll"

	// EnvLibraryPath overrides shared-library discovery.
	EnvLibraryPath = "ONNXRUNTIME_LIB_PATH"
)

func libraryName() (string, error) {
	switch runtime.GOOS {
	case "linux":
		return libLinux, nil
	case "darwin":
		return libDarwin, nil
	case "windows":
		return libWindows, nil
	default:
		return "", fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}

func trySetLibraryPath(path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	onnxruntime_go.SetSharedLibraryPath(path)
	return true
}

// SetLibraryPath points the bindings at the ONNX Runtime shared library.
// The ONNXRUNTIME_LIB_PATH environment variable wins; otherwise common
// system locations and an onnxruntime/lib directory next to the binary
// are probed.
func SetLibraryPath() error {
	if p := os.Getenv(EnvLibraryPath); p != "" {
		if !trySetLibraryPath(p) {
			return fmt.Errorf("ONNX Runtime library not found at %s (from %s)", p, EnvLibraryPath)
		}
		return nil
	}

	libName, err := libraryName()
	if err != nil {
		return err
	}

	candidates := []string{
		filepath.Join("/usr/lib", libName),
		filepath.Join("/usr/local/lib", libName),
		filepath.Join("/opt/homebrew/lib", libName),
	}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "onnxruntime", "lib", libName))
	}

	for _, p := range candidates {
		if trySetLibraryPath(p) {
			return nil
		}
	}
	return fmt.Errorf("ONNX Runtime library %s not found; set %s", libName, EnvLibraryPath)
}

// EnsureInitialized sets up the library path and initializes the ONNX
// Runtime environment once per process.
func EnsureInitialized() error {
	if onnxruntime_go.IsInitialized() {
		return nil
	}
	if err := SetLibraryPath(); err != nil {
		return err
	}
	if err := onnxruntime_go.InitializeEnvironment(); err != nil {
		return fmt.Errorf("failed to initialize ONNX Runtime: %w", err)
	}
	return nil
}

// Shutdown destroys the ONNX Runtime environment.
func Shutdown() {
	if onnxruntime_go.IsInitialized() {
		_ = onnxruntime_go.DestroyEnvironment()
	}
}
