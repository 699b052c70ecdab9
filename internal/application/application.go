package application

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

const (
	// AppName is the application name used for directories and identification
	AppName = "fixedphrase"

	// EnvPrefix prefixes every environment variable the application reads
	EnvPrefix = "FIXEDPHRASE"

	// HomeEnv overrides the application directory
	HomeEnv = EnvPrefix + "_HOME"
)

var (
	once   sync.Once
	appDir string
	errDir error
)

// GetApplicationDirectory returns the fixedphrase configuration directory path.
// Linux: ~/.config/fixedphrase (via os.UserConfigDir)
// Windows: C:\Users\{username}\AppData\Local\fixedphrase (via os.UserCacheDir)
// FIXEDPHRASE_HOME takes precedence on every platform.
func GetApplicationDirectory() (string, error) {
	once.Do(lazyLoad)

	if errDir != nil {
		return "", errDir
	}

	return appDir, nil
}

// EnsureApplicationDirectory returns the application directory, creating it
// when missing.
func EnsureApplicationDirectory() (string, error) {
	dir, err := GetApplicationDirectory()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	return dir, nil
}

func lazyLoad() {
	appDir, errDir = resolve(os.Getenv(HomeEnv), runtime.GOOS)
}

func resolve(home, goos string) (string, error) {
	if home != "" {
		return home, nil
	}

	var (
		baseDir string
		err     error
	)

	switch goos {
	case "windows":
		// Windows: use AppData\Local (via UserCacheDir)
		baseDir, err = os.UserCacheDir()
	default:
		// Linux/others: use ~/.config (via UserConfigDir)
		baseDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}

	return filepath.Join(baseDir, AppName), nil
}
