package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (relative paths resolve against the working
// directory) and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return abs, nil
}

// OutputPath joins name onto the ensured output directory. Absolute names
// are returned unchanged.
func OutputPath(dir, name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}
	base, err := EnsureDir(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(base, name), nil
}
