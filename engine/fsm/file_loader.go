package fsm

import (
	"fmt"
	"os"
)

// LoadConfigAuto loads the graph at path, or the embedded graph when path is empty
func LoadConfigAuto[T any](m *Machine[T], path, embedded string) error {
	if path == "" {
		return m.LoadConfig([]byte(embedded))
	}
	return LoadConfigFromPath(m, path)
}

// LoadConfigFromPath loads a graph file
func LoadConfigFromPath[T any](m *Machine[T], path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("graph %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("graph %s: is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("graph %s: %w", path, err)
	}
	if err := m.LoadConfig(data); err != nil {
		return fmt.Errorf("graph %s: %w", path, err)
	}
	return nil
}
