package serial

import (
	"iter"
	"os"
	"path/filepath"
	"strings"
)

// Candidates lazily yields the paths in dir whose names start with one of the
// platform's serial device prefixes. An unreadable directory yields nothing.
func Candidates(dir string) iter.Seq[string] {
	return func(yield func(string) bool) {
		d, err := os.Open(dir)
		if err != nil {
			return
		}
		defer d.Close()

		for {
			entries, err := d.ReadDir(64)
			for _, entry := range entries {
				if !isCandidateName(entry.Name()) {
					continue
				}
				if !yield(filepath.Join(dir, entry.Name())) {
					return
				}
			}
			if err != nil {
				return
			}
		}
	}
}

// ListPorts returns the sorted candidate devices in /dev
func ListPorts() ([]string, error) {
	return listPorts(DefaultDeviceDir)
}

// listPorts reads dir once and returns its candidate devices, sorted. Unlike
// Candidates it reports a directory that cannot be read.
func listPorts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var ports []string
	for _, entry := range entries {
		if isCandidateName(entry.Name()) {
			ports = append(ports, filepath.Join(dir, entry.Name()))
		}
	}
	return ports, nil
}

func isCandidateName(name string) bool {
	for _, prefix := range devicePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// isCharacterDevice checks if the given path is a character device
func isCharacterDevice(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// PortInfo describes a candidate device
type PortInfo struct {
	Name        string
	Path        string
	Description string
	CharDevice  bool
}

// GetPortInfo returns information about the device at portPath
func GetPortInfo(portPath string) (*PortInfo, error) {
	if _, err := os.Stat(portPath); err != nil {
		return nil, ErrDeviceNotFound
	}

	name := filepath.Base(portPath)
	return &PortInfo{
		Name:        name,
		Path:        portPath,
		Description: getPortDescription(name),
		CharDevice:  isCharacterDevice(portPath),
	}, nil
}

// getPortDescription provides human-readable descriptions for different port types
func getPortDescription(name string) string {
	switch {
	case strings.HasPrefix(name, "ttyUSB"):
		return "USB Serial Port"
	case strings.HasPrefix(name, "ttyACM"):
		return "USB CDC/ACM Device"
	case strings.HasPrefix(name, "ttyS"):
		return "Standard Serial Port"
	case strings.HasPrefix(name, "cu."):
		return "Call-Out Device"
	default:
		return "Serial Port"
	}
}
