// Package platform selects the mirror status backend for the machine
// specchio runs on. Only Arch Linux proper publishes a status feed; the ARM
// port is recognized but has no backend, which callers report with a
// distinct exit code.
package platform

import (
	"runtime"
	"sort"
	"strings"

	"github.com/davoli/specchio/internal/errors"
	"github.com/davoli/specchio/internal/mirror"
)

// Known platform names.
const (
	ArchLinux    = "archlinux"
	ArchLinuxARM = "archlinuxarm"
)

// Backend describes a distribution whose mirror status specchio can fetch.
type Backend struct {
	// Name is the platform name the backend serves.
	Name string
	// StatusURL is the mirror status feed of the distribution.
	StatusURL string
}

// backends maps platform names to their status backends. The ARM port is
// deliberately absent: it publishes no status feed.
var backends = map[string]Backend{
	ArchLinux: {
		Name:      ArchLinux,
		StatusURL: mirror.DefaultStatusURL,
	},
}

// Detect returns the platform name for the given machine architecture, such
// as runtime.GOARCH. Unrecognized architectures are returned unchanged so
// [Select] can name them in its error.
func Detect(arch string) string {
	if strings.HasPrefix(arch, "arm") {
		return ArchLinuxARM
	}

	switch arch {
	case "amd64", "386":
		return ArchLinux
	}

	return arch
}

// DetectHost returns the platform name for the machine specchio runs on.
func DetectHost() string {
	return Detect(runtime.GOARCH)
}

// Select returns the backend for the named platform. An empty name selects
// the host platform. Platforms without a backend yield a platform error,
// which maps to exit code 2.
func Select(name string) (Backend, error) {
	if name == "" {
		name = DetectHost()
	}
	name = strings.ToLower(name)

	backend, ok := backends[name]
	if !ok {
		return Backend{}, errors.NewPlatformError(name)
	}

	return backend, nil
}

// Names returns the recognized platform names in alphabetical order,
// including those without a backend.
func Names() []string {
	names := []string{ArchLinux, ArchLinuxARM}
	sort.Strings(names)
	return names
}
