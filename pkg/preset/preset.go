// Package preset maps named deployment presets to the container image, API
// port, and bootstrap template used to run a document-processing service.
package preset

import (
	"fmt"
	"sort"
)

// Config is an immutable deployment preset.
type Config struct {
	// Name is the canonical preset name.
	Name string
	// Image is the container image reference to run.
	Image string
	// APIPort is the port the service listens on, used as both the host
	// and container port.
	APIPort int
	// GPUCapable reports whether the image can use a GPU when the
	// instance type provides one.
	GPUCapable bool
	// Template is the bootstrap script template ID.
	Template string
}

// UnknownConfigError is returned when a preset name does not resolve.
type UnknownConfigError struct {
	Name string
}

func (e *UnknownConfigError) Error() string {
	return fmt.Sprintf("unknown deployment config %q (known: %v)", e.Name, Names())
}

// presets is the fixed registry. Entries are never mutated after init.
var presets = map[string]Config{
	"crf": {
		Name:     "crf",
		Image:    "grobid/grobid:0.8.1-crf",
		APIPort:  8070,
		Template: "docker",
	},
	"full": {
		Name:       "full",
		Image:      "grobid/grobid:0.8.1-full",
		APIPort:    8070,
		GPUCapable: true,
		Template:   "docker",
	},
	"mentions": {
		Name:       "mentions",
		Image:      "grobid/software-mentions:0.8.1",
		APIPort:    8060,
		GPUCapable: true,
		Template:   "docker",
	},
}

// aliases maps legacy names onto their canonical entries.
//
// Deprecated: "software-mentions" is kept for callers that predate the
// shorter "mentions" name. Use "mentions" instead.
var aliases = map[string]string{
	"software-mentions": "mentions",
}

// Resolve returns the preset for name. Matching is case-sensitive and
// exact; legacy aliases resolve to their canonical entry.
func Resolve(name string) (Config, error) {
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	cfg, ok := presets[name]
	if !ok {
		return Config{}, &UnknownConfigError{Name: name}
	}
	return cfg, nil
}

// Names returns the canonical preset names, sorted. Aliases are excluded.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
