// Package plugins holds the built-in plugins. Each subpackage registers
// itself under config.DefaultEntryPoint from its init function.
package plugins

import (
	"puzzle/internal/version"
	"puzzle/plugin"
)

// Dist returns the distribution metadata of a built-in plugin living at
// the given import path
func Dist(location string) plugin.Distribution {
	return plugin.Distribution{
		Name:     version.Name,
		Version:  version.Version,
		Location: location,
	}
}
