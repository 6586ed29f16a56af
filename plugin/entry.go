package plugin

import "fmt"

// EntryKind tells how an entry resolves to a plugin
type EntryKind int

const (
	// KindFactory entries are resolved by calling their factory
	KindFactory EntryKind = iota
	// KindModule entries refer to a bare module and cannot be resolved
	KindModule
)

// String returns the kind name
func (k EntryKind) String() string {
	switch k {
	case KindFactory:
		return "factory"
	case KindModule:
		return "module"
	default:
		return fmt.Sprintf("EntryKind(%d)", int(k))
	}
}

// Factory creates a new plugin instance
type Factory func() (Plugin, error)

// Distribution describes the package that advertises an entry.
// It is only used for logging.
type Distribution struct {
	Name     string
	Version  string
	Location string
}

// Entry is a plugin registration under an extension point
type Entry struct {
	// ID is the plugin identifier checked against the enable list
	ID string

	// Kind selects between Factory and Module
	Kind EntryKind

	// Factory builds the plugin for KindFactory entries
	Factory Factory

	// Module names the referenced module for KindModule entries
	Module string

	// Dist is the owning distribution
	Dist Distribution
}

// FactoryEntry creates an entry resolved by calling factory
func FactoryEntry(id string, dist Distribution, factory Factory) Entry {
	return Entry{ID: id, Kind: KindFactory, Factory: factory, Dist: dist}
}

// ModuleEntry creates an entry that refers to a module
func ModuleEntry(id string, dist Distribution, module string) Entry {
	return Entry{ID: id, Kind: KindModule, Module: module, Dist: dist}
}

// Info returns a human readable description used in log messages
func (e Entry) Info() string {
	return fmt.Sprintf("%s %s (%q, %s)", e.Dist.Name, e.Dist.Version, e.ID, e.Dist.Location)
}
