package version

// Version is set at build time via -ldflags.
var Version = "0.1.0"

// Name is the distribution name reported for built-in plugins
const Name = "puzzle"
