package sigcheck

// Version constants
const (
	// Version is the module version
	Version = "1.0.0"
)
