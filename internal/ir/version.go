package ir

// Version constants for the IR schema and the compiler.
const (
	// IRVersion is the IR schema version.
	IRVersion = "1"

	// CompilerVersion is the diwire compiler version.
	CompilerVersion = "0.1.0"
)
