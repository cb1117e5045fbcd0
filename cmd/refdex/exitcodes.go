package main

// Exit codes by error class.
const (
	ExitSuccess     = 0 // Success, including a cancelled rebuild
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration or consistency error (missing pdf dir, index not built)
	ExitLookupError = 3 // Lookup error (filename/tag not found, ambiguous match)
)
