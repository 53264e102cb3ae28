package entities

// Exports for white-box testing.
var (
	ResolveToken     = resolveToken
	ValidateSettings = validate
)
