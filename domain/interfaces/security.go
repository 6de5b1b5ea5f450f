package interfaces

// Redactor keeps secret values out of every log sink
type Redactor interface {
	// Protect registers a value that must never be rendered
	Protect(secret string)

	// IsSensitiveName reports whether a field name suggests secret input
	IsSensitiveName(name string) bool
}
