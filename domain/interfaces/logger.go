package interfaces

// EntityLogger is the named log sink of one page or element
type EntityLogger interface {
	// Stepf records a test step, the primary trail of what a test did
	Stepf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// LoggerFactory creates entity loggers
type LoggerFactory interface {
	ForEntity(name string) EntityLogger
}
