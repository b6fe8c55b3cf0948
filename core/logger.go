package core

// Logger is any service that can log messages with optional structured args.
// An args entry may be a user.User; implementations use it to attach the
// acting user to the report.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
