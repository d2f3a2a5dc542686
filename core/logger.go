package core

// Logger is any service that can log leveled messages.
// args may carry errors or map[string]interface{} context.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}
