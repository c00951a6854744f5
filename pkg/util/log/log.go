// Package log wraps klog so the rest of the tool logs through one leveled
// logger. Client facing libraries should not log directly.
package log

import (
	"k8s.io/klog"
)

// StderrLog is the logger used across the tool; klog writes to stderr.
var StderrLog = New()

// Log provides leveled logging backed by klog.
type Log struct{}

// New returns a Log instance.
func New() Log {
	return Log{}
}

// Is returns true when the requested verbosity level is enabled.
func (l Log) Is(level int32) bool {
	return bool(klog.V(klog.Level(level)))
}

// V returns a leveled logger; its messages are dropped unless the level is
// enabled.
func (l Log) V(level int32) VLog {
	return VLog{level: klog.Level(level)}
}

// Info logs at the default level.
func (l Log) Info(args ...interface{}) {
	klog.Info(args...)
}

// Infof logs at the default level.
func (l Log) Infof(format string, args ...interface{}) {
	klog.Infof(format, args...)
}

// Warning logs a warning.
func (l Log) Warning(args ...interface{}) {
	klog.Warning(args...)
}

// Warningf logs a warning.
func (l Log) Warningf(format string, args ...interface{}) {
	klog.Warningf(format, args...)
}

// Error logs an error.
func (l Log) Error(args ...interface{}) {
	klog.Error(args...)
}

// Errorf logs an error.
func (l Log) Errorf(format string, args ...interface{}) {
	klog.Errorf(format, args...)
}

// Fatal logs and exits.
func (l Log) Fatal(args ...interface{}) {
	klog.Fatal(args...)
}

// Fatalf logs and exits.
func (l Log) Fatalf(format string, args ...interface{}) {
	klog.Fatalf(format, args...)
}

// VLog is a leveled logger.
type VLog struct {
	level klog.Level
}

// Info logs when the level is enabled.
func (v VLog) Info(args ...interface{}) {
	klog.V(v.level).Info(args...)
}

// Infof logs when the level is enabled.
func (v VLog) Infof(format string, args ...interface{}) {
	klog.V(v.level).Infof(format, args...)
}
