// export_test.go exposes the private error formatting helpers for white-box
// assertions from the _test package.
package logger

var (
	CollectErrorEntries = collectErrorEntries
	FormatErrorEntries  = formatErrorEntries
)
