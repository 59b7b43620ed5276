// Package version records the launcher's own version.
package version

// Current is overridable at build time:
//
//	go build -ldflags "-X LitSift/internal/version.Current=1.1.0"
var Current = "1.0.0"
