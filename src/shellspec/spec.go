// Package shellspec models a JS shell build configuration: the free-form
// flag string handed to the verification step, plus the recognized flags
// that drive variant naming and validity checks.
package shellspec

import (
	"runtime"
	"strings"
)

// Host identifies the platform a shell is built on. Separate from
// runtime.GOOS/GOARCH so validation rules are testable cross-platform.
type Host struct {
	OS   string // "linux", "darwin", "windows"
	Arch string // "amd64", "arm64", "386"
}

// CurrentHost returns the host descriptor for the running process.
func CurrentHost() Host {
	return Host{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

// Spec is an immutable build configuration descriptor.
//
// Raw holds the exact flag string supplied by the caller and is forwarded
// unchanged to every verification attempt. The parsed fields exist only for
// naming, validation, and randomization; unrecognized flags pass through
// in Raw without error.
type Spec struct {
	Raw  string
	Host Host

	Debug          bool // --enable-debug
	DisableDebug   bool // --disable-debug
	Optimize       bool // --enable-optimize
	DisableOpt     bool // --disable-optimize
	Bits32         bool // --32
	DisableProf    bool // --disable-profiling
	ASan           bool // --enable-address-sanitizer
	Valgrind       bool // --enable-valgrind
	RunWithVg      bool // --run-with-valgrind
	OOMBreakpoint  bool // --enable-oom-breakpoint
	WithoutIntl    bool // --without-intl-api
	SimulatorArm32 bool // --enable-simulator=arm
	SimulatorArm64 bool // --enable-simulator=arm64
}

// Parse builds a Spec from a free-form flag string for the current host.
func Parse(raw string) Spec {
	return ParseFor(raw, CurrentHost())
}

// ParseFor builds a Spec from a free-form flag string for an explicit host.
func ParseFor(raw string, host Host) Spec {
	s := Spec{Raw: raw, Host: host}
	for _, tok := range strings.Fields(raw) {
		switch tok {
		case "--enable-debug":
			s.Debug = true
		case "--disable-debug":
			s.DisableDebug = true
		case "--enable-optimize":
			s.Optimize = true
		case "--disable-optimize":
			s.DisableOpt = true
		case "--32":
			s.Bits32 = true
		case "--disable-profiling":
			s.DisableProf = true
		case "--enable-address-sanitizer":
			s.ASan = true
		case "--enable-valgrind":
			s.Valgrind = true
		case "--run-with-valgrind":
			s.RunWithVg = true
		case "--enable-oom-breakpoint":
			s.OOMBreakpoint = true
		case "--without-intl-api":
			s.WithoutIntl = true
		case "--enable-simulator=arm":
			s.SimulatorArm32 = true
		case "--enable-simulator=arm64":
			s.SimulatorArm64 = true
		}
	}
	return s
}
