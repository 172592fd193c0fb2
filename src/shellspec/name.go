package shellspec

import "strings"

// Variant returns the canonical shell variant name encoding the build
// options and host, e.g. "js-dbg-64-asan-linux-amd64". Artifact and cache
// entry names are derived from it, so it must stay stable across releases.
func (s Spec) Variant() string {
	parts := []string{"js"}
	if s.Debug {
		parts = append(parts, "dbg")
	}
	if s.DisableOpt {
		parts = append(parts, "optDisabled")
	}
	if s.Bits32 {
		parts = append(parts, "32")
	} else {
		parts = append(parts, "64")
	}
	if s.DisableProf {
		parts = append(parts, "profDisabled")
	}
	if s.ASan {
		parts = append(parts, "asan")
	}
	if s.Valgrind {
		parts = append(parts, "vg")
	}
	if s.OOMBreakpoint {
		parts = append(parts, "oombp")
	}
	if s.WithoutIntl {
		parts = append(parts, "intlDisabled")
	}
	if s.SimulatorArm32 {
		parts = append(parts, "armsim32")
	}
	if s.SimulatorArm64 {
		parts = append(parts, "armsim64")
	}
	parts = append(parts, strings.ToLower(s.Host.OS), strings.ToLower(s.Host.Arch))
	return strings.Join(parts, "-")
}

// Name returns the variant name suffixed with the source revision.
func (s Spec) Name(rev string) string {
	if rev == "" {
		return s.Variant()
	}
	return s.Variant() + "-" + rev
}
