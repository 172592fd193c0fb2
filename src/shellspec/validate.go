package shellspec

import "fmt"

// Validate checks the spec for contradictory or unbuildable option
// combinations on its host. The returned error explains the first problem
// found; nil means the combination is considered well-tested.
func (s Spec) Validate() error {
	if s.Debug && s.DisableDebug {
		return fmt.Errorf("a debug, non-debug build would be contradictory")
	}
	if s.Optimize && s.DisableOpt {
		return fmt.Errorf("an optimized, non-optimized build would be contradictory")
	}
	if !s.Debug && s.DisableOpt {
		return fmt.Errorf("a non-debug, non-optimized build would be pointless")
	}

	if s.Bits32 {
		switch {
		case s.Host.OS == "darwin":
			return fmt.Errorf("32-bit macOS binaries are no longer shipped")
		case s.Host.Arch == "arm64":
			return fmt.Errorf("arm64 hosts cannot compile 32-bit binaries reliably")
		}
	}

	if s.RunWithVg && !s.Valgrind {
		return fmt.Errorf("--run-with-valgrind needs --enable-valgrind")
	}

	if s.ASan {
		if s.Bits32 && s.Host.OS == "windows" {
			return fmt.Errorf("ASan is not supported in 32-bit Windows builds")
		}
		if s.Bits32 {
			return fmt.Errorf("32-bit ASan builds are known-broken")
		}
		if s.Valgrind {
			return fmt.Errorf("ASan and valgrind instrumentation are mutually exclusive")
		}
	}

	if s.SimulatorArm32 || s.SimulatorArm64 {
		if s.Host.OS == "windows" {
			return fmt.Errorf("ARM simulator builds are not exercised on Windows")
		}
		if s.Host.OS == "linux" && s.Host.Arch == "arm64" {
			return fmt.Errorf("ARM simulator builds are not exercised on arm64 Linux")
		}
		if s.SimulatorArm32 && !s.Bits32 {
			return fmt.Errorf("the 32-bit ARM simulator is only for 32-bit binaries")
		}
		if s.SimulatorArm64 && s.Bits32 {
			return fmt.Errorf("the 64-bit ARM simulator is only for 64-bit binaries")
		}
	}

	return nil
}
