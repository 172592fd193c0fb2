package shellspec

import (
	"math/rand"
	"strings"
)

// weightedFlag pairs a build flag with the probability it is switched on
// when generating a random configuration.
type weightedFlag struct {
	flag   string
	weight float64
}

// Weights mirror how often each option is worth exercising in a fuzzing
// matrix; rarely-useful options get low weights.
var randomFlags = []weightedFlag{
	{"--32", 0.5},
	{"--enable-debug", 0.5},
	{"--disable-optimize", 0.1},
	{"--disable-profiling", 0.5},
	{"--enable-address-sanitizer", 0.3},
	{"--enable-valgrind", 0.2},
	{"--enable-simulator=arm", 0.3},
	{"--enable-simulator=arm64", 0.3},
}

// Random generates a valid random Spec for the current host, retrying
// until the sampled combination passes Validate.
func Random(r *rand.Rand) Spec {
	return RandomFor(r, CurrentHost())
}

// RandomFor generates a valid random Spec for an explicit host.
func RandomFor(r *rand.Rand, host Host) Spec {
	for {
		var flags []string
		for _, wf := range randomFlags {
			if r.Float64() < wf.weight {
				flags = append(flags, wf.flag)
			}
		}
		// Valgrind-instrumented shells almost always also run under valgrind.
		if contains(flags, "--enable-valgrind") && r.Float64() < 0.95 {
			flags = append(flags, "--run-with-valgrind")
		}
		s := ParseFor(strings.Join(flags, " "), host)
		if s.Validate() == nil {
			return s
		}
	}
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}
