package shellspec

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var linux64 = Host{OS: "linux", Arch: "amd64"}

func TestParseRecognizedFlags(t *testing.T) {
	s := ParseFor("--enable-debug --32 --enable-address-sanitizer --without-intl-api", linux64)

	assert.True(t, s.Debug)
	assert.True(t, s.Bits32)
	assert.True(t, s.ASan)
	assert.True(t, s.WithoutIntl)
	assert.False(t, s.Valgrind)
}

func TestParseKeepsRawUnchanged(t *testing.T) {
	raw := "--enable-debug   --some-future-flag=7 --32"
	s := ParseFor(raw, linux64)

	// The raw string is the contract with the verification step; parsing
	// must never rewrite it, even for unknown flags.
	assert.Equal(t, raw, s.Raw)
	assert.True(t, s.Debug)
	assert.True(t, s.Bits32)
}

func TestVariantNaming(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		host Host
		want string
	}{
		{"default", "", linux64, "js-64-linux-amd64"},
		{"debug", "--enable-debug", linux64, "js-dbg-64-linux-amd64"},
		{"debug 32-bit", "--enable-debug --32", linux64, "js-dbg-32-linux-amd64"},
		{"asan", "--enable-address-sanitizer", linux64, "js-64-asan-linux-amd64"},
		{
			"kitchen sink",
			"--enable-debug --disable-optimize --disable-profiling --enable-valgrind --enable-oom-breakpoint --without-intl-api",
			linux64,
			"js-dbg-optDisabled-64-profDisabled-vg-oombp-intlDisabled-linux-amd64",
		},
		{"arm64 sim", "--enable-simulator=arm64", linux64, "js-64-armsim64-linux-amd64"},
		{"arm32 sim", "--32 --enable-simulator=arm", linux64, "js-32-armsim32-linux-amd64"},
		{"macos", "--enable-debug", Host{OS: "darwin", Arch: "arm64"}, "js-dbg-64-darwin-arm64"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFor(tt.raw, tt.host).Variant())
		})
	}
}

func TestName(t *testing.T) {
	s := ParseFor("--enable-debug", linux64)
	assert.Equal(t, "js-dbg-64-linux-amd64-deadbeef1234", s.Name("deadbeef1234"))
	assert.Equal(t, "js-dbg-64-linux-amd64", s.Name(""))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		host    Host
		wantErr bool
	}{
		{"plain debug", "--enable-debug", linux64, false},
		{"debug and non-debug", "--enable-debug --disable-debug", linux64, true},
		{"opt and non-opt", "--enable-optimize --disable-optimize", linux64, true},
		{"non-debug non-opt", "--disable-optimize", linux64, true},
		{"debug non-opt ok", "--enable-debug --disable-optimize", linux64, false},
		{"32-bit on macOS", "--32", Host{OS: "darwin", Arch: "amd64"}, true},
		{"32-bit on arm64", "--32", Host{OS: "linux", Arch: "arm64"}, true},
		{"run-with-vg without vg", "--run-with-valgrind", linux64, true},
		{"vg with run-with-vg", "--enable-valgrind --run-with-valgrind", linux64, false},
		{"32-bit asan", "--32 --enable-address-sanitizer", linux64, true},
		{"asan plus valgrind", "--enable-address-sanitizer --enable-valgrind", linux64, true},
		{"sim on windows", "--enable-simulator=arm64", Host{OS: "windows", Arch: "amd64"}, true},
		{"arm32 sim needs 32-bit", "--enable-simulator=arm", linux64, true},
		{"arm64 sim is 64-bit only", "--32 --enable-simulator=arm64", linux64, true},
		{"arm64 sim ok", "--enable-simulator=arm64", linux64, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseFor(tt.raw, tt.host).Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRandomAlwaysValid(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		s := RandomFor(r, linux64)
		require.NoError(t, s.Validate(), "random spec %q must validate", s.Raw)
	}
}
