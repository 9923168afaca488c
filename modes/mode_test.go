package modes

import (
	"testing"

	"github.com/reusee/dscope"
)

func TestModeString(t *testing.T) {
	for mode, want := range map[Mode]string{
		ModeProduction:  "production",
		ModeDevelopment: "development",
		0:               "unknown",
	} {
		if got := mode.String(); got != want {
			t.Fatalf("got %s", got)
		}
	}
}

func TestForProduction(t *testing.T) {
	dscope.New(ForProduction()).Call(func(
		scopeT *testing.T,
		mode Mode,
	) {
		if mode != ModeProduction {
			t.Fatalf("got %v", mode)
		}
		if scopeT != nil {
			t.Fatal("no test outside tests")
		}
	})
}

func TestForTest(t *testing.T) {
	dscope.New(ForTest(t)).Call(func(
		scopeT *testing.T,
		mode Mode,
	) {
		if mode != ModeDevelopment {
			t.Fatalf("got %v", mode)
		}
		if scopeT != t {
			t.Fatal("should carry the running test")
		}
	})
}
