package natives

import (
	"bytes"
	"testing"

	"github.com/mna/tamarin/lang/compiler"
	"github.com/mna/tamarin/lang/parser"
	"github.com/mna/tamarin/lang/rt"
	"github.com/stretchr/testify/require"
)

// runScript parses, compiles, and runs src on a fresh VM with Install
// applied, returning the process result and whatever print wrote.
func runScript(t *testing.T, src string) (int32, string) {
	t.Helper()
	var out bytes.Buffer
	vm := rt.New(&out)
	Install(vm)

	chunk, err := parser.ParseString("t", src)
	require.NoError(t, err)
	fc, err := compiler.Compile(vm, "t", chunk)
	require.NoError(t, err)
	result, err := vm.Run(fc)
	require.NoError(t, err)
	return result, out.String()
}

func TestInstallRegistersClockPrintAbs(t *testing.T) {
	names := []string{"clock", "print", "abs"}

	fresh := rt.New(nil)
	for _, name := range names {
		require.False(t, fresh.Globals.Has(name), "unexpected global %q before Install", name)
	}

	vm := rt.New(nil)
	Install(vm)
	for _, name := range names {
		require.True(t, vm.Globals.Has(name), "Install did not register %q", name)
	}
}

func TestPrintJoinsArgsWithSpaceAndNewline(t *testing.T) {
	_, out := runScript(t, `
print(1, "two", 3.5)
return 0
`)
	require.Equal(t, "1 two 3.5\n", out)
}

func TestAbsPreservesIntKind(t *testing.T) {
	result, _ := runScript(t, `
return abs(0 - 7)
`)
	require.EqualValues(t, 7, result)
}

func TestAbsPreservesFloatKind(t *testing.T) {
	_, out := runScript(t, `
print(abs(0.0 - 2.5))
return 0
`)
	require.Equal(t, "2.5\n", out)
}

func TestAbsRejectsNonNumberArgument(t *testing.T) {
	var out bytes.Buffer
	vm := rt.New(&out)
	Install(vm)
	chunk, err := parser.ParseString("t", `return abs("x")`)
	require.NoError(t, err)
	fc, err := compiler.Compile(vm, "t", chunk)
	require.NoError(t, err)
	_, err = vm.Run(fc)
	require.Error(t, err)
}

func TestClockReturnsPositiveFloat(t *testing.T) {
	_, out := runScript(t, `
let now = clock()
print(now > 0.0)
return 0
`)
	require.Equal(t, "true\n", out)
}
