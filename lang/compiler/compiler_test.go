package compiler

import (
	"bytes"
	"testing"

	"github.com/mna/tamarin/lang/parser"
	"github.com/mna/tamarin/lang/rt"
	"github.com/stretchr/testify/require"
)

// compileAndRun parses src, compiles it, and runs it on a fresh VM,
// returning the process result and whatever `print` wrote.
func compileAndRun(t *testing.T, src string) (int32, string) {
	t.Helper()
	var out bytes.Buffer
	vm := rt.New(&out)
	installPrint(vm)

	chunk, err := parser.ParseString("t", src)
	require.NoError(t, err)
	fc, err := Compile(vm, "t", chunk)
	require.NoError(t, err)
	result, err := vm.Run(fc)
	require.NoError(t, err)
	return result, out.String()
}

// installPrint wires a minimal `print` global, standing in for the
// natives package (spec.md §6 "Native-function ABI"): join args with a
// space and a trailing newline, mirroring Go's fmt.Println.
func installPrint(vm *rt.VM) {
	nf := vm.Alloc.NewNativeFunction("print", func(vm *rt.VM, args []rt.Value) (rt.Value, error) {
		for i, a := range args {
			if i > 0 {
				vm.Out.Write([]byte(" "))
			}
			vm.Out.Write([]byte(a.String()))
		}
		vm.Out.Write([]byte("\n"))
		return rt.Null, nil
	})
	vm.Globals.Put("print", rt.ObjectOf(&nf.ObjectHeader))
}

func TestCompileArithmeticTopLevelReturn(t *testing.T) {
	result, _ := compileAndRun(t, `
let x = 1 + 2
return x * 3
`)
	require.EqualValues(t, 9, result)
}

func TestCompileIntFloatPromotion(t *testing.T) {
	result, out := compileAndRun(t, `
let x = 1 + 2.5
print(x)
return 0
`)
	require.EqualValues(t, 0, result)
	require.Equal(t, "3.5\n", out)
}

func TestCompileStringConcat(t *testing.T) {
	_, out := compileAndRun(t, `
let a = "foo"
let b = "bar"
print(a + b)
return 0
`)
	require.Equal(t, "foobar\n", out)
}

func TestCompileIfElseChain(t *testing.T) {
	_, out := compileAndRun(t, `
def classify(n) {
  if n < 0 {
    print("neg")
  } else if n == 0 {
    print("zero")
  } else {
    print("pos")
  }
  return 0
}
classify(0 - 1)
classify(0)
classify(1)
return 0
`)
	require.Equal(t, "neg\nzero\npos\n", out)
}

func TestCompileWhileLoop(t *testing.T) {
	_, out := compileAndRun(t, `
let i = 0
while i < 3 {
  print(i)
  i = i + 1
}
return 0
`)
	require.Equal(t, "0\n1\n2\n", out)
}

func TestCompileForLoop(t *testing.T) {
	_, out := compileAndRun(t, `
for (let i = 0; i < 3; i = i + 1) {
  print(i)
}
return 0
`)
	require.Equal(t, "0\n1\n2\n", out)
}

func TestCompileClosureCounter(t *testing.T) {
	_, out := compileAndRun(t, `
def makeCounter() {
  let count = 0
  def increment() {
    count = count + 1
    return count
  }
  return increment
}
let c = makeCounter()
print(c())
print(c())
print(c())
return 0
`)
	require.Equal(t, "1\n2\n3\n", out)
}

// TestCompileClosureOverForLoopVariable documents the language's actual
// capture semantics: a C-style for loop's init clause introduces a single
// local for the whole statement (spec.md §4.2 "For: new scope; init; ...";
// there is no per-iteration re-declaration), so closures created across
// iterations all share one upvalue and observe whatever value it holds by
// the time they are called.
func TestCompileClosureOverForLoopVariable(t *testing.T) {
	_, out := compileAndRun(t, `
def makeAdders() {
  let fns = null
  let count = 0
  for (let i = 0; i < 3; i = i + 1) {
    def addI() {
      return i
    }
    if count == 2 {
      fns = addI
    }
    count = count + 1
  }
  return fns
}
let f = makeAdders()
print(f())
return 0
`)
	require.Equal(t, "3\n", out)
}

func TestCompileManualDecorator(t *testing.T) {
	_, out := compileAndRun(t, `
def double(fn) {
  def wrapper(x) {
    return fn(x) * 2
  }
  return wrapper
}

@double
def addOne(x) {
  return x + 1
}

print(addOne(5))
return 0
`)
	require.Equal(t, "12\n", out)
}

func TestCompileStackedDecoratorsInnerFirst(t *testing.T) {
	_, out := compileAndRun(t, `
def tag(name) {
  def deco(fn) {
    def wrapper(x) {
      print(name)
      return fn(x)
    }
    return wrapper
  }
  return deco
}

@tag("outer")
@tag("inner")
def identity(x) {
  return x
}

identity(0)
return 0
`)
	require.Equal(t, "outer\ninner\n", out)
}

func TestCompileClassInheritanceSuperAndConstructor(t *testing.T) {
	_, out := compileAndRun(t, `
class Animal {
  def init(this, name) {
    this.name = name
  }
  def speak(this) {
    print("...")
  }
}

class Dog(Animal) {
  def init(this, name) {
    super.init(name)
  }
  def speak(this) {
    super.speak()
    print(this.name)
    print("woof")
  }
}

let d = Dog("Rex")
d.speak()
return 0
`)
	require.Equal(t, "...\nRex\nwoof\n", out)
}

func TestCompileMethodDecorator(t *testing.T) {
	_, out := compileAndRun(t, `
def loud(fn) {
  def wrapper(this) {
    print("calling")
    return fn(this)
  }
  return wrapper
}

class Greeter {
  @loud
  def greet(this) {
    print("hi")
  }
}

let g = Greeter()
g.greet()
return 0
`)
	require.Equal(t, "calling\nhi\n", out)
}

func TestCompileGCStressProducesSameResult(t *testing.T) {
	src := `
class Node {
  def init(this, v) {
    this.v = v
    this.next = null
  }
}
def sum(n) {
  if n == null {
    return 0
  }
  return n.v + sum(n.next)
}
let a = Node(1)
let b = Node(2)
let c = Node(3)
a.next = b
b.next = c
return sum(a)
`
	var out bytes.Buffer
	vm := rt.New(&out)
	installPrint(vm)
	chunk, err := parser.ParseString("t", src)
	require.NoError(t, err)
	fc, err := Compile(vm, "t", chunk)
	require.NoError(t, err)
	vm.Alloc.Stress = true
	result, err := vm.Run(fc)
	require.NoError(t, err)
	require.EqualValues(t, 6, result)
}

func TestCompileUseBeforeInitIsCompileError(t *testing.T) {
	chunk, err := parser.ParseString("t", `
def f() {
  let x = x
  return 0
}
return 0
`)
	require.NoError(t, err)
	vm := rt.New(&bytes.Buffer{})
	_, err = Compile(vm, "t", chunk)
	require.Error(t, err)
}

func TestCompileSelfInheritingClassIsCompileError(t *testing.T) {
	chunk, err := parser.ParseString("t", `
class Loop(Loop) {
}
return 0
`)
	require.NoError(t, err)
	vm := rt.New(&bytes.Buffer{})
	_, err = Compile(vm, "t", chunk)
	require.Error(t, err)
}

func TestCompileArityErrorAtRuntime(t *testing.T) {
	src := `
def add(a, b) {
  return a + b
}
add(1)
return 0
`
	var out bytes.Buffer
	vm := rt.New(&out)
	installPrint(vm)
	chunk, err := parser.ParseString("t", src)
	require.NoError(t, err)
	fc, err := Compile(vm, "t", chunk)
	require.NoError(t, err)
	_, err = vm.Run(fc)
	require.Error(t, err)
	rerr, ok := err.(*rt.RuntimeError)
	require.True(t, ok)
	require.Equal(t, rt.KindArityError, rerr.Kind)
}

func TestCompileDumpRoundTrip(t *testing.T) {
	var out bytes.Buffer
	vm := rt.New(&bytes.Buffer{})
	chunk, err := parser.ParseString("t", `
def add(a, b) {
  return a + b
}
return add(1, 2)
`)
	require.NoError(t, err)
	fc, err := Compile(vm, "t", chunk)
	require.NoError(t, err)
	rt.Dump(&out, fc, "t")
	require.Contains(t, out.String(), "=== Chunk <top> from t")
	require.Contains(t, out.String(), "CloseFunction")
}
