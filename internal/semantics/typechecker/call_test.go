package typechecker

import (
	"testing"

	"github.com/dimenus/Odin/internal/types"
)

const groupSrc = `
to_i32 :: proc(v: i32) -> i32 { return v }
to_f64 :: proc(v: f64) -> f64 { return v }
convert :: proc{to_i32, to_f64}

a := convert(1)
b := convert(1.5)
`

func TestProcGroupPicksClosestMember(t *testing.T) {
	f := check(t, groupSrc)
	f.wantMessages()

	if got := f.entity("a").Type; !types.Identical(got, types.TypeI32) {
		t.Errorf("a has type %v, want i32", got)
	}
	if got := f.entity("b").Type; !types.Identical(got, types.TypeF64) {
		t.Errorf("b has type %v, want f64", got)
	}

	callees := make(map[string]int)
	for _, e := range f.checker.Info().Calls {
		callees[e.Name]++
	}
	if callees["to_i32"] != 1 || callees["to_f64"] != 1 {
		t.Errorf("resolved callees = %v, want one call each", callees)
	}
}

func TestProcGroupErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "no match",
			src:  groupSrc + "c := convert(true)\n",
			want: "T0014: no procedures or ambiguous call for procedure group 'convert'",
		},
		{
			name: "ambiguous",
			src: `
take_i64 :: proc(v: i64) {}
take_i32 :: proc(v: i32) {}
take :: proc{take_i64, take_i32}
run :: proc() {
	take(1)
}
`,
			want: "T0004: ambiguous procedure group call 'take'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check(t, tt.src).wantMessages(tt.want)
		})
	}
}

func TestPolymorphicInstancesAreShared(t *testing.T) {
	f := check(t, `
identity :: proc(v: $T) -> T { return v }

a := identity(1)
b := identity(2)
c := identity(1.5)
`)
	f.wantMessages()

	info := f.checker.Info()
	if n := len(info.Instances); n != 2 {
		t.Fatalf("got %d instances, want 2", n)
	}
	for _, inst := range info.Instances {
		if inst.Template != f.entity("identity") {
			t.Errorf("instance %s does not point back at its template", inst)
		}
	}
	if got := f.entity("a").Type; !types.Identical(got, types.TypeInt) {
		t.Errorf("a has type %v, want int", got)
	}
	if got := f.entity("c").Type; !types.Identical(got, types.TypeF64) {
		t.Errorf("c has type %v, want f64", got)
	}

	perInstance := make(map[int]int)
	for _, e := range info.Calls {
		perInstance[e.ID]++
	}
	if len(perInstance) != 2 {
		t.Errorf("calls resolved to %d distinct instances, want 2", len(perInstance))
	}
}

func TestCallArguments(t *testing.T) {
	const procs = `
add :: proc(a: int, b := 2) -> int { return a + b }
sum :: proc(base: int, rest: ..int) -> int { return base }
`
	tests := []struct {
		name string
		decl string
		want []string
	}{
		{"default used", "x := add(1)\n", nil},
		{"all given", "x := add(1, 3)\n", nil},
		{"named", "x := add(b = 1, a = 2)\n", nil},
		{"variadic", "x := sum(1, 2, 3, 4)\n", nil},
		{"variadic empty", "x := sum(1)\n", nil},
		{"too few", "x := add()\n", []string{"T0005: too few arguments for 'add', expected 2 arguments, got 0"}},
		{"too many", "x := add(1, 2, 3)\n", []string{"T0005: too many arguments for 'add', expected 2 arguments, got 3"}},
		{"unknown name", "x := add(c = 1)\n", []string{"T0008: no parameter named 'c' for 'add'"}},
		{"duplicate name", "x := add(1, a = 2)\n", []string{"T0007: duplicate parameter 'a' in call to 'add'"}},
		{"missing named", "x := add(b = 1)\n", []string{"T0006: parameter 'a' of type 'int' is missing in call to 'add'"}},
		{"wrong type", "x := add(\"no\")\n", []string{"T0002: cannot convert"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := check(t, procs+tt.decl)
			f.wantMessages(tt.want...)
			if len(tt.want) == 0 && !types.Identical(f.entity("x").Type, types.TypeInt) {
				t.Errorf("x has type %v, want int", f.entity("x").Type)
			}
		})
	}
}

func TestReturnArity(t *testing.T) {
	f := check(t, `
two :: proc() -> int {
	return 1, 2
}
none :: proc() -> int {
	return
}
`)
	f.wantMessages(
		"T0005: too many return values, expected 1, got 2",
		"T0005: too few return values, expected 1, got 0",
	)
}

func TestBodiesAreDeferred(t *testing.T) {
	f := declare(t, `
first :: proc() -> int { return second() }
second :: proc() -> int { return 1 }
`)
	env := NewEnv(f.scope)
	f.checker.resolve(env, f.entity("first"))
	if f.checker.queue.Len() != 1 {
		t.Fatalf("queued bodies = %d, want 1", f.checker.queue.Len())
	}
	if f.entity("second").Resolved() {
		t.Errorf("second resolved before any body was checked")
	}
	f.checker.Drain()
	if !f.entity("second").Resolved() {
		t.Errorf("second not resolved by draining first's body")
	}
	f.wantMessages()
}

func TestCommaOkArguments(t *testing.T) {
	const procs = `
V :: union { int, f32 }
m: map[string]int
u: V
take :: proc(a: int, b: bool) -> bool { return b }
one :: proc(a: int) -> bool { return true }
`
	tests := []struct {
		name string
		decl string
		want []string
	}{
		{"map index", "x := take(m[\"a\"])\n", nil},
		{"type assertion", "x := take(u.(int))\n", nil},
		{"single parameter", "x := one(m[\"a\"])\n", nil},
		{"named", "x := take(a = m[\"a\"])\n", []string{"T0006: parameter 'b' of type 'bool' is missing in call to 'take'"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := check(t, procs+tt.decl)
			f.wantMessages(tt.want...)
			if len(tt.want) == 0 && !types.Identical(f.entity("x").Type, types.TypeBool) {
				t.Errorf("x has type %v, want bool", f.entity("x").Type)
			}
		})
	}
}

func TestCommaOkReturn(t *testing.T) {
	f := check(t, `
m: map[string]int
lookup :: proc(key: string) -> (int, bool) {
	return m[key]
}
v, ok := lookup("a")
`)
	f.wantMessages()
	if got := f.entity("ok").Type; !types.Identical(got, types.TypeBool) {
		t.Errorf("ok has type %v, want bool", got)
	}
}

func TestBlankParameters(t *testing.T) {
	const procs = `
pad :: proc(_: int, b: int) -> int { return b }
`
	tests := []struct {
		name string
		decl string
		want []string
	}{
		{"named skips blank", "x := pad(b = 1)\n", nil},
		{"positional", "x := pad(0, 1)\n", nil},
		{"positional too few", "x := pad(1)\n", []string{"T0005: too few arguments for 'pad', expected 2 arguments, got 1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check(t, procs+tt.decl).wantMessages(tt.want...)
		})
	}
}

func TestVariadicCalls(t *testing.T) {
	const procs = `
add :: proc(a: int, b := 2) -> int { return a + b }
sum :: proc(base: int, rest: ..int) -> int { return base }
xs: []int
`
	tests := []struct {
		name string
		decl string
		want []string
	}{
		{"spread", "x := sum(1, ..xs)\n", nil},
		{"spread non-variadic", "x := add(..xs)\n", []string{"T0017: '..' can only be used with variadic procedures, 'add' is not variadic"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check(t, procs+tt.decl).wantMessages(tt.want...)
		})
	}
}

func TestVariadicPenalty(t *testing.T) {
	f := check(t, `
one :: proc(v: int) -> int { return v }
many :: proc(v: ..int) -> int { return 0 }
pick :: proc{one, many}

a := pick(1)
b := pick(1, 2)
`)
	f.wantMessages()

	byArgs := make(map[int]string)
	for call, e := range f.checker.Info().Calls {
		byArgs[len(call.Args)] = e.Name
	}
	if byArgs[1] != "one" {
		t.Errorf("pick(1) resolved to %q, want one", byArgs[1])
	}
	if byArgs[2] != "many" {
		t.Errorf("pick(1, 2) resolved to %q, want many", byArgs[2])
	}
}

func TestAnyIntParameter(t *testing.T) {
	const procs = `
widen :: proc(#any_int v: int) -> int { return v }
plain :: proc(v: int) -> int { return v }
x: i32
`
	tests := []struct {
		name string
		decl string
		want []string
	}{
		{"sized integer", "y := widen(x)\n", nil},
		{"constant", "y := widen(7)\n", nil},
		{"without directive", "y := plain(x)\n", []string{"T0002: cannot convert"}},
		{"string", "y := widen(\"s\")\n", []string{"T0002: cannot convert"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check(t, procs+tt.decl).wantMessages(tt.want...)
		})
	}
}
