package typechecker

import (
	"strings"
	"testing"

	"github.com/dimenus/Odin/internal/config"
	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/frontend/parser"
	"github.com/dimenus/Odin/internal/semantics/symbols"
	"github.com/dimenus/Odin/internal/semantics/table"
)

// fixture is one checked package.
type fixture struct {
	t       *testing.T
	checker *Checker
	scope   *table.Scope
	diag    *diagnostics.DiagnosticBag
}

// declare parses src as a package and enters its declarations without
// checking them.
func declare(t *testing.T, src string) *fixture {
	t.Helper()
	diag := diagnostics.NewDiagnosticBag()
	m := parser.ParseSource("test.odin", src, diag)
	if diag.HasErrors() {
		t.Fatalf("parse errors: %v", diag.Messages())
	}
	c := New(Config{Options: config.Default()}, diag)
	scope := c.NewPackageScope("main")
	for _, d := range m.Decls {
		c.Declare(scope, d)
	}
	return &fixture{t: t, checker: c, scope: scope, diag: diag}
}

// check declares and fully checks src.
func check(t *testing.T, src string) *fixture {
	t.Helper()
	f := declare(t, src)
	f.checker.CheckPackage(f.scope)
	return f
}

func (f *fixture) entity(name string) *symbols.Entity {
	f.t.Helper()
	e, ok := f.scope.LookupCurrent(name)
	if !ok {
		f.t.Fatalf("%s is not declared", name)
	}
	return e
}

// expr checks src as an expression in the fixture's package scope.
func (f *fixture) expr(src string) Operand {
	f.t.Helper()
	pdiag := diagnostics.NewDiagnosticBag()
	e := parser.ParseExpr("expr.odin", src, pdiag)
	if pdiag.HasErrors() {
		f.t.Fatalf("parse errors in %q: %v", src, pdiag.Messages())
	}
	return f.checker.CheckExpr(NewEnv(f.scope), e, nil)
}

// wantMessages compares diagnostics against expected "code: message"
// prefixes, in order.
func (f *fixture) wantMessages(want ...string) {
	f.t.Helper()
	got := f.diag.Messages()
	if len(got) != len(want) {
		f.t.Fatalf("got %d diagnostics %q, want %d %q", len(got), got, len(want), want)
	}
	for i := range want {
		if !strings.HasPrefix(got[i], want[i]) {
			f.t.Errorf("diagnostic %d = %q, want prefix %q", i, got[i], want[i])
		}
	}
}
