package script

import (
	"context"
	"testing"
	"time"

	"github.com/keymapd/keymapd/internal/device"
)

type fakeAmbient struct {
	emitted      []device.Event
	mappings     []DeclaredMapping
	registered   []*Block
	printed      []string
	clipboard    []string
	windowClass  string
	windowKnown  bool
	cycleToken   uint64
	emitErr      error
	clipboardErr error
}

func (f *fakeAmbient) EmitKey(ctx context.Context, ev device.Event) error {
	if f.emitErr != nil {
		return f.emitErr
	}
	f.emitted = append(f.emitted, ev)
	return nil
}

func (f *fakeAmbient) PostEatEvent(ctx context.Context, ev device.Event) error { return nil }

func (f *fakeAmbient) PostMapping(ctx context.Context, from FromMapping, to ToMapping) error {
	f.mappings = append(f.mappings, DeclaredMapping{From: from, To: to})
	return nil
}

func (f *fakeAmbient) ActiveWindowClass(ctx context.Context) (string, bool, error) {
	return f.windowClass, f.windowKnown, nil
}

func (f *fakeAmbient) RegisterWindowChange(body *Block, captured *Scope) {
	f.registered = append(f.registered, body)
}

func (f *fakeAmbient) Print(s string) { f.printed = append(f.printed, s) }

func (f *fakeAmbient) CopyToClipboard(s string) error {
	if f.clipboardErr != nil {
		return f.clipboardErr
	}
	f.clipboard = append(f.clipboard, s)
	return nil
}

func (f *fakeAmbient) CycleToken() uint64 { return f.cycleToken }

func TestEqMixedVariantIsFalse(t *testing.T) {
	amb := &fakeAmbient{}
	ev := NewEvaluator(amb)
	scope := NewScope(nil)

	res, err := ev.EvalExpr(context.Background(), EqExpr{
		Left:  BoolExpr{Value: true},
		Right: StringExpr{Value: "true"},
	}, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.ok || res.value.Bool != false {
		t.Fatalf("expected false for mixed-variant Eq, got %+v", res)
	}
}

func TestInitRejectsVoid(t *testing.T) {
	amb := &fakeAmbient{}
	ev := NewEvaluator(amb)
	scope := NewScope(nil)

	_, err := ev.EvalExpr(context.Background(), InitExpr{
		Name:  "x",
		Value: NameExpr{Name: "undefined"},
	}, scope)
	if err == nil {
		t.Fatal("expected error initializing from a Void expression")
	}
}

func TestAssignUnknownNamePropagatesError(t *testing.T) {
	amb := &fakeAmbient{}
	ev := NewEvaluator(amb)
	scope := NewScope(nil)

	_, err := ev.EvalExpr(context.Background(), AssignExpr{
		Name:  "missing",
		Value: BoolExpr{Value: true},
	}, scope)
	if err == nil {
		t.Fatal("expected ErrUnknownName to propagate")
	}
}

func TestIfStmtSkipsOnVoidOrFalse(t *testing.T) {
	amb := &fakeAmbient{}
	ev := NewEvaluator(amb)

	block := &Block{Statements: []Stmt{
		IfStmt{Cond: NameExpr{Name: "undefined"}, Body: &Block{Statements: []Stmt{
			ExprStmt{Expr: KeyActionExpr{Event: device.KeyEvent(30, 1)}},
		}}},
		IfStmt{Cond: BoolExpr{Value: false}, Body: &Block{Statements: []Stmt{
			ExprStmt{Expr: KeyActionExpr{Event: device.KeyEvent(31, 1)}},
		}}},
		IfStmt{Cond: BoolExpr{Value: true}, Body: &Block{Statements: []Stmt{
			ExprStmt{Expr: KeyActionExpr{Event: device.KeyEvent(32, 1)}},
		}}},
	}}

	if err := ev.EvalBlock(context.Background(), block, NewScope(nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(amb.emitted) != 1 || amb.emitted[0].Key != 32 {
		t.Fatalf("expected only the true branch's key emitted, got %+v", amb.emitted)
	}
}

func TestLambdaCapturesDefiningScopeNotCallerScope(t *testing.T) {
	amb := &fakeAmbient{}
	ev := NewEvaluator(amb)

	outer := NewScope(nil)
	outer.Init("greeting", StringValue("hello"))

	lambdaBlock := &Block{Statements: []Stmt{
		ExprStmt{Expr: FunctionCallExpr{Name: "print", Args: []Expr{NameExpr{Name: "greeting"}}}},
	}}
	res, err := ev.EvalExpr(context.Background(), LambdaExpr{Body: lambdaBlock}, outer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lambda := res.value

	// A separate caller scope binds "greeting" to a different value.
	// RunLambda evaluates against the lambda's captured scope only, so
	// the lambda must still see the scope it closed over, not that one.
	caller := NewScope(nil)
	caller.Init("greeting", StringValue("wrong"))
	if err := ev.RunLambda(context.Background(), lambda); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(amb.printed) != 1 || amb.printed[0] != "hello" {
		t.Fatalf("expected lambda to print captured value %q, got %+v", "hello", amb.printed)
	}
}

func TestOnWindowChangeRejectsNonLambda(t *testing.T) {
	amb := &fakeAmbient{}
	ev := NewEvaluator(amb)
	scope := NewScope(nil)

	_, err := ev.EvalExpr(context.Background(), FunctionCallExpr{
		Name: "on_window_change",
		Args: []Expr{BoolExpr{Value: true}},
	}, scope)
	if err == nil {
		t.Fatal("expected type mismatch for non-lambda argument")
	}
}

func TestActiveWindowClassReturnsVoidWhenUnknown(t *testing.T) {
	amb := &fakeAmbient{windowKnown: false}
	ev := NewEvaluator(amb)
	scope := NewScope(nil)

	res, err := ev.EvalExpr(context.Background(), FunctionCallExpr{Name: "active_window_class"}, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ok {
		t.Fatalf("expected Void when window class is unknown, got %+v", res)
	}
}

func TestSleepActionSuspendsThenContinues(t *testing.T) {
	amb := &fakeAmbient{}
	ev := NewEvaluator(amb)
	scope := NewScope(nil)

	start := time.Now()
	_, err := ev.EvalExpr(context.Background(), SleepActionExpr{Duration: 5 * time.Millisecond}, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Fatal("expected SleepAction to actually suspend for its duration")
	}
}

func TestCopyToClipboardRequiresString(t *testing.T) {
	amb := &fakeAmbient{}
	ev := NewEvaluator(amb)
	scope := NewScope(nil)

	_, err := ev.EvalExpr(context.Background(), FunctionCallExpr{
		Name: "copy_to_clipboard",
		Args: []Expr{BoolExpr{Value: true}},
	}, scope)
	if err == nil {
		t.Fatal("expected type mismatch for non-string argument")
	}

	_, err = ev.EvalExpr(context.Background(), FunctionCallExpr{
		Name: "copy_to_clipboard",
		Args: []Expr{StringExpr{Value: "hi"}},
	}, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(amb.clipboard) != 1 || amb.clipboard[0] != "hi" {
		t.Fatalf("expected clipboard write, got %+v", amb.clipboard)
	}
}

func TestKeyMappingPostsEachDeclaredMapping(t *testing.T) {
	amb := &fakeAmbient{}
	ev := NewEvaluator(amb)
	scope := NewScope(nil)

	_, err := ev.EvalExpr(context.Background(), KeyMappingExpr{Mappings: []DeclaredMapping{
		{From: "a", To: "b"},
		{From: "c", To: "d"},
	}}, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(amb.mappings) != 2 {
		t.Fatalf("expected 2 posted mappings, got %d", len(amb.mappings))
	}
}
