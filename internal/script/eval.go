package script

import (
	"context"
	"fmt"
	"time"

	"github.com/keymapd/keymapd/internal/device"
)

// Ambient is everything evalExpr needs from the outside world: the
// engine's emitter, its control plane, and the current cycle token.
// Grounded on scope.rs's Ambient struct (ev_writer_tx, message_tx,
// window_cycle_token); internal/engine implements this by wrapping
// its own emitter and control channel.
type Ambient interface {
	// EmitKey sends ev plus a sync marker through the output emitter.
	EmitKey(ctx context.Context, ev device.Event) error
	// PostEatEvent posts an EatEvent control message for ev.
	PostEatEvent(ctx context.Context, ev device.Event) error
	// PostMapping posts an AddMapping control message tagged with the
	// evaluator's current cycle token.
	PostMapping(ctx context.Context, from FromMapping, to ToMapping) error
	// ActiveWindowClass asks the focused-window oracle for the
	// current window's class, returning ok=false if unknown.
	ActiveWindowClass(ctx context.Context) (class string, ok bool, err error)
	// RegisterWindowChange registers body/captured for re-evaluation
	// on every future focus change.
	RegisterWindowChange(body *Block, captured *Scope)
	// Print writes s to the host log.
	Print(s string)
	// CopyToClipboard writes s to the system clipboard.
	CopyToClipboard(s string) error
	// CycleToken returns the generation this evaluator run belongs to.
	CycleToken() uint64
}

// Evaluator walks the AST against a given Ambient.
type Evaluator struct {
	Ambient Ambient
}

// NewEvaluator returns an Evaluator bound to amb.
func NewEvaluator(amb Ambient) *Evaluator {
	return &Evaluator{Ambient: amb}
}

// result pairs a Value with whether the expression actually produced
// one (ok=false is spec.md's Void).
type result struct {
	value Value
	ok    bool
}

func voidResult() result         { return result{} }
func valueResult(v Value) result { return result{value: v, ok: true} }

// EvalExpr evaluates expr in scope and returns its result or an error.
// Suspending expressions (SleepAction, a FunctionCall that awaits the
// focus oracle, EmitKey under backpressure) block this goroutine only
// — Go's own scheduler supplies the cooperative concurrency spec.md §5
// asks for, so every other script task and the engine's own loop
// proceed independently.
func (e *Evaluator) EvalExpr(ctx context.Context, expr Expr, scope *Scope) (result, error) {
	switch ex := expr.(type) {
	case EqExpr:
		left, err := e.EvalExpr(ctx, ex.Left, scope)
		if err != nil {
			return result{}, err
		}
		right, err := e.EvalExpr(ctx, ex.Right, scope)
		if err != nil {
			return result{}, err
		}
		if !left.ok || !right.ok {
			return valueResult(BoolValue(false)), nil
		}
		return valueResult(BoolValue(left.value.Eq(right.value))), nil

	case InitExpr:
		v, err := e.EvalExpr(ctx, ex.Value, scope)
		if err != nil {
			return result{}, err
		}
		if !v.ok {
			return result{}, fmt.Errorf("init %q: %w: expression produced no value", ex.Name, ErrTypeMismatch)
		}
		scope.Init(ex.Name, v.value)
		return voidResult(), nil

	case AssignExpr:
		v, err := e.EvalExpr(ctx, ex.Value, scope)
		if err != nil {
			return result{}, err
		}
		if !v.ok {
			return result{}, fmt.Errorf("assign %q: %w: expression produced no value", ex.Name, ErrTypeMismatch)
		}
		if err := scope.Assign(ex.Name, v.value); err != nil {
			return result{}, err
		}
		return voidResult(), nil

	case NameExpr:
		v, ok := scope.Lookup(ex.Name)
		if !ok {
			return voidResult(), nil
		}
		return valueResult(v), nil

	case BoolExpr:
		return valueResult(BoolValue(ex.Value)), nil

	case StringExpr:
		return valueResult(StringValue(ex.Value)), nil

	case LambdaExpr:
		return valueResult(LambdaValue(ex.Body, scope)), nil

	case KeyActionExpr:
		if err := e.Ambient.EmitKey(ctx, ex.Event); err != nil {
			return result{}, err
		}
		return voidResult(), nil

	case EatKeyActionExpr:
		if err := e.Ambient.PostEatEvent(ctx, ex.Event); err != nil {
			return result{}, err
		}
		return voidResult(), nil

	case SleepActionExpr:
		select {
		case <-time.After(ex.Duration):
		case <-ctx.Done():
			return result{}, ctx.Err()
		}
		return voidResult(), nil

	case KeyMappingExpr:
		for _, m := range ex.Mappings {
			if err := e.Ambient.PostMapping(ctx, m.From, m.To); err != nil {
				return result{}, err
			}
		}
		return voidResult(), nil

	case FunctionCallExpr:
		return e.evalCall(ctx, ex, scope)

	default:
		return result{}, fmt.Errorf("unhandled expression type %T", expr)
	}
}

func (e *Evaluator) evalCall(ctx context.Context, call FunctionCallExpr, scope *Scope) (result, error) {
	switch call.Name {
	case "active_window_class":
		class, ok, err := e.Ambient.ActiveWindowClass(ctx)
		if err != nil {
			return result{}, err
		}
		if !ok {
			return voidResult(), nil
		}
		return valueResult(StringValue(class)), nil

	case "on_window_change":
		if len(call.Args) != 1 {
			return result{}, fmt.Errorf("on_window_change: %w: expected 1 argument, got %d", ErrTypeMismatch, len(call.Args))
		}
		v, err := e.EvalExpr(ctx, call.Args[0], scope)
		if err != nil {
			return result{}, err
		}
		if !v.ok || v.value.Kind != KindLambda {
			return result{}, fmt.Errorf("on_window_change: %w: argument must be a lambda", ErrTypeMismatch)
		}
		e.Ambient.RegisterWindowChange(v.value.LambdaBody, v.value.LambdaCaptured)
		return voidResult(), nil

	case "print":
		if len(call.Args) != 1 {
			return voidResult(), nil
		}
		v, err := e.EvalExpr(ctx, call.Args[0], scope)
		if err != nil {
			return result{}, err
		}
		if v.ok {
			e.Ambient.Print(v.value.String())
		} else {
			e.Ambient.Print("Void")
		}
		return voidResult(), nil

	case "copy_to_clipboard":
		if len(call.Args) != 1 {
			return result{}, fmt.Errorf("copy_to_clipboard: %w: expected 1 argument, got %d", ErrTypeMismatch, len(call.Args))
		}
		v, err := e.EvalExpr(ctx, call.Args[0], scope)
		if err != nil {
			return result{}, err
		}
		if !v.ok || v.value.Kind != KindString {
			return result{}, fmt.Errorf("copy_to_clipboard: %w: argument must be a string", ErrTypeMismatch)
		}
		if err := e.Ambient.CopyToClipboard(v.value.Str); err != nil {
			return result{}, err
		}
		return voidResult(), nil

	default:
		return voidResult(), nil
	}
}

// EvalBlock opens a fresh child scope of parent and executes block's
// statements in order.
func (e *Evaluator) EvalBlock(ctx context.Context, block *Block, parent *Scope) error {
	scope := NewScope(parent)
	for _, stmt := range block.Statements {
		if err := e.evalStmt(ctx, stmt, scope); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) evalStmt(ctx context.Context, stmt Stmt, scope *Scope) error {
	switch st := stmt.(type) {
	case ExprStmt:
		_, err := e.EvalExpr(ctx, st.Expr, scope)
		return err
	case BlockStmt:
		return e.EvalBlock(ctx, st.Body, scope)
	case IfStmt:
		cond, err := e.EvalExpr(ctx, st.Cond, scope)
		if err != nil {
			return err
		}
		if cond.ok && cond.value.Kind == KindBool && cond.value.Bool {
			return e.EvalBlock(ctx, st.Body, scope)
		}
		return nil
	default:
		return fmt.Errorf("unhandled statement type %T", stmt)
	}
}

// RunLambda evaluates a previously captured lambda's body against its
// captured scope, extending that chain rather than the caller's — the
// scope discipline spec.md §4.6 mandates.
func (e *Evaluator) RunLambda(ctx context.Context, v Value) error {
	if v.Kind != KindLambda {
		return fmt.Errorf("run lambda: %w", ErrTypeMismatch)
	}
	return e.EvalBlock(ctx, v.LambdaBody, v.LambdaCaptured)
}
