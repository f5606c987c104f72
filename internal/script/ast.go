package script

import (
	"time"

	"github.com/keymapd/keymapd/internal/device"
)

// Expr is the sealed expression variant spec.md §4.6 enumerates. The
// parser producing this AST is out of scope (spec.md §1); these types
// are the contract it must target.
type Expr interface {
	isExpr()
}

type EqExpr struct{ Left, Right Expr }

func (EqExpr) isExpr() {}

// InitExpr evaluates Value and binds Name in the innermost scope.
type InitExpr struct {
	Name  string
	Value Expr
}

func (InitExpr) isExpr() {}

// AssignExpr evaluates Value and overwrites the nearest existing
// binding of Name in the scope chain.
type AssignExpr struct {
	Name  string
	Value Expr
}

func (AssignExpr) isExpr() {}

// NameExpr looks up Name in the scope chain.
type NameExpr struct{ Name string }

func (NameExpr) isExpr() {}

type BoolExpr struct{ Value bool }

func (BoolExpr) isExpr() {}

type StringExpr struct{ Value string }

func (StringExpr) isExpr() {}

// LambdaExpr captures the current scope by reference at evaluation time.
type LambdaExpr struct{ Body *Block }

func (LambdaExpr) isExpr() {}

// KeyActionExpr emits a single event plus sync marker.
type KeyActionExpr struct{ Event device.Event }

func (KeyActionExpr) isExpr() {}

// SleepActionExpr suspends the evaluating task for Duration.
type SleepActionExpr struct{ Duration time.Duration }

func (SleepActionExpr) isExpr() {}

// EatKeyActionExpr posts an EatEvent control message (spec.md §4.5;
// may currently be a no-op downstream — see spec.md §9).
type EatKeyActionExpr struct{ Event device.Event }

func (EatKeyActionExpr) isExpr() {}

// DeclaredMapping is one from/to pair inside a KeyMapping expression.
type DeclaredMapping struct {
	From FromMapping
	To   ToMapping
}

// FromMapping and ToMapping are opaque payloads carried by a
// KeyMappingExpr; internal/engine knows how to compile them (via
// internal/compile) into table edits. Kept as interface{} here so the
// script package does not need to import the mapping/compile packages,
// which would otherwise create an import cycle through
// internal/engine.
type FromMapping = any
type ToMapping = any

// KeyMappingExpr declares one or more mappings, each posted as an
// AddMapping control message tagged with the evaluator's current cycle
// token.
type KeyMappingExpr struct{ Mappings []DeclaredMapping }

func (KeyMappingExpr) isExpr() {}

// FunctionCallExpr is the closed set of built-ins: active_window_class,
// on_window_change, print, copy_to_clipboard. Any other name evaluates
// to Void.
type FunctionCallExpr struct {
	Name string
	Args []Expr
}

func (FunctionCallExpr) isExpr() {}

// Stmt is the sealed statement variant.
type Stmt interface {
	isStmt()
}

type ExprStmt struct{ Expr Expr }

func (ExprStmt) isStmt() {}

// BlockStmt opens a fresh child scope for Body.
type BlockStmt struct{ Body *Block }

func (BlockStmt) isStmt() {}

// IfStmt enters Body iff Cond evaluates to Bool(true); any other
// result (including Void or Bool(false)) skips it.
type IfStmt struct {
	Cond Expr
	Body *Block
}

func (IfStmt) isStmt() {}

// Block is an ordered list of statements sharing one child scope.
type Block struct {
	Statements []Stmt
}
