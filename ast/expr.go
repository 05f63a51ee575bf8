package ast

import "kiln/typing"

// Expr represents an expression simple or complex. All expression nodes
// implement the `Expr` interface.
type Expr interface {
	// Type is the semantic type of the expression.  It is set by the checker
	// and is `never` for expressions that do not complete.
	Type() *typing.Reference

	// SetType sets the type of the expression.
	SetType(*typing.Reference)
}

// ExprBase is the base struct for all expressions.
type ExprBase struct {
	typ *typing.Reference
}

func (eb *ExprBase) Type() *typing.Reference {
	return eb.typ
}

func (eb *ExprBase) SetType(typ *typing.Reference) {
	eb.typ = typ
}

// -----------------------------------------------------------------------------

// IntLit is a 64-bit integer literal.
type IntLit struct {
	ExprBase

	Value int64
}

// BoolLit is a boolean literal.
type BoolLit struct {
	ExprBase

	Value bool
}

// Ident is a reference to a parameter or local variable.
type Ident struct {
	ExprBase

	Name string
}

// Enumeration of operators
const (
	OpAdd = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd // short-circuit
	OpOr  // short-circuit
	OpNeg
	OpNot
)

// OpRepr returns the source spelling of an operator.
func OpRepr(op int) string {
	return [...]string{"+", "-", "*", "/", "%", "==", "!=", "<", "<=", ">", ">=", "&&", "||", "-", "!"}[op]
}

// UnaryOp represents a unary operator application.
type UnaryOp struct {
	ExprBase

	Op      int
	Operand Expr
}

// BinaryOp represents a binary operator application.
type BinaryOp struct {
	ExprBase

	Op       int
	Lhs, Rhs Expr
}

// Call is a direct call to a function of the same program.
type Call struct {
	ExprBase

	Func string
	Args []Expr
}

// IfExpr is an `if` with an optional `else`.  Without an else branch its type
// is void.
type IfExpr struct {
	ExprBase

	Cond Expr
	Then *Block
	Else *Block
}

// Block is a sequence of statements optionally followed by a result
// expression.  A block without a result yields void.
type Block struct {
	ExprBase

	Stmts  []Stmt
	Result Expr
}
