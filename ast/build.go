package ast

// The functions below build trees by hand.  They keep programs written in Go
// (the demo corpus, tests) close to how they would read as source.

func Int(x int64) *IntLit    { return &IntLit{Value: x} }
func Bool(x bool) *BoolLit   { return &BoolLit{Value: x} }
func Var(name string) *Ident { return &Ident{Name: name} }
func Neg(x Expr) *UnaryOp    { return &UnaryOp{Op: OpNeg, Operand: x} }
func Not(x Expr) *UnaryOp    { return &UnaryOp{Op: OpNot, Operand: x} }
func Bin(op int, l, r Expr) *BinaryOp {
	return &BinaryOp{Op: op, Lhs: l, Rhs: r}
}

// CallOf builds a call expression.
func CallOf(name string, args ...Expr) *Call {
	return &Call{Func: name, Args: args}
}

// Do builds a block without a result.
func Do(stmts ...Stmt) *Block {
	return &Block{Stmts: stmts}
}

// Yield builds a block whose value is result.
func Yield(result Expr, stmts ...Stmt) *Block {
	return &Block{Stmts: stmts, Result: result}
}

// If builds a one-armed if.
func If(cond Expr, then *Block) *IfExpr {
	return &IfExpr{Cond: cond, Then: then}
}

// IfElse builds a two-armed if.
func IfElse(cond Expr, then, els *Block) *IfExpr {
	return &IfExpr{Cond: cond, Then: then, Else: els}
}

// Eval wraps an expression as a statement.
func Eval(x Expr) *ExprStmt {
	return &ExprStmt{X: x}
}

// Func builds a function definition.
func Func(name string, ret int, body *Block, params ...Param) *FuncDef {
	return &FuncDef{Name: name, Params: params, RetType: ret, Body: body}
}
