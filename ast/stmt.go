package ast

// Stmt represents a statement.
type Stmt interface {
	stmt()
}

// Let declares a local variable.  Immutable locals are plain SSA values;
// mutable ones live in a stack slot.
type Let struct {
	Name    string
	Mutable bool
	Init    Expr
}

// Assign stores a new value into a mutable local.
type Assign struct {
	Name  string
	Value Expr
}

// ExprStmt evaluates an expression for its effects.
type ExprStmt struct {
	X Expr
}

// While is a condition-tested loop: the condition is evaluated before every
// iteration, including the first.
type While struct {
	Cond Expr
	Body *Block
}

// DoWhile runs its body once and then repeats while the condition holds.
type DoWhile struct {
	Body *Block
	Cond Expr
}

// Loop repeats its body until a `break` targeting it is executed.
type Loop struct {
	Body *Block

	// HasBreak is set by the checker if any `break` targets this loop.  A
	// loop without one never completes.
	HasBreak bool
}

// Break exits the innermost enclosing `loop`, from any nesting depth.
type Break struct{}

// Return returns from the enclosing function.  Value is nil in a void
// function.
type Return struct {
	Value Expr
}

// Abort traps unconditionally.
type Abort struct{}

func (*Let) stmt()      {}
func (*Assign) stmt()   {}
func (*ExprStmt) stmt() {}
func (*While) stmt()    {}
func (*DoWhile) stmt()  {}
func (*Loop) stmt()     {}
func (*Break) stmt()    {}
func (*Return) stmt()   {}
func (*Abort) stmt()    {}

// Diverges reports whether control never reaches the statement following s.
// It is only meaningful once the checker has annotated the tree.
func Diverges(s Stmt) bool {
	switch v := s.(type) {
	case *Break, *Return, *Abort:
		return true
	case *Loop:
		return !v.HasBreak
	case *ExprStmt:
		return v.X.Type().IsNever()
	}

	return false
}
