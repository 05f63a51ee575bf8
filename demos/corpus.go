// Package demos holds the built-in program corpus lowered by the kiln CLI.
// Every function exercises one or more of the control-flow lowerings, and
// every case records the result the lowered function must evaluate to.
package demos

import "kiln/ast"

// Case is a single evaluation of a corpus function.
type Case struct {
	Func string
	Args []int64

	// Want is the expected result.  Booleans evaluate to 0 or 1.
	Want int64

	// Trap indicates the evaluation is expected to hit `abort`.
	Trap bool
}

// Program returns a freshly built copy of the corpus.  Checking annotates the
// tree so callers that lower it more than once must build it again.
func Program() *ast.Program {
	return &ast.Program{
		Name: "demos",
		Funcs: []*ast.FuncDef{
			maxOf(),
			sumTo(),
			collatzSteps(),
			firstMultiple(),
			clampPositive(),
			checkedDiv(),
			sign(),
			absOrBail(),
			countdownDo(),
			inRange(),
			gcd(),
			searchGrid(),
		},
	}
}

// Cases lists the expected results of the corpus.
var Cases = []Case{
	{Func: "max", Args: []int64{3, 9}, Want: 9},
	{Func: "max", Args: []int64{-2, -7}, Want: -2},
	{Func: "sum_to", Args: []int64{10}, Want: 55},
	{Func: "sum_to", Args: []int64{0}, Want: 0},
	{Func: "collatz_steps", Args: []int64{6}, Want: 8},
	{Func: "collatz_steps", Args: []int64{1}, Want: 0},
	{Func: "first_multiple", Args: []int64{7, 30}, Want: 35},
	{Func: "first_multiple", Args: []int64{5, 5}, Want: 5},
	{Func: "clamp_positive", Args: []int64{-4}, Want: 0},
	{Func: "clamp_positive", Args: []int64{12}, Want: 12},
	{Func: "checked_div", Args: []int64{17, 5}, Want: 3},
	{Func: "checked_div", Args: []int64{1, 0}, Trap: true},
	{Func: "sign", Args: []int64{-8}, Want: -1},
	{Func: "sign", Args: []int64{0}, Want: 0},
	{Func: "sign", Args: []int64{42}, Want: 1},
	{Func: "abs_or_bail", Args: []int64{-6}, Want: 6},
	{Func: "abs_or_bail", Args: []int64{6}, Want: 6},
	{Func: "abs_or_bail", Args: []int64{1000}, Want: -1},
	{Func: "countdown_do", Args: []int64{4}, Want: 4},
	{Func: "countdown_do", Args: []int64{0}, Want: 1},
	{Func: "in_range", Args: []int64{5, 1, 10}, Want: 1},
	{Func: "in_range", Args: []int64{11, 1, 10}, Want: 0},
	{Func: "in_range", Args: []int64{0, 1, 10}, Want: 0},
	{Func: "gcd", Args: []int64{84, 36}, Want: 12},
	{Func: "gcd", Args: []int64{9, 0}, Want: 9},
	{Func: "search_grid", Args: []int64{12}, Want: 26},
	{Func: "search_grid", Args: []int64{100}, Want: -1},
}

// -----------------------------------------------------------------------------

func param(name string, typ int) ast.Param {
	return ast.Param{Name: name, Type: typ}
}

func mut(name string, init ast.Expr) *ast.Let {
	return &ast.Let{Name: name, Mutable: true, Init: init}
}

func let(name string, init ast.Expr) *ast.Let {
	return &ast.Let{Name: name, Init: init}
}

func set(name string, x ast.Expr) *ast.Assign {
	return &ast.Assign{Name: name, Value: x}
}

func ret(x ast.Expr) *ast.Return {
	return &ast.Return{Value: x}
}

// max(a, b) = if a > b { a } else { b }
func maxOf() *ast.FuncDef {
	return ast.Func("max", ast.TypeInt,
		ast.Yield(ast.IfElse(ast.Bin(ast.OpGt, ast.Var("a"), ast.Var("b")), ast.Yield(ast.Var("a")), ast.Yield(ast.Var("b")))),
		param("a", ast.TypeInt), param("b", ast.TypeInt),
	)
}

// sum_to(n) adds up 1..n with a while loop
func sumTo() *ast.FuncDef {
	return ast.Func("sum_to", ast.TypeInt,
		ast.Yield(ast.Var("acc"),
			mut("acc", ast.Int(0)),
			mut("i", ast.Int(1)),
			&ast.While{
				Cond: ast.Bin(ast.OpLe, ast.Var("i"), ast.Var("n")),
				Body: ast.Do(
					set("acc", ast.Bin(ast.OpAdd, ast.Var("acc"), ast.Var("i"))),
					set("i", ast.Bin(ast.OpAdd, ast.Var("i"), ast.Int(1))),
				),
			},
		),
		param("n", ast.TypeInt),
	)
}

// collatz_steps(n) counts the steps of the Collatz sequence down to 1
func collatzSteps() *ast.FuncDef {
	return ast.Func("collatz_steps", ast.TypeInt,
		ast.Yield(ast.Var("steps"),
			mut("x", ast.Var("n")),
			mut("steps", ast.Int(0)),
			&ast.While{
				Cond: ast.Bin(ast.OpNe, ast.Var("x"), ast.Int(1)),
				Body: ast.Do(
					set("x", ast.IfElse(
						ast.Bin(ast.OpEq, ast.Bin(ast.OpMod, ast.Var("x"), ast.Int(2)), ast.Int(0)),
						ast.Yield(ast.Bin(ast.OpDiv, ast.Var("x"), ast.Int(2))),
						ast.Yield(ast.Bin(ast.OpAdd, ast.Bin(ast.OpMul, ast.Var("x"), ast.Int(3)), ast.Int(1))),
					)),
					set("steps", ast.Bin(ast.OpAdd, ast.Var("steps"), ast.Int(1))),
				),
			},
		),
		param("n", ast.TypeInt),
	)
}

// first_multiple(k, floor) finds the first multiple of k at or above floor.
// The `break` sits inside an if inside the loop.
func firstMultiple() *ast.FuncDef {
	return ast.Func("first_multiple", ast.TypeInt,
		ast.Yield(ast.Var("m"),
			mut("m", ast.Var("k")),
			&ast.Loop{Body: ast.Do(
				ast.Eval(ast.If(ast.Bin(ast.OpGe, ast.Var("m"), ast.Var("floor")), ast.Do(&ast.Break{}))),
				set("m", ast.Bin(ast.OpAdd, ast.Var("m"), ast.Var("k"))),
			)},
		),
		param("k", ast.TypeInt), param("floor", ast.TypeInt),
	)
}

// clamp_positive(x) returns early for negative inputs
func clampPositive() *ast.FuncDef {
	return ast.Func("clamp_positive", ast.TypeInt,
		ast.Yield(ast.Var("x"),
			ast.Eval(ast.If(ast.Bin(ast.OpLt, ast.Var("x"), ast.Int(0)), ast.Do(ret(ast.Int(0))))),
		),
		param("x", ast.TypeInt),
	)
}

// checked_div(a, b) aborts on a zero divisor
func checkedDiv() *ast.FuncDef {
	return ast.Func("checked_div", ast.TypeInt,
		ast.Yield(ast.Bin(ast.OpDiv, ast.Var("a"), ast.Var("b")),
			ast.Eval(ast.If(ast.Bin(ast.OpEq, ast.Var("b"), ast.Int(0)), ast.Do(&ast.Abort{}))),
		),
		param("a", ast.TypeInt), param("b", ast.TypeInt),
	)
}

// sign(x) is a chain of else-ifs yielding a value
func sign() *ast.FuncDef {
	return ast.Func("sign", ast.TypeInt,
		ast.Yield(ast.IfElse(
			ast.Bin(ast.OpLt, ast.Var("x"), ast.Int(0)),
			ast.Yield(ast.Int(-1)),
			ast.Yield(ast.IfElse(ast.Bin(ast.OpEq, ast.Var("x"), ast.Int(0)), ast.Yield(ast.Int(0)), ast.Yield(ast.Int(1)))),
		)),
		param("x", ast.TypeInt),
	)
}

// abs_or_bail(x) has an arm that diverges through return while the other
// yields a value, and a one-armed if whose body returns after other work
func absOrBail() *ast.FuncDef {
	return ast.Func("abs_or_bail", ast.TypeInt,
		ast.Yield(
			ast.IfElse(
				ast.Bin(ast.OpGt, ast.Var("x"), ast.Int(999)),
				ast.Do(ret(ast.Int(-1))),
				ast.Yield(ast.Var("y")),
			),
			let("y", ast.IfElse(ast.Bin(ast.OpLt, ast.Var("x"), ast.Int(0)), ast.Yield(ast.Neg(ast.Var("x"))), ast.Yield(ast.Var("x")))),
			ast.Eval(ast.If(ast.Bin(ast.OpEq, ast.Var("y"), ast.Int(0)), ast.Do(
				let("z", ast.Bin(ast.OpAdd, ast.Var("y"), ast.Int(0))),
				ret(ast.Var("z")),
			))),
		),
		param("x", ast.TypeInt),
	)
}

// countdown_do(n) counts iterations of a do-while, which runs at least once
func countdownDo() *ast.FuncDef {
	return ast.Func("countdown_do", ast.TypeInt,
		ast.Yield(ast.Var("count"),
			mut("i", ast.Var("n")),
			mut("count", ast.Int(0)),
			&ast.DoWhile{
				Body: ast.Do(
					set("count", ast.Bin(ast.OpAdd, ast.Var("count"), ast.Int(1))),
					set("i", ast.Bin(ast.OpSub, ast.Var("i"), ast.Int(1))),
				),
				Cond: ast.Bin(ast.OpGt, ast.Var("i"), ast.Int(0)),
			},
		),
		param("n", ast.TypeInt),
	)
}

// in_range(x, lo, hi) short-circuits both comparisons
func inRange() *ast.FuncDef {
	return ast.Func("in_range", ast.TypeBool,
		ast.Yield(ast.Bin(ast.OpAnd,
			ast.Bin(ast.OpGe, ast.Var("x"), ast.Var("lo")),
			ast.Not(ast.Bin(ast.OpOr, ast.Bin(ast.OpGt, ast.Var("x"), ast.Var("hi")), ast.Bool(false))),
		)),
		param("x", ast.TypeInt), param("lo", ast.TypeInt), param("hi", ast.TypeInt),
	)
}

// gcd(a, b) uses a loop that only leaves through return
func gcd() *ast.FuncDef {
	return ast.Func("gcd", ast.TypeInt,
		ast.Do(
			mut("x", ast.Var("a")),
			mut("y", ast.Var("b")),
			&ast.Loop{Body: ast.Do(
				ast.Eval(ast.If(ast.Bin(ast.OpEq, ast.Var("y"), ast.Int(0)), ast.Do(ret(ast.Var("x"))))),
				let("t", ast.Bin(ast.OpMod, ast.Var("x"), ast.Var("y"))),
				set("x", ast.Var("y")),
				set("y", ast.Var("t")),
			)},
		),
		param("a", ast.TypeInt), param("b", ast.TypeInt),
	)
}

// search_grid(target) looks for the first (i, j) in a 10x10 grid with
// i * j == target and returns i * 10 + j.  The `break` inside the inner while
// leaves the outer loop.
func searchGrid() *ast.FuncDef {
	return ast.Func("search_grid", ast.TypeInt,
		ast.Yield(ast.Var("found"),
			mut("found", ast.Int(-1)),
			mut("i", ast.Int(1)),
			&ast.Loop{Body: ast.Do(
				ast.Eval(ast.If(ast.Bin(ast.OpGe, ast.Var("i"), ast.Int(10)), ast.Do(&ast.Break{}))),
				mut("j", ast.Int(1)),
				&ast.While{
					Cond: ast.Bin(ast.OpLt, ast.Var("j"), ast.Int(10)),
					Body: ast.Do(
						ast.Eval(ast.If(ast.Bin(ast.OpEq, ast.Bin(ast.OpMul, ast.Var("i"), ast.Var("j")), ast.Var("target")), ast.Do(
							set("found", ast.Bin(ast.OpAdd, ast.Bin(ast.OpMul, ast.Var("i"), ast.Int(10)), ast.Var("j"))),
							&ast.Break{},
						))),
						set("j", ast.Bin(ast.OpAdd, ast.Var("j"), ast.Int(1))),
					),
				},
				set("i", ast.Bin(ast.OpAdd, ast.Var("i"), ast.Int(1))),
			)},
		),
		param("target", ast.TypeInt),
	)
}
