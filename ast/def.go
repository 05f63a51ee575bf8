package ast

// Enumeration of type labels that can be written in a function signature.
const (
	TypeInt = iota // i64
	TypeBool
	TypeVoid
)

// TypeLabelRepr returns the source spelling of a type label.
func TypeLabelRepr(label int) string {
	return [...]string{"int", "bool", "void"}[label]
}

// Param is a function parameter.
type Param struct {
	Name string
	Type int
}

// FuncDef is a function definition.
type FuncDef struct {
	Name    string
	Params  []Param
	RetType int
	Body    *Block
}

// Program is a whole translation unit: the functions are lowered into one
// module.
type Program struct {
	Name  string
	Funcs []*FuncDef
}
