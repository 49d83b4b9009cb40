package ir

import (
	"github.com/lhaig/oxidize/internal/diagnostic"
)

// Expr is the interface for all typed expression nodes.
type Expr interface {
	ExprType() Type
	ExprPos() diagnostic.Pos
	exprNode()
}

// Node carries the static type and position shared by every expression.
type Node struct {
	Type Type
	Pos  diagnostic.Pos
}

func (n *Node) ExprType() Type          { return n.Type }
func (n *Node) ExprPos() diagnostic.Pos { return n.Pos }
func (*Node) exprNode()                 {}

// Var is a local variable. Locals are identified by ID, not by name.
type Var struct {
	ID   int
	Name string
	Type Type
}

// --- Constants and references ---

// ConstKind identifies the literal kind of a Const.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstString
	ConstBool
	ConstNull
	ConstThis
	ConstSuper
)

// Const is a literal, null, this or super.
type Const struct {
	Node
	Kind  ConstKind
	Value string // literal text for Int/Float/String, "true"/"false" for Bool
}

// Local references a local variable.
type Local struct {
	Node
	Var *Var
}

// Ident is an untyped identifier passed through by the typer.
type Ident struct {
	Node
	Name string
}

// TypeExpr references a module type used as a value (static access target).
type TypeExpr struct {
	Node
	Decl Decl
}

// --- Operators ---

// BinOp is a binary operator.
type BinOp int

const (
	OpAdd BinOp = iota
	OpMult
	OpDiv
	OpSub
	OpAssign
	OpEq
	OpNotEq
	OpGt
	OpGte
	OpLt
	OpLte
	OpAnd
	OpOr
	OpXor
	OpBoolAnd
	OpBoolOr
	OpShl
	OpShr
	OpUShr
	OpMod
	OpAssignOp
	OpInterval
	OpArrow
	OpIn
	OpNullCoal
)

var binOpSymbols = map[BinOp]string{
	OpAdd:      "+",
	OpMult:     "*",
	OpDiv:      "/",
	OpSub:      "-",
	OpAssign:   "=",
	OpEq:       "==",
	OpNotEq:    "!=",
	OpGt:       ">",
	OpGte:      ">=",
	OpLt:       "<",
	OpLte:      "<=",
	OpAnd:      "&",
	OpOr:       "|",
	OpXor:      "^",
	OpBoolAnd:  "&&",
	OpBoolOr:   "||",
	OpShl:      "<<",
	OpShr:      ">>",
	OpUShr:     ">>>",
	OpMod:      "%",
	OpAssignOp: "op=",
	OpInterval: "...",
	OpArrow:    "=>",
	OpIn:       "in",
	OpNullCoal: "??",
}

// Symbol returns the source spelling of the operator.
func (op BinOp) Symbol() string {
	return binOpSymbols[op]
}

// ParseBinOp maps a source spelling back to the operator.
func ParseBinOp(symbol string) (BinOp, bool) {
	for op, candidate := range binOpSymbols {
		if candidate == symbol {
			return op, true
		}
	}
	return OpAdd, false
}

// Binop is a binary operation. For OpAssignOp, AssignOp holds the inner operator.
type Binop struct {
	Node
	Op       BinOp
	AssignOp BinOp
	Left     Expr
	Right    Expr
}

// UnOp is a unary operator.
type UnOp int

const (
	OpIncrement UnOp = iota
	OpDecrement
	OpNot
	OpNeg
	OpNegBits
	OpSpread
)

var unOpSymbols = map[UnOp]string{
	OpIncrement: "++",
	OpDecrement: "--",
	OpNot:       "!",
	OpNeg:       "-",
	OpNegBits:   "~",
	OpSpread:    "...",
}

func (op UnOp) Symbol() string {
	return unOpSymbols[op]
}

// ParseUnOp maps a source spelling back to the operator.
func ParseUnOp(symbol string) (UnOp, bool) {
	for op, candidate := range unOpSymbols {
		if candidate == symbol {
			return op, true
		}
	}
	return OpNot, false
}

// Unop is a prefix or postfix unary operation.
type Unop struct {
	Node
	Op      UnOp
	Postfix bool
	Operand Expr
}

// --- Access ---

// AccessKind tells how a field is reached.
type AccessKind int

const (
	AccessInstance AccessKind = iota
	AccessStatic
	AccessAnon
	AccessDynamic
	AccessClosure
	AccessEnum
)

var accessNames = map[AccessKind]string{
	AccessInstance: "instance",
	AccessStatic:   "static",
	AccessAnon:     "anon",
	AccessDynamic:  "dynamic",
	AccessClosure:  "closure",
	AccessEnum:     "enum",
}

func (k AccessKind) String() string {
	return accessNames[k]
}

// ParseAccessKind maps an access name back to the AccessKind.
func ParseAccessKind(name string) (AccessKind, bool) {
	for kind, candidate := range accessNames {
		if candidate == name {
			return kind, true
		}
	}
	return AccessInstance, false
}

// FieldAccess reads a member of Target.
type FieldAccess struct {
	Node
	Target Expr
	Name   string
	Access AccessKind
}

// Index reads Target[Index].
type Index struct {
	Node
	Target Expr
	Index  Expr
}

// Paren is a parenthesized expression.
type Paren struct {
	Node
	Inner Expr
}

// Meta is a metadata-annotated expression.
type Meta struct {
	Node
	Name  string
	Inner Expr
}

// --- Literals ---

// ObjectField is one entry of an object literal.
type ObjectField struct {
	Name  string
	Value Expr
}

// ObjectDecl is an anonymous object literal.
type ObjectDecl struct {
	Node
	Fields []ObjectField
}

// ArrayDecl is an array literal.
type ArrayDecl struct {
	Node
	Elements []Expr
}

// FuncArg is a declared function argument.
type FuncArg struct {
	Var     *Var
	Default Expr
}

// Function is an anonymous function or a method body.
type Function struct {
	Node
	Args []*FuncArg
	Ret  Type
	Body Expr
}

// --- Calls ---

// Call invokes Target with Args.
type Call struct {
	Node
	Target Expr
	Args   []Expr
}

// New constructs a class instance.
type New struct {
	Node
	Class  *ClassDecl
	Params []Type
	Args   []Expr
}

// Cast converts Value. To is nil for an unchecked cast.
type Cast struct {
	Node
	Value Expr
	To    Decl
}

// --- Statements in expression form ---

// VarDecl declares a local.
type VarDecl struct {
	Node
	Var  *Var
	Init Expr
}

// Block is a sequence of expressions.
type Block struct {
	Node
	Exprs []Expr
}

// For iterates Var over Iter.
type For struct {
	Node
	Var  *Var
	Iter Expr
	Body Expr
}

// If is a conditional; Else may be nil.
type If struct {
	Node
	Cond Expr
	Then Expr
	Else Expr
}

// While is a pre-tested loop, or a do-while loop when DoWhile is set.
type While struct {
	Node
	Cond    Expr
	Body    Expr
	DoWhile bool
}

// Case is one switch case; Values holds the alternatives.
type Case struct {
	Values []Expr
	Body   Expr
}

// Switch dispatches on Subject. Default may be nil.
type Switch struct {
	Node
	Subject Expr
	Cases   []*Case
	Default Expr
}

// Catch is one catch clause.
type Catch struct {
	Var  *Var
	Body Expr
}

// Try is a try/catch statement.
type Try struct {
	Node
	Body    Expr
	Catches []*Catch
}

// Return leaves the enclosing function; Value may be nil.
type Return struct {
	Node
	Value Expr
}

// Break leaves the enclosing loop.
type Break struct {
	Node
}

// Continue restarts the enclosing loop.
type Continue struct {
	Node
}

// Throw raises Value.
type Throw struct {
	Node
	Value Expr
}

// EnumParameter extracts the Index-th argument of Ctor from Value.
type EnumParameter struct {
	Node
	Value Expr
	Ctor  *EnumCtor
	Index int
}

// EnumIndex reads the constructor index of an enum value.
type EnumIndex struct {
	Node
	Value Expr
}

// Unwrap strips parentheses and metadata.
func Unwrap(e Expr) Expr {
	for {
		switch actual := e.(type) {
		case *Paren:
			e = actual.Inner
		case *Meta:
			e = actual.Inner
		default:
			return e
		}
	}
}
