package bal

// File is the root of a parsed BAL source file: the entity declarations
// in declaration order, plus at most one pipeline expression. Pipeline is
// nil for an entity-only file. When a file contains more than one
// pipeline statement, the last one wins.
type File struct {
	Entities []*EntityDecl
	Pipeline Expr
}

// EntityDecl is a single `name { ... }` declaration. Unknown config keys
// and known keys with the wrong value type are ignored rather than
// rejected, so partially written declarations still parse.
type EntityDecl struct {
	Name      string
	Goal      string
	Model     string
	Tools     []string
	Output    *OutputSchema
	History   int
	MaxTokens int
	Trigger   any // string, map[string]any, or nil
	Pos       int
}

// OutputSchema describes the structured output an entity must produce.
type OutputSchema struct {
	Fields []OutputField
}

// OutputField is a single named field of an output schema.
type OutputField struct {
	Name string
	Type TypeSpec
}

// TypeKind enumerates the primitive type specs an output field may carry.
type TypeKind int

const (
	TypeString TypeKind = iota
	TypeNumber
	TypeBoolean
	TypeArray
	TypeObject
)

// TypeSpec is a field type, optionally marked as optional. An optional
// type serializes with a trailing '?'.
type TypeSpec struct {
	Kind     TypeKind
	Optional bool
}

// Canonical returns the canonical string form of the type spec.
func (t TypeSpec) Canonical() string {
	var s string
	switch t.Kind {
	case TypeString:
		s = "string"
	case TypeNumber:
		s = "number"
	case TypeBoolean:
		s = "boolean"
	case TypeArray:
		s = "array"
	case TypeObject:
		s = "object"
	}
	if t.Optional {
		return s + "?"
	}
	return s
}

// ParseTypeSpec maps a DSL type string to a TypeSpec. Unrecognized type
// names resolve to string (soft fallback, never an error).
func ParseTypeSpec(s string) TypeSpec {
	spec := TypeSpec{}
	if len(s) > 0 && s[len(s)-1] == '?' {
		spec.Optional = true
		s = s[:len(s)-1]
	}
	switch s {
	case "number":
		spec.Kind = TypeNumber
	case "boolean":
		spec.Kind = TypeBoolean
	case "array":
		spec.Kind = TypeArray
	case "object":
		spec.Kind = TypeObject
	default:
		spec.Kind = TypeString
	}
	return spec
}

// Expr is a pipeline expression: a chain, a parallel fan-out, a
// conditional, or a bare entity reference. The type is sealed so that
// traversals can switch exhaustively.
type Expr interface {
	exprNode()
}

// ChainExpr runs its body expressions in strict sequence.
type ChainExpr struct {
	Body []Expr
}

// ParallelExpr runs labeled branches concurrently. Branch labels and
// targets are carried directly on the AST so the compiler never has to
// re-scan raw source text.
type ParallelExpr struct {
	Branches []ParallelBranch
}

// ParallelBranch is one labeled branch of a parallel block.
type ParallelBranch struct {
	Label  string
	Target Expr
}

// WhenExpr routes to Pass or Fail depending on the outcome of the
// condition entity.
type WhenExpr struct {
	Condition string
	Pass      Expr
	Fail      Expr
}

// EntityRef references a declared entity by name.
type EntityRef struct {
	Name string
}

func (*ChainExpr) exprNode()    {}
func (*ParallelExpr) exprNode() {}
func (*WhenExpr) exprNode()     {}
func (*EntityRef) exprNode()    {}
