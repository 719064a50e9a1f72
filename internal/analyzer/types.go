package analyzer

// FunctionKind distinguishes how a function was declared.
type FunctionKind string

const (
	// FunctionKindFunction covers declarations and function expressions.
	FunctionKindFunction FunctionKind = "function"
	// FunctionKindArrow covers arrow functions in any position.
	FunctionKindArrow FunctionKind = "arrow"
)

// MethodKind distinguishes class member categories.
type MethodKind string

const (
	MethodKindMethod MethodKind = "method"
	MethodKindGetter MethodKind = "get"
	MethodKindSetter MethodKind = "set"
)

// ImportKind tags each specifier of an import declaration.
type ImportKind string

const (
	ImportKindDefault    ImportKind = "default"
	ImportKindNamed      ImportKind = "named"
	ImportKindNamespace  ImportKind = "namespace"
	ImportKindSideEffect ImportKind = "side-effect"
)

// ExportKind tags an export declaration.
type ExportKind string

const (
	ExportKindNamed   ExportKind = "named"
	ExportKindDefault ExportKind = "default"
	ExportKindAll     ExportKind = "all"
)

// ComplexityLevel buckets a file's weighted complexity score.
type ComplexityLevel string

const (
	ComplexitySimple  ComplexityLevel = "simple"
	ComplexityMedium  ComplexityLevel = "medium"
	ComplexityComplex ComplexityLevel = "complex"
)

// Function is one discovered function: a declaration, an expression bound to
// a variable or property, or an arrow function. Anonymous functions get a
// variable-derived or synthetic name.
type Function struct {
	Name      string       `json:"name"`
	Params    []string     `json:"params"`
	Async     bool         `json:"async"`
	Generator bool         `json:"generator"`
	Kind      FunctionKind `json:"type"`
}

// Method is one normalized class member. Getters, setters, plain methods and
// arrow-function class fields all share this shape.
type Method struct {
	Name      string     `json:"name"`
	Static    bool       `json:"static"`
	Async     bool       `json:"async"`
	Generator bool       `json:"generator"`
	Kind      MethodKind `json:"kind"`
}

// Class is one discovered class with its members.
type Class struct {
	Name    string   `json:"name"`
	Methods []Method `json:"methods"`
}

// ImportSpecifier is one imported binding within an import declaration.
// For named imports with an alias, Name is the exported name in the source
// module and Alias is the local binding.
type ImportSpecifier struct {
	Kind  ImportKind `json:"kind"`
	Name  string     `json:"name,omitempty"`
	Alias string     `json:"alias,omitempty"`
}

// Import is one import declaration. A side-effect-only import has a single
// specifier with ImportKindSideEffect and no name.
type Import struct {
	Source     string            `json:"source"`
	Specifiers []ImportSpecifier `json:"specifiers"`
}

// Export is one exported binding. Re-exports carry the module they re-export
// from in Source. Aliased exports keep the local binding in LocalName.
type Export struct {
	Name      string     `json:"name"`
	Kind      ExportKind `json:"type"`
	Source    string     `json:"source,omitempty"`
	LocalName string     `json:"localName,omitempty"`
}

// Metrics holds line-derived measurements for a file. Every field is defined
// for any input, including empty content.
type Metrics struct {
	TotalLines           int     `json:"totalLines"`
	CodeLines            int     `json:"codeLines"`
	CommentLines         int     `json:"commentLines"`
	BlankLines           int     `json:"blankLines"`
	CommentRatio         float64 `json:"commentRatio"`
	MaintainabilityIndex float64 `json:"maintainabilityIndex"`
}

// ParseResult is the full set of facts extracted from one source file.
// It is owned by the caller and never mutated after Parse returns.
type ParseResult struct {
	Language             string          `json:"language"`
	Functions            []Function      `json:"functions"`
	Classes              []Class         `json:"classes"`
	Variables            []string        `json:"variables"`
	Imports              []Import        `json:"imports"`
	Exports              []Export        `json:"exports"`
	CyclomaticComplexity int             `json:"cyclomaticComplexity"`
	Metrics              Metrics         `json:"metrics"`
	Complexity           ComplexityLevel `json:"complexity"`
}

// newParseResult returns a ParseResult with all collections initialized so
// downstream consumers never see nil slices.
func newParseResult(language string) *ParseResult {
	return &ParseResult{
		Language:             language,
		Functions:            []Function{},
		Classes:              []Class{},
		Variables:            []string{},
		Imports:              []Import{},
		Exports:              []Export{},
		CyclomaticComplexity: 1,
	}
}
