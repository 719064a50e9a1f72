package analyzer

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// extractTreeSitter parses content with the grammar for lang and walks the
// tree, filling result. Returns an error only when tree-sitter itself fails;
// the caller falls back to the heuristic extractor in that case.
func extractTreeSitter(result *ParseResult, content []byte, lang string) error {
	grammar, ok := grammarFor(lang)
	if !ok {
		return fmt.Errorf("no grammar for language %q", lang)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return fmt.Errorf("tree-sitter parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return fmt.Errorf("tree-sitter parse: no root node")
	}

	w := &treeWalker{result: result, src: content, claimed: map[span]bool{}}
	w.walk(root)
	return nil
}

// treeWalker accumulates extraction state during a single top-down pass.
// claimed tracks function nodes already recorded under a derived name so the
// generic visit does not double-count them as anonymous. Nodes are keyed by
// byte span, which is unique within one tree.
type treeWalker struct {
	result  *ParseResult
	src     []byte
	claimed map[span]bool
}

type span struct{ start, end uint32 }

func nodeKey(n *sitter.Node) span {
	return span{n.StartByte(), n.EndByte()}
}

func (w *treeWalker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.src)
}

func (w *treeWalker) walk(node *sitter.Node) {
	if node == nil {
		return
	}

	w.countBranch(node)

	switch node.Type() {
	case "function_declaration", "generator_function_declaration":
		w.addFunctionNode(node, w.text(node.ChildByFieldName("name")), FunctionKindFunction)

	case "arrow_function", "function_expression", "function", "generator_function":
		if !w.claimed[nodeKey(node)] {
			w.addFunctionNode(node, "anonymous", functionKindOf(node))
		}

	case "variable_declaration", "lexical_declaration":
		w.visitDeclaration(node)

	case "pair":
		// Object property holding a function: { onClick: () => {...} }.
		if value := node.ChildByFieldName("value"); value != nil && isFunctionNode(value) {
			w.claimed[nodeKey(value)] = true
			w.addFunctionNode(value, propertyName(node.ChildByFieldName("key"), w.src), functionKindOf(value))
		}

	case "assignment_expression":
		// foo.bar = function () {...} and module.exports-style assignments.
		if value := node.ChildByFieldName("right"); value != nil && isFunctionNode(value) {
			w.claimed[nodeKey(value)] = true
			w.addFunctionNode(value, memberName(node.ChildByFieldName("left"), w.src), functionKindOf(value))
		}

	case "class_declaration", "class":
		w.visitClass(node)
		return // visitClass walks the body itself

	case "import_statement":
		w.visitImport(node)
		return

	case "export_statement":
		w.visitExport(node)
		// Fall through to children so exported declarations are extracted too.
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		w.walk(node.Child(i))
	}
}

// countBranch adds cyclomatic complexity for control-flow constructs:
// +1 per if, loop, non-default case label, ternary, and logical operator.
func (w *treeWalker) countBranch(node *sitter.Node) {
	switch node.Type() {
	case "if_statement", "for_statement", "for_in_statement",
		"while_statement", "do_statement",
		"switch_case", "ternary_expression":
		w.result.CyclomaticComplexity++
	case "binary_expression":
		switch w.text(node.ChildByFieldName("operator")) {
		case "&&", "||":
			w.result.CyclomaticComplexity++
		}
	}
}

func isFunctionNode(n *sitter.Node) bool {
	switch n.Type() {
	case "arrow_function", "function_expression", "function", "generator_function":
		return true
	}
	return false
}

func functionKindOf(n *sitter.Node) FunctionKind {
	if n.Type() == "arrow_function" {
		return FunctionKindArrow
	}
	return FunctionKindFunction
}

// addFunctionNode records one function with its params and modifiers.
func (w *treeWalker) addFunctionNode(node *sitter.Node, name string, kind FunctionKind) {
	if name == "" {
		name = "anonymous"
	}
	fn := Function{
		Name:      name,
		Params:    w.paramNames(node.ChildByFieldName("parameters")),
		Async:     hasModifier(node, "async"),
		Generator: nodeIsGenerator(node),
		Kind:      kind,
	}
	if fn.Params == nil {
		fn.Params = []string{}
	}
	// Single-parameter arrows have a bare identifier instead of a list.
	if len(fn.Params) == 0 && kind == FunctionKindArrow {
		if p := node.ChildByFieldName("parameter"); p != nil {
			fn.Params = []string{w.text(p)}
		}
	}
	w.result.Functions = append(w.result.Functions, fn)
}

func nodeIsGenerator(n *sitter.Node) bool {
	switch n.Type() {
	case "generator_function", "generator_function_declaration":
		return true
	}
	return hasModifier(n, "*")
}

// hasModifier reports whether a keyword token ("async", "static", "*", "get",
// "set") appears among a node's direct children before the body.
func hasModifier(n *sitter.Node, keyword string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == keyword {
			return true
		}
	}
	return false
}

// paramNames flattens a formal_parameters node into a name list.
// Destructured parameters contribute each bound name.
func (w *treeWalker) paramNames(params *sitter.Node) []string {
	if params == nil {
		return []string{}
	}
	names := []string{}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		names = append(names, w.bindingNames(params.NamedChild(i))...)
	}
	return names
}

// bindingNames flattens any binding pattern (identifier, object/array
// destructuring, defaults, rest) into the list of names it introduces.
func (w *treeWalker) bindingNames(n *sitter.Node) []string {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern", "shorthand_property_identifier":
		return []string{w.text(n)}
	case "rest_pattern", "rest_parameter":
		var out []string
		for i := 0; i < int(n.NamedChildCount()); i++ {
			out = append(out, w.bindingNames(n.NamedChild(i))...)
		}
		return out
	case "assignment_pattern", "object_assignment_pattern":
		return w.bindingNames(n.ChildByFieldName("left"))
	case "pair_pattern":
		return w.bindingNames(n.ChildByFieldName("value"))
	case "object_pattern", "array_pattern":
		var out []string
		for i := 0; i < int(n.NamedChildCount()); i++ {
			out = append(out, w.bindingNames(n.NamedChild(i))...)
		}
		return out
	case "required_parameter", "optional_parameter":
		// TypeScript wraps each parameter; the pattern is in the "pattern" field.
		return w.bindingNames(n.ChildByFieldName("pattern"))
	}
	return nil
}

// visitDeclaration handles var/let/const statements: variable names are
// flattened into the result and function-valued declarators claim their
// function under the variable's name.
func (w *treeWalker) visitDeclaration(node *sitter.Node) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		decl := node.NamedChild(i)
		if decl.Type() != "variable_declarator" {
			continue
		}
		name := decl.ChildByFieldName("name")
		w.result.Variables = append(w.result.Variables, w.bindingNames(name)...)

		value := decl.ChildByFieldName("value")
		if value == nil {
			continue
		}
		if isFunctionNode(value) {
			w.claimed[nodeKey(value)] = true
			w.addFunctionNode(value, w.text(name), functionKindOf(value))
		}
		if value.Type() == "class" {
			w.claimed[nodeKey(value)] = true
			w.visitClassNamed(value, w.text(name))
		}
	}
}

// visitClass extracts a class declaration or expression and its members.
func (w *treeWalker) visitClass(node *sitter.Node) {
	if w.claimed[nodeKey(node)] {
		// Already handled as a named class expression via its declarator.
		return
	}
	w.visitClassNamed(node, w.text(node.ChildByFieldName("name")))
}

func (w *treeWalker) visitClassNamed(node *sitter.Node, name string) {
	if name == "" {
		name = "anonymous"
	}
	cls := Class{Name: name, Methods: []Method{}}

	body := node.ChildByFieldName("body")
	if body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			member := body.NamedChild(i)
			switch member.Type() {
			case "method_definition":
				cls.Methods = append(cls.Methods, w.methodRecord(member))
				// Walk the body for complexity and nested functions.
				w.walkChildrenOnly(member)
			case "field_definition", "public_field_definition":
				// Arrow-function class fields normalize into method records.
				if value := member.ChildByFieldName("value"); value != nil && isFunctionNode(value) {
					w.claimed[nodeKey(value)] = true
					cls.Methods = append(cls.Methods, Method{
						Name:   propertyName(member.ChildByFieldName("property"), w.src),
						Static: hasModifier(member, "static"),
						Async:  hasModifier(value, "async"),
						Kind:   MethodKindMethod,
					})
					w.walkChildrenOnly(member)
				}
			}
		}
	}

	w.result.Classes = append(w.result.Classes, cls)
}

// walkChildrenOnly recurses into a node's children without re-dispatching the
// node itself (used after a member has been recorded).
func (w *treeWalker) walkChildrenOnly(node *sitter.Node) {
	for i := 0; i < int(node.ChildCount()); i++ {
		w.walk(node.Child(i))
	}
}

// methodRecord normalizes a method_definition into a Method.
func (w *treeWalker) methodRecord(member *sitter.Node) Method {
	m := Method{
		Name:      propertyName(member.ChildByFieldName("name"), w.src),
		Static:    hasModifier(member, "static"),
		Async:     hasModifier(member, "async"),
		Generator: hasModifier(member, "*"),
		Kind:      MethodKindMethod,
	}
	if hasModifier(member, "get") {
		m.Kind = MethodKindGetter
	} else if hasModifier(member, "set") {
		m.Kind = MethodKindSetter
	}
	return m
}

// propertyName extracts the name of a property-like node, including private
// (#x) and computed ([expr]) member names.
func propertyName(n *sitter.Node, src []byte) string {
	if n == nil {
		return "anonymous"
	}
	switch n.Type() {
	case "computed_property_name":
		return n.Content(src)
	case "string":
		return stringLiteral(n, src)
	default:
		return n.Content(src)
	}
}

// memberName returns the final property of a member expression chain, or the
// raw identifier text (left side of `foo.bar = ...`).
func memberName(n *sitter.Node, src []byte) string {
	if n == nil {
		return "anonymous"
	}
	if n.Type() == "member_expression" {
		if prop := n.ChildByFieldName("property"); prop != nil {
			return prop.Content(src)
		}
	}
	return n.Content(src)
}

// stringLiteral returns a string node's content without quotes.
func stringLiteral(n *sitter.Node, src []byte) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child.Type() == "string_fragment" {
			return child.Content(src)
		}
	}
	text := n.Content(src)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

// visitImport extracts one import statement with tagged specifiers.
func (w *treeWalker) visitImport(node *sitter.Node) {
	source := node.ChildByFieldName("source")
	if source == nil {
		return
	}
	imp := Import{Source: stringLiteral(source, w.src), Specifiers: []ImportSpecifier{}}

	for i := 0; i < int(node.ChildCount()); i++ {
		clause := node.Child(i)
		if clause.Type() != "import_clause" {
			continue
		}
		for j := 0; j < int(clause.ChildCount()); j++ {
			c := clause.Child(j)
			switch c.Type() {
			case "identifier":
				imp.Specifiers = append(imp.Specifiers, ImportSpecifier{
					Kind: ImportKindDefault,
					Name: w.text(c),
				})
			case "namespace_import":
				spec := ImportSpecifier{Kind: ImportKindNamespace}
				for k := 0; k < int(c.ChildCount()); k++ {
					if gc := c.Child(k); gc.Type() == "identifier" {
						spec.Name = w.text(gc)
					}
				}
				imp.Specifiers = append(imp.Specifiers, spec)
			case "named_imports":
				for k := 0; k < int(c.NamedChildCount()); k++ {
					is := c.NamedChild(k)
					if is.Type() != "import_specifier" {
						continue
					}
					spec := ImportSpecifier{
						Kind: ImportKindNamed,
						Name: w.text(is.ChildByFieldName("name")),
					}
					if alias := is.ChildByFieldName("alias"); alias != nil {
						spec.Alias = w.text(alias)
					}
					imp.Specifiers = append(imp.Specifiers, spec)
				}
			}
		}
	}

	// No clause at all: a side-effect-only import like `import "./setup"`.
	if len(imp.Specifiers) == 0 {
		imp.Specifiers = append(imp.Specifiers, ImportSpecifier{Kind: ImportKindSideEffect})
	}

	w.result.Imports = append(w.result.Imports, imp)
}

// visitExport extracts one export statement. The exported declaration itself
// (function, class, variables) is picked up by the normal child walk.
func (w *treeWalker) visitExport(node *sitter.Node) {
	source := ""
	if s := node.ChildByFieldName("source"); s != nil {
		source = stringLiteral(s, w.src)
	}

	isDefault := false
	star := false
	var nsName string
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "default":
			isDefault = true
		case "*":
			star = true
		case "namespace_export":
			star = true
			for j := 0; j < int(c.ChildCount()); j++ {
				if gc := c.Child(j); gc.Type() == "identifier" {
					nsName = w.text(gc)
				}
			}
		case "export_clause":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				es := c.NamedChild(j)
				if es.Type() != "export_specifier" {
					continue
				}
				local := w.text(es.ChildByFieldName("name"))
				exported := local
				if alias := es.ChildByFieldName("alias"); alias != nil {
					exported = w.text(alias)
				}
				exp := Export{Name: exported, Kind: ExportKindNamed, Source: source}
				if exported != local {
					exp.LocalName = local
				}
				w.result.Exports = append(w.result.Exports, exp)
			}
		}
	}

	if star {
		name := "*"
		if nsName != "" {
			name = nsName
		}
		w.result.Exports = append(w.result.Exports, Export{Name: name, Kind: ExportKindAll, Source: source})
		return
	}

	if decl := node.ChildByFieldName("declaration"); decl != nil {
		w.visitExportedDeclaration(decl, isDefault)
		return
	}

	if isDefault {
		// `export default <expr>` — derive a name when the value is a named
		// function or class, otherwise call it "default".
		name := "default"
		if value := node.ChildByFieldName("value"); value != nil {
			if n := value.ChildByFieldName("name"); n != nil {
				name = w.text(n)
			}
		}
		w.result.Exports = append(w.result.Exports, Export{Name: name, Kind: ExportKindDefault})
	}
}

// visitExportedDeclaration emits export records for `export [default]
// function/class/const ...` forms.
func (w *treeWalker) visitExportedDeclaration(decl *sitter.Node, isDefault bool) {
	kind := ExportKindNamed
	if isDefault {
		kind = ExportKindDefault
	}
	switch decl.Type() {
	case "function_declaration", "generator_function_declaration", "class_declaration":
		name := w.text(decl.ChildByFieldName("name"))
		if name == "" {
			name = "default"
		}
		w.result.Exports = append(w.result.Exports, Export{Name: name, Kind: kind})
	case "lexical_declaration", "variable_declaration":
		for i := 0; i < int(decl.NamedChildCount()); i++ {
			d := decl.NamedChild(i)
			if d.Type() != "variable_declarator" {
				continue
			}
			for _, name := range w.bindingNames(d.ChildByFieldName("name")) {
				w.result.Exports = append(w.result.Exports, Export{Name: name, Kind: kind})
			}
		}
	default:
		// TypeScript-only declarations (interface, type alias, enum) carry a
		// name field too.
		if n := decl.ChildByFieldName("name"); n != nil {
			w.result.Exports = append(w.result.Exports, Export{Name: w.text(n), Kind: kind})
		}
	}
}
