package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"strconv"
	"text/template"
	"unicode/utf8"

	"github.com/almahoozi/cligen/dispatch"
	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const dispatchImportPath = "github.com/almahoozi/cligen/dispatch"

// Generator handles the parsing and code generation
type Generator struct {
	SourceFile string
	Package    string
	Table      string
	Default    string
	Builtins   bool
	NoMain     bool
	Name       string
	Version    string
	Author     string
	OutputFile string
}

// CommandInfo represents one entry of the command table with its source position
type CommandInfo struct {
	ShortFlag   rune
	LongFlag    string
	Description string
	Pos         token.Position
}

// Generate parses the source file and generates the runtime wiring
func (g *Generator) Generate() error {
	if g.Table == "" {
		return fmt.Errorf("table name is required")
	}
	if g.Default != "" && !token.IsIdentifier(g.Default) {
		return fmt.Errorf("default action %q must be a function name", g.Default)
	}

	// Parse the Go source file
	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, g.SourceFile, nil, parser.ParseComments)
	if err != nil {
		return fmt.Errorf("failed to parse source file: %w", err)
	}

	if g.Package == "" {
		g.Package = node.Name.Name
	}

	importName, ok := g.dispatchImportName(node)
	if !ok {
		return fmt.Errorf("%s does not import %s", g.SourceFile, dispatchImportPath)
	}

	table := g.findTable(node, importName)
	if table == nil {
		return fmt.Errorf("could not find []%s.Command table %s", importName, g.Table)
	}

	commands, err := g.parseTable(fset, table, importName)
	if err != nil {
		return fmt.Errorf("invalid table %s: %w", g.Table, err)
	}
	log.WithFields(log.Fields{"table": g.Table, "commands": len(commands)}).Debug("parsed command table")

	if err := g.validate(commands); err != nil {
		return fmt.Errorf("invalid table %s: %w", g.Table, err)
	}

	if g.Default != "" {
		if err := g.checkDefault(node); err != nil {
			return err
		}
	}

	return g.generateCode()
}

// dispatchImportName returns the name under which the file imports the dispatch package
func (g *Generator) dispatchImportName(node *ast.File) (string, bool) {
	for _, imp := range node.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil || path != dispatchImportPath {
			continue
		}
		if imp.Name != nil {
			return imp.Name.Name, true
		}
		return "dispatch", true
	}
	return "", false
}

// findTable locates the package-level composite literal assigned to the table variable
func (g *Generator) findTable(node *ast.File, importName string) *ast.CompositeLit {
	for _, decl := range node.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.VAR {
			continue
		}
		for _, spec := range genDecl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for i, name := range valueSpec.Names {
				if name.Name != g.Table || i >= len(valueSpec.Values) {
					continue
				}
				lit, ok := valueSpec.Values[i].(*ast.CompositeLit)
				if ok && isCommandSlice(lit.Type, importName) {
					return lit
				}
			}
		}
	}
	return nil
}

// isCommandSlice reports whether expr is []<importName>.Command
func isCommandSlice(expr ast.Expr, importName string) bool {
	arr, ok := expr.(*ast.ArrayType)
	if !ok || arr.Len != nil {
		return false
	}
	return isCommandType(arr.Elt, importName)
}

func isCommandType(expr ast.Expr, importName string) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Command" {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	return ok && pkg.Name == importName
}

// parseTable extracts the literal flags and descriptions of every table entry
func (g *Generator) parseTable(fset *token.FileSet, table *ast.CompositeLit, importName string) ([]CommandInfo, error) {
	var result *multierror.Error
	var commands []CommandInfo

	for _, elt := range table.Elts {
		pos := fset.Position(elt.Pos())

		lit, ok := elt.(*ast.CompositeLit)
		if !ok || (lit.Type != nil && !isCommandType(lit.Type, importName)) {
			result = multierror.Append(result, fmt.Errorf("%s: entry is not a %s.Command literal", pos, importName))
			continue
		}

		command, err := g.parseCommand(lit)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", pos, err))
			continue
		}
		command.Pos = pos
		commands = append(commands, command)
	}

	return commands, result.ErrorOrNil()
}

// parseCommand reads the keyed fields of a single Command literal
func (g *Generator) parseCommand(lit *ast.CompositeLit) (CommandInfo, error) {
	var command CommandInfo
	seen := make(map[string]bool)

	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			return command, fmt.Errorf("command fields must be keyed")
		}
		key, ok := kv.Key.(*ast.Ident)
		if !ok {
			return command, fmt.Errorf("command fields must be keyed")
		}

		var err error
		switch key.Name {
		case "ShortFlag":
			command.ShortFlag, err = runeLiteral(kv.Value)
		case "LongFlag":
			command.LongFlag, err = stringLiteral(kv.Value)
		case "Description":
			command.Description, err = stringLiteral(kv.Value)
		case "Action":
		default:
			err = fmt.Errorf("unknown field")
		}
		if err != nil {
			return command, fmt.Errorf("field %s: %w", key.Name, err)
		}
		seen[key.Name] = true
	}

	for _, field := range []string{"ShortFlag", "LongFlag", "Action"} {
		if !seen[field] {
			return command, fmt.Errorf("missing field %s", field)
		}
	}
	if command.LongFlag == "" {
		return command, fmt.Errorf("field LongFlag: must not be empty")
	}

	return command, nil
}

func runeLiteral(expr ast.Expr) (rune, error) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.CHAR {
		return 0, fmt.Errorf("must be a rune literal")
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return 0, err
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func stringLiteral(expr ast.Expr) (string, error) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", fmt.Errorf("must be a string literal")
	}
	return strconv.Unquote(lit.Value)
}

// validate rejects duplicate flags, including collisions with the built-in commands
func (g *Generator) validate(commands []CommandInfo) error {
	table := make([]dispatch.Command, len(commands))
	for i, c := range commands {
		table[i] = dispatch.Command{
			ShortFlag:   c.ShortFlag,
			LongFlag:    c.LongFlag,
			Description: c.Description,
		}
	}

	var opts []dispatch.Option
	if g.Builtins {
		opts = append(opts, dispatch.WithBuiltins(dispatch.Info{}))
	}

	return dispatch.New(table, nil, opts...).Validate()
}

// checkDefault makes sure the default action can be called without arguments
func (g *Generator) checkDefault(node *ast.File) error {
	for _, decl := range node.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil || fn.Name.Name != g.Default {
			continue
		}
		if fn.Type.Params.NumFields() != 0 || fn.Type.Results.NumFields() != 0 {
			return fmt.Errorf("default action %s must take no arguments and return nothing", g.Default)
		}
		return nil
	}

	log.WithFields(log.Fields{"default": g.Default, "file": g.SourceFile}).
		Warn("default action not declared in source file")
	return nil
}

// generateCode renders the runtime wiring and writes it gofmt'ed to the output file
func (g *Generator) generateCode() error {
	tmpl := template.Must(template.New("cli").Parse(cliTemplate))

	data := struct {
		Package     string
		Table       string
		Constructor string
		Default     string
		Builtins    bool
		Main        bool
		Name        string
		Version     string
		Author      string
	}{
		Package:     g.Package,
		Table:       g.Table,
		Constructor: "New" + cases.Title(language.Und, cases.NoLower).String(g.Table) + "Runtime",
		Default:     g.Default,
		Builtins:    g.Builtins,
		Main:        g.Package == "main" && !g.NoMain,
		Name:        g.Name,
		Version:     g.Version,
		Author:      g.Author,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render CLI code: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("failed to format CLI code: %w", err)
	}

	if err := os.WriteFile(g.OutputFile, src, 0o644); err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	return nil
}

const cliTemplate = `// Code generated by cligen. DO NOT EDIT.

package {{.Package}}

import (
{{- if .Main}}
	"os"
{{end}}
	"github.com/almahoozi/cligen/dispatch"
)

// {{.Constructor}} builds the command runtime for the {{.Table}} table.
func {{.Constructor}}(opts ...dispatch.Option) *dispatch.Runtime {
{{- if .Builtins}}
	info := dispatch.ReadInfo({{printf "%q" .Author}})
	{{- if .Name}}
	info.Name = {{printf "%q" .Name}}
	{{- end}}
	{{- if .Version}}
	info.Version = {{printf "%q" .Version}}
	{{- end}}
	opts = append([]dispatch.Option{dispatch.WithBuiltins(info)}, opts...)
{{- end}}
	return dispatch.New({{.Table}}, {{if .Default}}dispatch.ActionFunc({{.Default}}){{else}}nil{{end}}, opts...)
}
{{- if .Main}}

func main() {
	{{.Constructor}}().Main(os.Args)
}
{{- end}}
`
