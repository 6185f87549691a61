// Package lint statically checks component struct tags.
//
// The render schema catches every definition mistake at first use, but
// only at runtime. This checker walks source packages and reports the
// same class of mistakes (duplicate attributes, optionals without a
// fallback, malformed placeholders, references to fields that do not
// exist) straight from the AST, so they surface in CI instead of on the
// first request.
package lint

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/strandhtml/strand/lib/naming"
)

// Issue is one finding: a position and a human-readable message.
type Issue struct {
	Pos     token.Position
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Pos, i.Message)
}

// Checker lints component definitions.
type Checker struct {
	fset *token.FileSet
}

// New creates a checker.
func New() *Checker {
	return &Checker{fset: token.NewFileSet()}
}

// Check lints the given package patterns and returns all findings.
func (c *Checker) Check(patterns ...string) ([]Issue, error) {
	packages, err := c.findPackages(patterns)
	if err != nil {
		return nil, err
	}

	var issues []Issue
	for _, pkg := range packages {
		found, err := c.checkPackage(pkg)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", pkg, err)
		}
		issues = append(issues, found...)
	}
	return issues, nil
}

// findPackages resolves package patterns to directory paths.
func (c *Checker) findPackages(patterns []string) ([]string, error) {
	var packages []string

	for _, pattern := range patterns {
		if !strings.HasSuffix(pattern, "/...") {
			packages = append(packages, pattern)
			continue
		}

		root := strings.TrimSuffix(pattern, "/...")
		if root == "" {
			root = "."
		}
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return nil
			}
			base := filepath.Base(path)
			if path != root && (strings.HasPrefix(base, ".") || base == "vendor" || base == "testdata") {
				return filepath.SkipDir
			}

			entries, err := os.ReadDir(path)
			if err != nil {
				return nil
			}
			for _, entry := range entries {
				if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".go") && !strings.HasSuffix(entry.Name(), "_test.go") {
					packages = append(packages, path)
					break
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return packages, nil
}

func (c *Checker) checkPackage(pkgPath string) ([]Issue, error) {
	pkgs, err := parser.ParseDir(c.fset, pkgPath, func(info os.FileInfo) bool {
		return !strings.HasSuffix(info.Name(), "_test.go")
	}, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	var issues []Issue
	for _, pkg := range pkgs {
		methods := collectMethodNames(pkg)
		for _, file := range pkg.Files {
			issues = append(issues, c.checkFile(file, methods)...)
		}
	}
	return issues, nil
}

// CheckFile lints one parsed file. Exposed for tests and editor tooling;
// methods maps receiver type names to their declared method names.
func (c *Checker) CheckFile(file *ast.File, methods map[string]map[string]bool) []Issue {
	return c.checkFile(file, methods)
}

func (c *Checker) checkFile(file *ast.File, methods map[string]map[string]bool) []Issue {
	var issues []Issue

	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			structType, ok := typeSpec.Type.(*ast.StructType)
			if !ok || !isComponent(structType) {
				continue
			}
			issues = append(issues, c.checkComponent(typeSpec.Name.Name, structType, methods[typeSpec.Name.Name])...)
		}
	}
	return issues
}

// isComponent reports whether the struct declares an element marker field.
func isComponent(structType *ast.StructType) bool {
	for _, field := range structType.Fields.List {
		if isMarkerType(field.Type) {
			return true
		}
	}
	return false
}

func isMarkerType(expr ast.Expr) bool {
	switch x := expr.(type) {
	case *ast.SelectorExpr:
		if ident, ok := x.X.(*ast.Ident); ok && ident.Name == "strand" {
			return x.Sel.Name == "Elem"
		}
	case *ast.Ident:
		return x.Name == "Elem"
	}
	return false
}

func (c *Checker) checkComponent(typeName string, structType *ast.StructType, methods map[string]bool) []Issue {
	var issues []Issue

	fieldNames := make(map[string]bool)
	for _, field := range structType.Fields.List {
		for _, name := range field.Names {
			fieldNames[name.Name] = true
		}
	}
	known := func(ref string) bool {
		head, _, _ := strings.Cut(ref, ".")
		return fieldNames[head] || methods[head]
	}

	seenAttrs := make(map[string]bool)
	report := func(pos token.Pos, format string, args ...any) {
		issues = append(issues, Issue{
			Pos:     c.fset.Position(pos),
			Message: fmt.Sprintf("%s: %s", typeName, fmt.Sprintf(format, args...)),
		})
	}

	for _, field := range structType.Fields.List {
		if field.Tag == nil {
			continue
		}
		raw, err := strconv.Unquote(field.Tag.Value)
		if err != nil {
			continue
		}
		tag := reflect.StructTag(raw)
		marker := isMarkerType(field.Type)
		_, isPointer := field.Type.(*ast.StarExpr)

		fieldName := ""
		if len(field.Names) > 0 {
			fieldName = field.Names[0].Name
		}

		if attrTag, ok := tag.Lookup("attr"); ok {
			if marker {
				issues = append(issues, c.checkAttrList(typeName, field.Tag.Pos(), attrTag, seenAttrs, known)...)
			} else {
				name := attrTag
				if name == "" {
					name = naming.Kebab(fieldName)
				}
				if seenAttrs[name] {
					report(field.Tag.Pos(), "duplicate attribute %q", name)
				}
				seenAttrs[name] = true
			}
		}

		if formatTag, ok := tag.Lookup("format"); ok && marker {
			issues = append(issues, c.checkTemplate(typeName, field.Tag.Pos(), formatTag, known)...)
		}

		_, hasElem := tag.Lookup("elem")
		_, hasFallback := tag.Lookup("fallback")
		if hasElem && isPointer && !hasFallback && !marker {
			report(field.Tag.Pos(), "optional field %s has no fallback tag", fieldName)
		}
	}

	return issues
}

func (c *Checker) checkAttrList(typeName string, pos token.Pos, src string, seen map[string]bool, known func(string) bool) []Issue {
	var issues []Issue
	report := func(format string, args ...any) {
		issues = append(issues, Issue{
			Pos:     c.fset.Position(pos),
			Message: fmt.Sprintf("%s: %s", typeName, fmt.Sprintf(format, args...)),
		})
	}

	for _, item := range splitAttrItems(src) {
		item = strings.TrimSpace(item)
		if item == "" {
			report("empty attribute entry in %q", src)
			continue
		}
		name, value, hasValue := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			report("attribute without a name in %q", src)
			continue
		}
		if seen[name] {
			report("duplicate attribute %q", name)
		}
		seen[name] = true
		if hasValue {
			issues = append(issues, c.checkTemplate(typeName, pos, value, known)...)
		}
	}
	return issues
}

// checkTemplate validates placeholder syntax and first-segment references.
// Only the head of a dotted path is resolvable without full type
// information, so nested segments are left to the runtime schema check.
func (c *Checker) checkTemplate(typeName string, pos token.Pos, src string, known func(string) bool) []Issue {
	var issues []Issue
	report := func(format string, args ...any) {
		issues = append(issues, Issue{
			Pos:     c.fset.Position(pos),
			Message: fmt.Sprintf("%s: %s", typeName, fmt.Sprintf(format, args...)),
		})
	}

	runes := []rune(src)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '{' {
			continue
		}
		if i+1 < len(runes) && runes[i+1] == '{' {
			i++
			continue
		}
		end := -1
		for j := i + 1; j < len(runes); j++ {
			if runes[j] == '}' {
				end = j
				break
			}
		}
		if end < 0 {
			report("unclosed placeholder in %q", src)
			return issues
		}
		ref := string(runes[i+1 : end])
		if ref == "" {
			report("empty placeholder in %q", src)
		} else if !known(ref) {
			report("placeholder {%s} references no field or method", ref)
		}
		i = end
	}
	return issues
}

// collectMethodNames maps each receiver type in the package to its
// declared method names.
func collectMethodNames(pkg *ast.Package) map[string]map[string]bool {
	methods := make(map[string]map[string]bool)
	for _, file := range pkg.Files {
		collectFileMethods(file, methods)
	}
	return methods
}

// CollectFileMethods records the receiver methods declared in one file.
// Exposed for tests operating on individually parsed files.
func CollectFileMethods(file *ast.File, methods map[string]map[string]bool) {
	collectFileMethods(file, methods)
}

func collectFileMethods(file *ast.File, methods map[string]map[string]bool) {
	for _, decl := range file.Decls {
		funcDecl, ok := decl.(*ast.FuncDecl)
		if !ok || funcDecl.Recv == nil || len(funcDecl.Recv.List) == 0 {
			continue
		}
		recv := funcDecl.Recv.List[0].Type
		if star, ok := recv.(*ast.StarExpr); ok {
			recv = star.X
		}
		ident, ok := recv.(*ast.Ident)
		if !ok {
			continue
		}
		if methods[ident.Name] == nil {
			methods[ident.Name] = make(map[string]bool)
		}
		methods[ident.Name][funcDecl.Name.Name] = true
	}
}

func splitAttrItems(s string) []string {
	var items []string
	depth := 0
	inQuote := false
	start := 0
	for i, r := range s {
		switch r {
		case '\'':
			inQuote = !inQuote
		case '{', '(', '[':
			if !inQuote {
				depth++
			}
		case '}', ')', ']':
			if !inQuote {
				depth--
			}
		case ',':
			if depth == 0 && !inQuote {
				items = append(items, s[start:i])
				start = i + 1
			}
		}
	}
	return append(items, s[start:])
}
