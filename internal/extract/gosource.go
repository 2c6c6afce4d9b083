package extract

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"github.com/ZxlHyy/i18n-tr/internal/textutil"
)

// extractGoSource walks a parsed Go file for marker calls whose first
// argument is a plain string literal.
func extractGoSource(path string, src []byte, marker string) ([]string, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, 0)
	if err != nil {
		return nil, fmt.Errorf("parse go source: %w", err)
	}

	var texts []string
	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		if calleeName(call.Fun) != marker || len(call.Args) == 0 {
			return true
		}
		lit, ok := literalArg(call.Args[0])
		if !ok {
			return true
		}
		text, ok := literalValue(lit)
		if !ok {
			return true
		}
		if textutil.IsMessageText(text) {
			texts = append(texts, text)
		}
		return true
	})
	return texts, nil
}

// calleeName returns the terminal identifier of a call target, so a
// marker "Tr" matches both Tr(...) and i18n.Tr(...).
func calleeName(expr ast.Expr) string {
	switch fn := expr.(type) {
	case *ast.Ident:
		return fn.Name
	case *ast.SelectorExpr:
		return fn.Sel.Name
	}
	return ""
}

// literalArg unwraps redundant parentheses and requires a plain string
// literal: concatenations and call results are not extractable.
func literalArg(expr ast.Expr) (*ast.BasicLit, bool) {
	for {
		paren, ok := expr.(*ast.ParenExpr)
		if !ok {
			break
		}
		expr = paren.X
	}
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return nil, false
	}
	return lit, true
}

// literalValue decodes a string literal. Raw literals are block-normalized
// so source indentation inside backquotes does not leak into the catalog.
func literalValue(lit *ast.BasicLit) (string, bool) {
	if strings.HasPrefix(lit.Value, "`") {
		return textutil.NormalizeBlock(strings.Trim(lit.Value, "`")), true
	}
	text, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return text, true
}
