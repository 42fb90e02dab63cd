package parser

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"smalldoc/internal/core/errors"
	"smalldoc/internal/shared/observability"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Parser turns Python source files into module symbol tables. It is safe for
// concurrent use.
type Parser struct {
	pool      *ParserPool
	extractor *PythonExtractor
}

func NewParser(loader *GrammarLoader) (*Parser, error) {
	grammar := loader.Language(LanguagePython)
	if grammar == nil {
		return nil, errors.New(errors.CodeInternal, fmt.Sprintf("grammar not loaded: %s", LanguagePython))
	}
	return &Parser{
		pool:      NewParserPool(grammar),
		extractor: &PythonExtractor{},
	}, nil
}

func (p *Parser) IsSupportedPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".py")
}

// ParseModule parses one Python file. Source with syntax errors is rejected
// with a VALIDATION_ERROR carrying the first error position.
func (p *Parser) ParseModule(path string, content []byte) (*Module, error) {
	start := time.Now()
	defer func() {
		observability.ParsingDuration.WithLabelValues(LanguagePython).Observe(time.Since(start).Seconds())
	}()

	sp := p.pool.Get()
	defer p.pool.Put(sp)

	tree := sp.Parse(content, nil)
	if tree == nil {
		return nil, errors.New(errors.CodeInternal, "parse failed")
	}
	defer tree.Close()

	root := tree.RootNode()
	if bad := firstError(root); bad != nil {
		return nil, syntaxError(path, bad)
	}

	mod, err := p.extractor.Extract(root, content, path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "extraction failed")
	}
	return mod, nil
}

func syntaxError(path string, node *sitter.Node) error {
	pos := node.StartPosition()
	err := errors.New(errors.CodeValidationError, "invalid python syntax")
	err = errors.AddContext(err, errors.CtxPath, path)
	return errors.AddContext(err, errors.CtxLine, fmt.Sprintf("%d:%d", pos.Row+1, pos.Column+1))
}
