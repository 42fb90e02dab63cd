package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

const LanguagePython = "python"

// GrammarLoader owns the runtime tree-sitter grammars the parser needs.
type GrammarLoader struct {
	languages map[string]*sitter.Language
}

func NewGrammarLoader() *GrammarLoader {
	return &GrammarLoader{
		languages: map[string]*sitter.Language{
			LanguagePython: sitter.NewLanguage(tree_sitter_python.Language()),
		},
	}
}

// Language returns the grammar for lang, or nil when it is not loaded.
func (gl *GrammarLoader) Language(lang string) *sitter.Language {
	return gl.languages[lang]
}
