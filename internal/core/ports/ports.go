package ports

import (
	"context"

	"smalldoc/internal/engine/parser"
)

// ModuleParser abstracts turning one Python file into a symbol table.
type ModuleParser interface {
	ParseModule(path string, content []byte) (*parser.Module, error)
	IsSupportedPath(path string) bool
}

// UnitSession resolves units for a single build. Its search list is
// append-only and lives exactly as long as the session.
type UnitSession interface {
	AddSearchPath(path string)
	// Resolve returns (nil, nil) when no unit matches identifier and a
	// LOAD_FAULT error when a matching unit cannot be read or parsed.
	Resolve(ctx context.Context, identifier string) (*parser.Module, error)
	// SubUnits returns the short names of unit's qualifying sub-units,
	// sorted ascending.
	SubUnits(unit *parser.Module) ([]string, error)
}

// UnitLoader opens a fresh session per build.
type UnitLoader interface {
	NewSession() UnitSession
}
