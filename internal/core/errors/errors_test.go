package errors

import (
	"errors"
	"io/fs"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "unit not found")
		if err.Error() != "[NOT_FOUND] unit not found" {
			t.Errorf("expected [NOT_FOUND] unit not found, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeInternal, "internal failure")
		expected := "[INTERNAL_ERROR] internal failure: original error"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeValidationError, "invalid input")
		if !IsCode(err, CodeValidationError) {
			t.Error("expected IsCode to return true for CodeValidationError")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
	})

	t.Run("LoadFaultKeepsCause", func(t *testing.T) {
		err := LoadFault(fs.ErrPermission, "pkg.sub")
		if !IsLoadFault(err) {
			t.Fatal("expected load fault code")
		}
		if !errors.Is(err, fs.ErrPermission) {
			t.Error("expected cause to be reachable through errors.Is")
		}
	})

	t.Run("AddContextPromotesPlainErrors", func(t *testing.T) {
		err := AddContext(errors.New("boom"), CtxPath, "/tmp/x")
		if !IsCode(err, CodeInternal) {
			t.Fatalf("expected internal code, got %v", err)
		}
		var de *DomainError
		if !errors.As(err, &de) || de.Context[CtxPath] != "/tmp/x" {
			t.Errorf("expected path context, got %v", err)
		}
	})

	t.Run("AddContextKeepsCode", func(t *testing.T) {
		err := AddContext(LoadFault(errors.New("boom"), "pkg"), CtxPath, "/tmp/pkg")
		if !IsLoadFault(err) {
			t.Errorf("expected load fault to survive AddContext, got %v", err)
		}
	})
}
