package fix

import (
	"testing"

	"capfmt/internal/diag"
	"capfmt/internal/source"
)

// TestWithRequiresAll проверяет, что опция WithRequiresAll устанавливает флаг
func TestWithRequiresAll(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("main.rs", []byte(`println!("{}", x);`))

	span := source.Span{File: fileID, Start: 0, End: 0}
	fix := InsertText("Test fix", span, "// ", "", WithRequiresAll())

	if !fix.RequiresAll {
		t.Error("expected RequiresAll to be true")
	}
}

func TestDeleteSpanKeepsGuard(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("main.rs", []byte(`println!("{}", x);`))

	span := source.Span{File: fileID, Start: 13, End: 16}
	fix := DeleteSpan("Remove argument", span, ", x")

	if len(fix.Edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(fix.Edits))
	}
	edit := fix.Edits[0]
	if edit.NewText != "" {
		t.Errorf("expected empty NewText for deletion, got %q", edit.NewText)
	}
	if edit.OldText != ", x" {
		t.Errorf("expected OldText ', x', got %q", edit.OldText)
	}
}

func TestMultipleOptions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("main.rs", []byte(`println!("{}", x);`))

	span := source.Span{File: fileID, Start: 9, End: 13}
	fix := ReplaceSpan("Inline x", span, `"{x}"`, `"{}"`,
		WithID("inline-x"),
		WithKind(diag.FixKindRefactorRewrite),
		WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
		Preferred(),
		WithRequiresAll(),
	)

	if fix.ID != "inline-x" {
		t.Errorf("expected ID 'inline-x', got %q", fix.ID)
	}
	if fix.Kind != diag.FixKindRefactorRewrite {
		t.Errorf("expected RefactorRewrite kind, got %v", fix.Kind)
	}
	if fix.Applicability != diag.FixApplicabilitySafeWithHeuristics {
		t.Errorf("expected SafeWithHeuristics, got %v", fix.Applicability)
	}
	if !fix.IsPreferred {
		t.Error("expected IsPreferred to be true")
	}
	if !fix.RequiresAll {
		t.Error("expected RequiresAll to be true")
	}
}

func TestMultiEditCopiesEdits(t *testing.T) {
	edits := []diag.TextEdit{
		{Span: source.Span{Start: 9, End: 13}, NewText: `"{x}"`},
		{Span: source.Span{Start: 13, End: 16}},
	}
	fix := MultiEdit("Inline x", edits)
	edits[0].NewText = "mutated"

	if len(fix.Edits) != 2 {
		t.Fatalf("expected 2 edits, got %d", len(fix.Edits))
	}
	if fix.Edits[0].NewText != `"{x}"` {
		t.Fatalf("MultiEdit must not alias caller slice, got %q", fix.Edits[0].NewText)
	}
}

func TestNilOption(t *testing.T) {
	fix := InsertText("Test", source.Span{}, "x", "", nil, Preferred())
	if !fix.IsPreferred {
		t.Error("nil option must be ignored")
	}
}

func TestDefaultApplicabilityAndKind(t *testing.T) {
	fix := ReplaceSpan("Test", source.Span{}, "a", "")
	if fix.Applicability != diag.FixApplicabilityAlwaysSafe {
		t.Errorf("expected AlwaysSafe by default, got %v", fix.Applicability)
	}
	if fix.Kind != diag.FixKindQuickFix {
		t.Errorf("expected QuickFix by default, got %v", fix.Kind)
	}
}
