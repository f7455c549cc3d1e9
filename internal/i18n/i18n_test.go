package i18n

import (
	"context"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	loc := NewLocalizer(lang)
	return WithLocalizer(context.Background(), loc)
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "EvaluationComplete")
	if got != "Answer sheet evaluated successfully" {
		t.Errorf("T(EvaluationComplete) = %q, want 'Answer sheet evaluated successfully'", got)
	}

	got = T(ctx, "ExamNotFound")
	if got != "exam not found" {
		t.Errorf("T(ExamNotFound) = %q, want 'exam not found'", got)
	}
}

func TestTranslateRussian(t *testing.T) {
	ctx := initLang(t, "ru")

	got := T(ctx, "EvaluationComplete")
	if got != "Работа успешно проверена" {
		t.Errorf("T(EvaluationComplete) = %q, want 'Работа успешно проверена'", got)
	}

	got = T(ctx, "ExamNotFound")
	if got != "экзамен не найден" {
		t.Errorf("T(ExamNotFound) = %q, want 'экзамен не найден'", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "NonExistentKey")
	if got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestNoLocalizerInContext(t *testing.T) {
	initLang(t, "en")

	got := T(context.Background(), "ExamNotFound")
	if got != "exam not found" {
		t.Errorf("T without localizer = %q, want English fallback 'exam not found'", got)
	}
}
