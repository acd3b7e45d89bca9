package database

import "testing"

func TestGormConfigTranslatesDriverErrors(t *testing.T) {
	cfg := gormConfig()
	if !cfg.TranslateError {
		t.Error("TranslateError is disabled; MySQL error 1062 would surface as a raw driver error instead of gorm.ErrDuplicatedKey, breaking duplicate-submission and duplicate-enrollment conflict handling")
	}
	if cfg.Logger == nil {
		t.Error("gorm logger not configured")
	}
}
