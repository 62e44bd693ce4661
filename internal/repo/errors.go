package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"horti-admin/internal/domain"
)

// translate maps gorm/driver errors onto the domain taxonomy, keyed by model name.
func translate(model string, err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	switch {
	case errors.As(err, &de):
		return de
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound(model)
	case errors.Is(err, gorm.ErrDuplicatedKey), isDupKey(err):
		return domain.AlreadyExists(domain.ModelCode(model, "ALREADY_EXISTS"))
	}
	return domain.Internal(err)
}

func notFound(model string) error {
	return domain.NotFound(domain.ModelCode(model, "NOT_FOUND"))
}

func isDupKey(err error) bool {
	// driver messages differ; gorm.ErrDuplicatedKey only shows up with TranslateError
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
