package dto

import (
	"fmt"

	"pmdashboard/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type enum interface{ Valid() bool }

func enumValidator[T interface {
	~string
	enum
}]() validator.Func {
	return func(fl validator.FieldLevel) bool {
		return T(fl.Field().String()).Valid()
	}
}

var enumValidators = map[string]validator.Func{
	"role":            enumValidator[model.Role](),
	"projectstatus":   enumValidator[model.ProjectStatus](),
	"projectpriority": enumValidator[model.ProjectPriority](),
	"taskstatus":      enumValidator[model.TaskStatus](),
	"taskpriority":    enumValidator[model.TaskPriority](),
	"sprintstatus":    enumValidator[model.SprintStatus](),
	"level":           enumValidator[model.Level](),
	"riskstatus":      enumValidator[model.RiskStatus](),
}

// RegisterValidators adds the enum tags used in request bindings to gin's
// validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	for tag, fn := range enumValidators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validator: %w", tag, err)
		}
	}
	return nil
}
