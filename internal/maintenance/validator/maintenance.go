package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"gearbook/pkg/logger"
	"gearbook/pkg/model"
)

var (
	caldateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	moneyRegex   = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type MaintenanceValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewMaintenanceValidator(log *logger.Logger) *MaintenanceValidator {
	v := validator.New()

	if err := v.RegisterValidation("caldate", func(fl validator.FieldLevel) bool {
		return caldateRegex.MatchString(fl.Field().String())
	}); err != nil {
		log.Fatal("Failed to register 'caldate' validator", "error", err)
	}
	if err := v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		return moneyRegex.MatchString(fl.Field().String())
	}); err != nil {
		log.Fatal("Failed to register 'money' validator", "error", err)
	}

	log.Info("Maintenance validator initialized successfully")

	return &MaintenanceValidator{
		validate: v,
		logger:   log,
	}
}

func (v *MaintenanceValidator) Validate(entry *model.MaintenanceEntry) error {
	if err := v.validate.Struct(entry); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *MaintenanceValidator) ValidateUpdate(update *model.MaintenanceUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *MaintenanceValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		case "caldate":
			message = fmt.Sprintf("%s must be a YYYY-MM-DD date", err.Field())
		case "money":
			message = fmt.Sprintf("%s must be a decimal amount with at most two fraction digits", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
