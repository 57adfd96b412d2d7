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

type ItemValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewItemValidator(log *logger.Logger) *ItemValidator {
	v := validator.New()

	if err := v.RegisterValidation("caldate", validateCalendarDate); err != nil {
		log.Fatal("Failed to register 'caldate' validator", "error", err)
	}
	if err := v.RegisterValidation("money", validateMoney); err != nil {
		log.Fatal("Failed to register 'money' validator", "error", err)
	}

	log.Info("Item validator initialized successfully")

	return &ItemValidator{
		validate: v,
		logger:   log,
	}
}

// Calendar dates stay strings end to end; the shape check here is what
// guarantees lexical comparison equals calendar comparison downstream.
func validateCalendarDate(fl validator.FieldLevel) bool {
	return caldateRegex.MatchString(fl.Field().String())
}

func validateMoney(fl validator.FieldLevel) bool {
	return moneyRegex.MatchString(fl.Field().String())
}

func (v *ItemValidator) Validate(item *model.Item) error {
	if err := v.validate.Struct(item); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if item.Status == model.StatusCheckedOut {
		if item.CheckedOutTo == "" || item.CheckedOutDate == "" {
			return ValidationErrors{
				ValidationError{
					Field:   "Status",
					Message: "checked-out items must record who has them and since when",
				},
			}
		}
		if item.DueBack != "" && item.DueBack < item.CheckedOutDate {
			return ValidationErrors{
				ValidationError{
					Field:   "DueBack",
					Message: "due_back cannot be before checked_out_date",
				},
			}
		}
	}

	for i, r := range item.Reservations {
		if r.End < r.Start {
			return ValidationErrors{
				ValidationError{
					Field:   fmt.Sprintf("Reservations[%d].End", i),
					Message: "end cannot be before start",
				},
			}
		}
	}

	return nil
}

func (v *ItemValidator) ValidateUpdate(update *model.ItemUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *ItemValidator) ValidateCheckout(req *model.CheckoutRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if req.DueBack != "" && req.DueBack < req.Date {
		return ValidationErrors{
			ValidationError{
				Field:   "DueBack",
				Message: "due_back cannot be before the checkout date",
			},
		}
	}

	return nil
}

func (v *ItemValidator) ValidateReservation(r *model.Reservation) error {
	if err := v.validate.Struct(r); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if r.End < r.Start {
		return ValidationErrors{
			ValidationError{
				Field:   "End",
				Message: "end cannot be before start",
			},
		}
	}

	return nil
}

func (v *ItemValidator) ValidateReservationUpdate(update *model.ReservationUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.Start != "" && update.End != "" && update.End < update.Start {
		return ValidationErrors{
			ValidationError{
				Field:   "End",
				Message: "end cannot be before start",
			},
		}
	}

	return nil
}

// ValidateDateRange checks a query-supplied interval. Both endpoints
// are required and must be well-formed dates in order.
func (v *ItemValidator) ValidateDateRange(start, end string) error {
	var errs ValidationErrors
	if !caldateRegex.MatchString(start) {
		errs = append(errs, ValidationError{Field: "start", Message: "start must be a YYYY-MM-DD date"})
	}
	if !caldateRegex.MatchString(end) {
		errs = append(errs, ValidationError{Field: "end", Message: "end must be a YYYY-MM-DD date"})
	}
	if len(errs) > 0 {
		return errs
	}
	if end < start {
		return ValidationErrors{
			ValidationError{Field: "end", Message: "end cannot be before start"},
		}
	}
	return nil
}

func (v *ItemValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
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
