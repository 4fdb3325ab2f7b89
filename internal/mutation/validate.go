package mutation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/psmak4/reprint-ui/internal/gateway"
	"github.com/psmak4/reprint-ui/internal/httpx"
	"github.com/psmak4/reprint-ui/internal/shelf"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("workkey", validateWorkKey)
	validate.RegisterValidation("shelfstatus", validateShelfStatus)
}

func validateWorkKey(fl validator.FieldLevel) bool {
	key := fl.Field().String()
	return strings.HasPrefix(key, "/works/") && len(key) > len("/works/")
}

func validateShelfStatus(fl validator.FieldLevel) bool {
	return shelf.ValidateStatus(fl.Field().String()) == nil
}

type shelfInput struct {
	WorkKey string `validate:"required,workkey"`
	Status  string `validate:"required,shelfstatus"`
}

type reviewInput struct {
	WorkKey string `validate:"required,workkey"`
	Rating  int    `validate:"gte=1,lte=5"`
	Content string `validate:"required,max=5000"`
}

// ValidateStruct pre-flights a mutation input and returns field-level
// messages in the same shape the remote service uses, so views render
// local and remote rejections identically.
func ValidateStruct(s interface{}) []httpx.ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var details []httpx.ErrorDetail
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		tag := err.Tag()
		param := err.Param()

		var message string
		switch tag {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", field, param)
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, param)
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", field, param)
		case "lte":
			message = fmt.Sprintf("%s must be at most %s", field, param)
		case "workkey":
			message = fmt.Sprintf("%s must be a work key like /works/OL45883W", field)
		case "shelfstatus":
			message = fmt.Sprintf("%s must be one of want_to_read, reading, read", field)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		fieldName := strings.ToLower(field[:1]) + field[1:]
		details = append(details, httpx.ErrorDetail{
			Field:   fieldName,
			Message: message,
		})
	}

	return details
}

func validationError(details []httpx.ErrorDetail) error {
	return &gateway.Error{
		Kind:    gateway.KindValidation,
		Code:    "VALIDATION_ERROR",
		Message: "invalid input",
		Details: details,
	}
}
