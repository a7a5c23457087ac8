package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"pdf-rag-be/internal/pkg/apperrors"
)

var validate = validator.New()

func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Validation("invalid request body")
	}

	fields := make([]string, len(ve))
	for i, fe := range ve {
		fields[i] = fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag())
	}
	return apperrors.Validation("invalid request: " + strings.Join(fields, ", "))
}
