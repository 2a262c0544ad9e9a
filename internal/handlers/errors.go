package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dimitrije/volunteer-api/internal/services"
	"github.com/dimitrije/volunteer-api/pkg/dto"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

const (
	codeBadRequest   = "bad_request"
	codeUnauthorized = "unauthorized"
	codeForbidden    = "forbidden"
	codeNotFound     = "not_found"
	codeConflict     = "conflict"
	codeValidation   = "validation"
	codeInternal     = "internal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeError(c *drift.Context, status int, code, message string) {
	_ = c.JSON(status, dto.ErrorResponse{Code: code, Message: message})
}

// respondError maps a service error onto its HTTP status. Only internal
// failures are logged.
func respondError(c *drift.Context, logger *zap.Logger, op string, err error, fields ...zap.Field) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeError(c, 404, codeNotFound, kindMessage(err, services.ErrNotFound))
	case errors.Is(err, services.ErrConflict):
		writeError(c, 409, codeConflict, kindMessage(err, services.ErrConflict))
	case errors.Is(err, services.ErrValidation):
		writeError(c, 422, codeValidation, kindMessage(err, services.ErrValidation))
	default:
		logger.Error("request failed", append(append([]zap.Field{zap.String("op", op)}, fields...), zap.Error(err))...)
		writeError(c, 500, codeInternal, "internal server error")
	}
}

// kindMessage drops the leading "<kind>: " so clients see only the detail.
func kindMessage(err, kind error) string {
	return strings.TrimPrefix(err.Error(), kind.Error()+": ")
}

// bindJSON decodes and validates the request body, answering 400 or 422 itself.
func bindJSON(c *drift.Context, req any) bool {
	if err := c.BindJSON(req); err != nil {
		writeError(c, 400, codeBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(req); err != nil {
		writeError(c, 422, codeValidation, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

func parseID(c *drift.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		writeError(c, 400, codeBadRequest, "invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}
