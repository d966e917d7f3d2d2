package handlers

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

// BindJSON binds and validates the request body, writing a structured 400
// on failure. Returns false when the handler should stop.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		RespondBadRequest(ctx, "Invalid request body", parseBindError(err, out))

		return false
	}

	return true
}

func parseBindError(err error, out interface{}) interface{} {
	var validatorErrs validator.ValidationErrors

	if errors.As(err, &validatorErrs) {
		fields := make([]FieldError, 0, len(validatorErrs))

		for _, fe := range validatorErrs {
			rule := fe.Tag()
			param := fe.Param()

			fields = append(fields, FieldError{
				Field:   jsonFieldName(out, fe.StructField()),
				Rule:    rule,
				Param:   param,
				Message: validationMessage(rule, param),
			})
		}

		return gin.H{"fields": fields}
	}

	var syntaxErr *json.SyntaxError

	if errors.As(err, &syntaxErr) {
		return gin.H{"json": "invalid_json_syntax"}
	}

	var typeErr *json.UnmarshalTypeError

	if errors.As(err, &typeErr) {
		return gin.H{
			"json":  "invalid_json_type",
			"field": typeErr.Field,
			"fields": []FieldError{
				{
					Field:   typeErr.Field,
					Rule:    "type",
					Message: "must be of type " + typeErr.Type.String(),
				},
			},
		}
	}

	// final fallback if the error could not be deciphered
	return gin.H{"reason": err.Error()}
}

// jsonFieldName resolves a struct field's json tag on the bound request
// type; falls back to the Go field name.
func jsonFieldName(out interface{}, structField string) string {
	t := reflect.TypeOf(out)

	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == nil || t.Kind() != reflect.Struct {
		return structField
	}

	sf, ok := t.FieldByName(structField)
	if !ok {
		return structField
	}

	tag := sf.Tag.Get("json")
	name, _, _ := strings.Cut(tag, ",")

	if name == "" || name == "-" {
		return structField
	}

	return name
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	default:
		if param != "" {
			return "failed " + rule + " validation (" + param + ")"
		}
		return "failed " + rule + " validation"
	}
}
