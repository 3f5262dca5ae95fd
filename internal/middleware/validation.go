package middleware

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/SeattleChris/hepcat-sub000/internal/app/models/dto"
)

// ValidatedBodyKey is the context key under which ValidateRequest stores the
// bound request body.
const ValidatedBodyKey = "validatedBody"

var validate = validator.New()

// ValidateRequest binds and validates the JSON request body against the type
// of the given prototype, storing the result in the context for the handler.
// A fresh instance is allocated per request.
func ValidateRequest(prototype interface{}) gin.HandlerFunc {
	bodyType := reflect.TypeOf(prototype)
	if bodyType.Kind() == reflect.Ptr {
		bodyType = bodyType.Elem()
	}

	return func(c *gin.Context) {
		body := reflect.New(bodyType).Interface()

		if err := c.ShouldBindJSON(body); err != nil {
			var fieldErrors validator.ValidationErrors
			if errors.As(err, &fieldErrors) {
				c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
			} else {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
				errorDetail = errorDetail.WithDetails(err.Error())
				c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			}
			c.Abort()
			return
		}

		if err := validate.Struct(reflect.ValueOf(body).Elem().Interface()); err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
			c.Abort()
			return
		}

		c.Set(ValidatedBodyKey, body)
		c.Next()
	}
}
