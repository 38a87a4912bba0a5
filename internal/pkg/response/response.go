package response

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/service"
	stdjson "encoding/json"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// Success 成功返回封装
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.Response{
		Success: true,
		Data:    data,
	})
}

// SuccessMsg 带提示语的成功返回
func SuccessMsg(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, dto.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Fail 失败返回封装
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, dto.Response{
		Success: false,
		Message: message,
		Error:   service.KindOf(status),
	})
}

// Error 处理错误
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, http.StatusBadRequest, validationMessage(ve))
		return
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &unmarshalTypeError) {
		Fail(c, http.StatusBadRequest, "malformed json: field "+unmarshalTypeError.Field)
		return
	}

	var stdTypeError *stdjson.UnmarshalTypeError
	if errors.As(err, &stdTypeError) {
		Fail(c, http.StatusBadRequest, "malformed json: field "+stdTypeError.Field)
		return
	}

	var syntaxError *json.SyntaxError
	var stdSyntaxError *stdjson.SyntaxError
	if errors.As(err, &syntaxError) || errors.As(err, &stdSyntaxError) {
		Fail(c, http.StatusBadRequest, "malformed json")
		return
	}

	code, ok := service.StatusOf(err)
	if !ok {
		log.ErrorContext(c.Request.Context(), "Unhandled error", "err", err)
	}
	Fail(c, code, err.Error())
}

func validationMessage(ve validator.ValidationErrors) string {
	if len(ve) == 0 {
		return service.ErrParamInvalid.Error()
	}
	first := ve[0]
	return "field " + first.Field() + " failed on " + first.Tag()
}
