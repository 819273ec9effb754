package helper

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
)

const (
	textError = `error`
	textOk    = `ok`
)

// ResponseHelper ...
type ResponseHelper struct {
	C       *gin.Context
	Status  string
	Message string
	Data    interface{}
	Code    int
}

// HTTPHelper ...
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
}

func (u *HTTPHelper) getTypeData(i interface{}) string {
	v := reflect.ValueOf(i)
	v = reflect.Indirect(v)

	return v.Type().String()
}

// GetStatusCode maps the service error taxonomy onto HTTP status codes.
func (u *HTTPHelper) GetStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch u.getTypeData(err) {
	case "models.ErrorValidation":
		return http.StatusBadRequest
	case "models.ErrorUnauthorized":
		return http.StatusUnauthorized
	case "models.ErrorNotFound":
		return http.StatusNotFound
	case "models.ErrorConflict":
		return http.StatusConflict
	case "models.ErrorStorageCollision":
		// Retryable: the generated key clashed, a fresh attempt gets a new one.
		return http.StatusServiceUnavailable
	case "models.ErrorStorageIO":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// SetResponse ...
// Set response data.
func (u *HTTPHelper) SetResponse(c *gin.Context, status string, message string, data interface{}, code int) ResponseHelper {
	return ResponseHelper{c, status, message, data, code}
}

// SendServiceError ...
// Send a service-layer error with the status its type maps to.
func (u *HTTPHelper) SendServiceError(c *gin.Context, err error) error {
	code := u.GetStatusCode(err)
	res := u.SetResponse(c, textError, err.Error(), u.EmptyJsonMap(), code)

	return u.SendResponse(res)
}

// SendBadRequest ...
// Send bad request response to consumers.
func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textError, message, data, http.StatusBadRequest)

	return u.SendResponse(res)
}

// SendValidationError ...
// Send binding validation errors to consumers.
func (u *HTTPHelper) SendValidationError(c *gin.Context, validationErrors validator.ValidationErrors) error {
	errorResponse := map[string][]string{}
	errorTranslation := validationErrors.Translate(u.Translator)
	for _, err := range validationErrors {
		errKey := Underscore(err.StructField())
		errorResponse[errKey] = append(errorResponse[errKey], errorTranslation[err.Namespace()])
	}

	c.JSON(http.StatusBadRequest, map[string]interface{}{
		"code":         http.StatusBadRequest,
		"status":       textError,
		"code_message": errorResponse,
		"data":         u.EmptyJsonMap(),
	})
	return nil
}

// SendUnauthorizedError ...
// Send unauthorized response to consumers.
func (u *HTTPHelper) SendUnauthorizedError(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textError, message, data, http.StatusUnauthorized)

	return u.SendResponse(res)
}

// SendNotFoundError ...
// Send not found response to consumers.
func (u *HTTPHelper) SendNotFoundError(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textError, message, data, http.StatusNotFound)

	return u.SendResponse(res)
}

// SendSuccess ...
// Send success response to consumers.
func (u *HTTPHelper) SendSuccess(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textOk, message, data, http.StatusOK)

	return u.SendResponse(res)
}

// SendCreated ...
// Send created response to consumers.
func (u *HTTPHelper) SendCreated(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textOk, message, data, http.StatusCreated)

	return u.SendResponse(res)
}

// SendNoContent ...
func (u *HTTPHelper) SendNoContent(c *gin.Context) error {
	c.Status(http.StatusNoContent)
	return nil
}

// SendResponse ...
// Send response
func (u *HTTPHelper) SendResponse(res ResponseHelper) error {
	if len(res.Message) == 0 {
		res.Message = `success`
	}

	res.C.JSON(res.Code, map[string]interface{}{
		"code":         res.Code,
		"status":       res.Status,
		"code_message": res.Message,
		"data":         res.Data,
	})
	return nil
}

func (u *HTTPHelper) EmptyJsonMap() map[string]interface{} {
	return make(map[string]interface{})
}

// Underscore converts a StructField name like "FirstName" to "first_name".
func Underscore(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
