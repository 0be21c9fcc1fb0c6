package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/AlexZinkM/globepay/internal/config"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

const maxBodyBytes = 1 << 20

var (
	validate    = newValidator()
	queryBinder = schema.NewDecoder()
)

func init() {
	queryBinder.SetAliasTag("query")
	queryBinder.IgnoreUnknownKeys(true)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if tag, ok := fld.Tag.Lookup("query"); ok {
			return strings.SplitN(tag, ",", 2)[0]
		}
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	_ = v.RegisterValidation("network", func(fl validator.FieldLevel) bool {
		return config.IsNetwork(fl.Field().String())
	})
	return v
}

// BindError is a request that could not be decoded or failed validation.
type BindError struct {
	Message string
	Err     error
}

func (e *BindError) Error() string {
	return e.Message
}

func (e *BindError) Unwrap() error {
	return e.Err
}

func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		v := verrs[0]
		var message string
		switch v.ActualTag() {
		case "required":
			message = fmt.Sprintf("%s is required", v.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of (%s), got %v", v.Field(), v.Param(), v.Value())
		case "network":
			message = fmt.Sprintf("%s must be a known Solana cluster, got %v", v.Field(), v.Value())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", v.Field())
		case "gte", "lte":
			message = fmt.Sprintf("%s must be %s %s, got %v", v.Field(), v.ActualTag(), v.Param(), v.Value())
		default:
			message = fmt.Sprintf("validation failed on field %s, condition: %s", v.Field(), v.ActualTag())
		}
		return &BindError{Message: message, Err: err}
	}
	return &BindError{Message: "invalid request: " + err.Error(), Err: err}
}

// bind fills T from struct defaults, then the query string, then a JSON body,
// and validates the result.
func bind[T any](r *http.Request) (*T, error) {
	data := new(T)
	if err := defaults.Set(data); err != nil {
		return nil, bindError(err)
	}
	if err := queryBinder.Decode(data, r.URL.Query()); err != nil {
		return nil, bindError(err)
	}
	if r.Body != nil {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			return nil, bindError(err)
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, data); err != nil {
				return nil, bindError(err)
			}
		}
	}
	if err := validate.Struct(data); err != nil {
		return nil, bindError(err)
	}
	return data, nil
}
