package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/MosinFAM/arfixture/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var (
	errBadRequest    = errors.New("bad request")
	errNotAcceptable = errors.New("only json is served")
)

// validationError carries per-attribute messages rendered as a 422.
type validationError struct {
	Fields map[string][]string
}

func (e *validationError) Error() string {
	return fmt.Sprintf("invalid attributes: %v", e.Fields)
}

func (e *validationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return jsonName(field)
	})
	return v
}

func jsonName(field reflect.StructField) string {
	name := strings.Split(field.Tag.Get("json"), ",")[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// accessible lists the json keys of an attributes struct.
func accessible(attrs any) map[string]bool {
	t := reflect.TypeOf(attrs)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	keys := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name := jsonName(t.Field(i)); name != "" {
			keys[name] = true
		}
	}
	return keys
}

// bindAttributes decodes a request body into attrs, a pointer to one of the
// models.*Attributes whitelists. The body may be wrapped in root. Keys outside
// the whitelist are dropped.
func bindAttributes(c *gin.Context, root string, attrs any) error {
	raw, err := c.GetRawData()
	if err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return fmt.Errorf("%w: body must be a json object", errBadRequest)
	}
	if inner, ok := body[root]; ok && len(body) == 1 {
		if trimmed := bytes.TrimSpace(inner); len(trimmed) > 0 && trimmed[0] == '{' {
			body = nil
			if err := json.Unmarshal(inner, &body); err != nil {
				return fmt.Errorf("%w: %s must be a json object", errBadRequest, root)
			}
		}
	}

	allowed := accessible(attrs)
	var protected []string
	verr := &validationError{}
	for key, value := range body {
		if !allowed[key] {
			protected = append(protected, key)
			continue
		}
		// one key at a time so a bad value is reported against its attribute
		single, _ := json.Marshal(map[string]json.RawMessage{key: value})
		if err := json.Unmarshal(single, attrs); err != nil {
			verr.add(key, "is invalid")
		}
	}
	if len(protected) > 0 {
		sort.Strings(protected)
		log.Warn().Str("resource", root).Strs("attributes", protected).Msg("Can't mass-assign protected attributes")
	}

	if err := validate.Struct(attrs); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			verr.add(fe.Field(), validationMessage(fe))
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("is too long (maximum is %s characters)", fe.Param())
	default:
		return "is invalid"
	}
}

// stripFormat removes a .json suffix. Any other suffix is not acceptable.
func stripFormat(value string) (string, error) {
	i := strings.LastIndexByte(value, '.')
	if i < 0 {
		return value, nil
	}
	if value[i+1:] != "json" {
		return "", errNotAcceptable
	}
	return value[:i], nil
}

// pathID reads an integer id path parameter. Ids that are not integers can
// never name a row, so they are reported as not found.
func pathID(c *gin.Context, name string) (int64, error) {
	value, err := stripFormat(c.Param(name))
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, storage.ErrNotFound
	}
	return id, nil
}

func listOptions(c *gin.Context) storage.ListOptions {
	var opts storage.ListOptions
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		opts.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		opts.Offset = v
	}
	return opts
}

// queryID reads an optional integer filter such as poster_id.
func queryID(c *gin.Context, name string) (*int64, error) {
	value, ok := c.GetQuery(name)
	if !ok || value == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", errBadRequest, name)
	}
	return &id, nil
}
