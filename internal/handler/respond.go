package handler

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/middleware"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/errors"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/logger"
)

// Response is the success envelope every JSON endpoint returns
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

const maxBodyBytes = 1 << 20

// base carries what every handler needs to decode, validate and respond
type base struct {
	log      *logger.Logger
	validate *validator.Validate
}

func newBase(log *logger.Logger) base {
	if log == nil {
		log = logger.Nop()
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json field names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return base{log: log, validate: v}
}

func (b base) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Response{Success: true, Data: data}); err != nil {
		b.log.WithError(err).Error("Failed to encode response")
	}
}

// respondError renders any error; non-AppErrors become a generic internal error
func (b base) respondError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.As(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		b.log.WithError(appErr).WithField("path", r.URL.Path).Error("Request error")
	}
	errors.Write(w, appErr, middleware.RequestIDFromContext(r.Context()))
}

// actor returns the authenticated actor or writes a 401
func (b base) actor(w http.ResponseWriter, r *http.Request) (*domain.Actor, bool) {
	actor := middleware.ActorFromContext(r.Context())
	if actor == nil {
		b.respondError(w, r, errors.NewAuthenticationError("Authentication required"))
		return nil, false
	}
	return actor, true
}

// decode reads a JSON body into dst and validates its tags
func (b base) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		b.respondError(w, r, errors.NewValidationError("Invalid request body", map[string]interface{}{"body": err.Error()}))
		return false
	}
	if err := b.validate.Struct(dst); err != nil {
		b.respondError(w, r, validationError(err))
		return false
	}
	return true
}

func validationError(err error) *errors.AppError {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.NewValidationError("Invalid request", nil)
	}
	details := make(map[string]interface{}, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		details[fe.Field()] = rule
	}
	return errors.NewValidationError("Request validation failed", details)
}

// queryInt parses an optional integer query parameter
func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewValidationError("Invalid query parameter", map[string]interface{}{key: raw})
	}
	return n, nil
}

func queryBool(r *http.Request, key string) (bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.NewValidationError("Invalid query parameter", map[string]interface{}{key: raw})
	}
	return v, nil
}
