package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-kit/kit/log/level"
	"github.com/go-playground/validator/v10"

	"StockDashboard/internal/model"
)

type symbolForm struct {
	Symbol string `validate:"max=32,printascii"`
}

// Dates come from <input type="date">, which submits YYYY-MM-DD or nothing.
type datesForm struct {
	Start string `validate:"omitempty,datetime=2006-01-02"`
	End   string `validate:"omitempty,datetime=2006-01-02"`
}

type timeframeForm struct {
	Label string `validate:"required,timeframe"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("timeframe", func(fl validator.FieldLevel) bool {
		_, ok := model.TimeframeByLabel(fl.Field().String())
		return ok
	})
	return v
}

// bindForm parses the request form into dst and validates it. On failure it
// writes a 400 and returns false.
func (s *Server) bindForm(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := r.ParseForm(); err != nil {
		s.badRequest(w, r, "invalid form")
		return false
	}
	switch f := dst.(type) {
	case *symbolForm:
		f.Symbol = strings.TrimSpace(r.PostForm.Get("symbol"))
	case *datesForm:
		f.Start = strings.TrimSpace(r.PostForm.Get("start"))
		f.End = strings.TrimSpace(r.PostForm.Get("end"))
	case *timeframeForm:
		f.Label = strings.TrimSpace(r.PostForm.Get("label"))
	default:
		panic(fmt.Sprintf("web: unsupported form %T", dst))
	}
	if err := s.validate.Struct(dst); err != nil {
		s.badRequest(w, r, validationMessage(err))
		return false
	}
	return true
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	_ = level.Warn(s.logger).Log("msg", "rejected form", "request_id", RequestID(r.Context()), "path", r.URL.Path, "reason", msg)
	if wantsJSON(r) {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}
	http.Error(w, msg, http.StatusBadRequest)
}

func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "datetime":
		return fmt.Sprintf("%s must be a date like 2024-06-10", field)
	case "timeframe":
		return fmt.Sprintf("unknown timeframe %q", fe.Value())
	default:
		return fmt.Sprintf("invalid %s", field)
	}
}
