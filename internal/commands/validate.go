package commands

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"studytrack/internal/assignment"
)

// DateLayout is the date-only form accepted by --due.
const DateLayout = "2006-01-02"

var (
	validate   *validator.Validate
	translator ut.Translator

	// custom validation tags & texts
	requiredTag  = "required"
	requiredText = "{0} is required"

	dueDateTag  = "duedate"
	dueDateText = "invalid {0}: {1} (want YYYY-MM-DD or RFC 3339)"

	priorityTag  = "priority"
	priorityText = "invalid {0}: {1} (want low, medium or high)"

	subjectTag  = "subject"
	subjectText = "unknown {0}: {1}"
)

type subjectsKey struct{}

// withSubjects attaches the accepted subjects for the subject tag.
func withSubjects(ctx context.Context, subjects []string) context.Context {
	return context.WithValue(ctx, subjectsKey{}, subjects)
}

func init() {
	validate = validator.New()

	// Register the english error messages for validation errors.
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use flag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("flag")
	})

	// register custom validators
	_ = validate.RegisterValidation(dueDateTag, func(fl validator.FieldLevel) bool {
		_, err := parseDue(fl.Field().String(), time.UTC)
		return err == nil
	})
	_ = validate.RegisterValidation(priorityTag, func(fl validator.FieldLevel) bool {
		_, err := assignment.ParsePriority(fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidationCtx(subjectTag, func(ctx context.Context, fl validator.FieldLevel) bool {
		subjects, _ := ctx.Value(subjectsKey{}).([]string)
		_, ok := matchSubject(fl.Field().String(), subjects)
		return ok
	})

	registerTranslation(requiredTag, requiredText, true)
	registerTranslation(dueDateTag, dueDateText, false)
	registerTranslation(priorityTag, priorityText, false)
	registerTranslation(subjectTag, subjectText, false)
}

// registerTranslation registers a translation for tag; {0} is the field and
// {1} the offending value.
func registerTranslation(tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field(), fmt.Sprint(fe.Value()))
			return s
		},
	)
}

// validationMessages validates s and returns one message per failed field.
func validationMessages(ctx context.Context, s interface{}) []string {
	err := validate.StructCtx(ctx, s)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, fe.Translate(translator))
	}
	return msgs
}

// parseDue accepts a date (midnight in loc) or an RFC 3339 timestamp.
func parseDue(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// matchSubject finds s among subjects, ignoring case, and returns the
// configured spelling. Any non-blank subject matches an empty list.
func matchSubject(s string, subjects []string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(subjects) == 0 {
		return s, true
	}
	for _, known := range subjects {
		if strings.EqualFold(strings.TrimSpace(known), s) {
			return known, true
		}
	}
	return "", false
}
