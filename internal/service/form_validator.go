package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "unihub/internal/errors"
	"unihub/internal/model"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// AnswerInput is one answer submitted with an event registration form.
type AnswerInput struct {
	QuestionID uint   `json:"questionId"`
	AnswerText string `json:"answerText"`
}

// FormValidator validates registration answers against an event's questions.
type FormValidator struct {
	validate *validator.Validate
}

// NewFormValidator creates a new form validator.
func NewFormValidator() *FormValidator {
	v := validator.New()
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(normalizePhone(fl.Field().String()))
	})
	return &FormValidator{validate: v}
}

// ValidateAnswers requires exactly one answer per question, each matching its
// question type. It returns the answers ready to be stored.
func (v *FormValidator) ValidateAnswers(questions []model.EventFormQuestion, answers []AnswerInput) ([]model.EventFormAnswer, error) {
	byID := make(map[uint]model.EventFormQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	given := make(map[uint]string, len(answers))
	for _, a := range answers {
		if _, ok := byID[a.QuestionID]; !ok {
			return nil, apperrors.InvalidAnswers(fmt.Sprintf("question %d does not belong to this event", a.QuestionID))
		}
		if _, dup := given[a.QuestionID]; dup {
			return nil, apperrors.InvalidAnswers(fmt.Sprintf("question %d answered more than once", a.QuestionID))
		}
		given[a.QuestionID] = strings.TrimSpace(a.AnswerText)
	}

	out := make([]model.EventFormAnswer, 0, len(questions))
	for _, q := range questions {
		text, ok := given[q.ID]
		if !ok || text == "" {
			return nil, apperrors.InvalidAnswers(fmt.Sprintf("%q must be answered", q.QuestionText))
		}
		normalized, err := v.validateAnswer(q.QuestionType, text)
		if err != nil {
			return nil, apperrors.InvalidAnswers(fmt.Sprintf("%q: %s", q.QuestionText, err.Error()))
		}
		out = append(out, model.EventFormAnswer{QuestionID: q.ID, AnswerText: normalized})
	}
	return out, nil
}

func (v *FormValidator) validateAnswer(t model.QuestionType, text string) (string, error) {
	switch t {
	case model.QuestionBoolean:
		lower := strings.ToLower(text)
		if v.validate.Var(lower, "oneof=true false") != nil {
			return "", fmt.Errorf("answer must be true or false")
		}
		return lower, nil
	case model.QuestionEmail:
		if v.validate.Var(text, "email") != nil {
			return "", fmt.Errorf("answer must be an email address")
		}
		return text, nil
	case model.QuestionPhone:
		if v.validate.Var(text, "phone") != nil {
			return "", fmt.Errorf("answer must be a phone number")
		}
		return normalizePhone(text), nil
	default:
		return text, nil
	}
}

func normalizePhone(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(s)
}
