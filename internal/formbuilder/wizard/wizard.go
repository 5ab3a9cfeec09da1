// Package wizard drives the step-by-step application form flow. It holds the
// applicant's answers, validates each step before allowing advancement, and
// yields the response set once every step has passed.
package wizard

import (
	"fmt"

	"intake/internal/formbuilder/models"
	dErrors "intake/pkg/domain-errors"
)

// Wizard is a multi-step walk through a form. It is not safe for concurrent
// use; one wizard serves one applicant session.
type Wizard struct {
	steps   [][]models.Field
	answers map[string]string
	step    int
	done    bool
}

// New builds a wizard over the given steps. Every field definition must be
// valid and field IDs must be unique across the whole form.
func New(steps [][]models.Field) (*Wizard, error) {
	if len(steps) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "form has no steps")
	}
	seen := make(map[string]struct{})
	for i, fields := range steps {
		if len(fields) == 0 {
			return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("step %d has no fields", i+1))
		}
		for _, f := range fields {
			if err := f.Validate(); err != nil {
				return nil, err
			}
			if f.ID == "" {
				return nil, dErrors.New(dErrors.CodeValidation, "field "+f.Label+" has no id")
			}
			if _, dup := seen[f.ID]; dup {
				return nil, dErrors.New(dErrors.CodeValidation, "duplicate field id "+f.ID)
			}
			seen[f.ID] = struct{}{}
		}
	}
	return &Wizard{steps: steps, answers: make(map[string]string)}, nil
}

// StepIndex returns the zero-based current step.
func (w *Wizard) StepIndex() int { return w.step }

// StepCount returns the number of steps.
func (w *Wizard) StepCount() int { return len(w.steps) }

// Current returns the fields of the current step.
func (w *Wizard) Current() []models.Field { return w.steps[w.step] }

// Done reports whether the final step has been completed.
func (w *Wizard) Done() bool { return w.done }

// Answer records one response on the current step, validating it against the
// field definition first.
func (w *Wizard) Answer(fieldID, value string) error {
	if w.done {
		return dErrors.New(dErrors.CodeValidation, "form is already complete")
	}
	field := w.find(fieldID)
	if field == nil {
		return dErrors.New(dErrors.CodeValidation, "field "+fieldID+" is not on this step")
	}
	if err := field.CheckResponse(value); err != nil {
		return err
	}
	w.answers[fieldID] = value
	return nil
}

// Next validates every field of the current step and advances. Completing the
// final step marks the wizard done.
func (w *Wizard) Next() error {
	if w.done {
		return dErrors.New(dErrors.CodeValidation, "form is already complete")
	}
	for _, f := range w.Current() {
		if err := f.CheckResponse(w.answers[f.ID]); err != nil {
			return err
		}
	}
	if w.step == len(w.steps)-1 {
		w.done = true
		return nil
	}
	w.step++
	return nil
}

// Back returns to the previous step. Recorded answers are kept.
func (w *Wizard) Back() error {
	if w.step == 0 {
		return dErrors.New(dErrors.CodeValidation, "already on the first step")
	}
	if w.done {
		w.done = false
		return nil
	}
	w.step--
	return nil
}

// Responses returns a copy of the collected answers. Only meaningful once
// Done reports true, but callers may peek mid-flight for previews.
func (w *Wizard) Responses() map[string]string {
	out := make(map[string]string, len(w.answers))
	for k, v := range w.answers {
		out[k] = v
	}
	return out
}

func (w *Wizard) find(fieldID string) *models.Field {
	fields := w.Current()
	for i := range fields {
		if fields[i].ID == fieldID {
			return &fields[i]
		}
	}
	return nil
}
