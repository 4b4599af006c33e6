package cli

import (
	"context"
	"errors"
	"fmt"

	"lexflow/backend/internal/dialogue"
	"lexflow/backend/internal/services"
	"lexflow/backend/pkg/models"
)

// Fill runs the dialogue of workflow id to completion, asking driver for
// each answer. The field's suggestion is offered as the default answer.
// Assistant turns are relayed through driver.Info as they are produced.
func Fill(ctx context.Context, svc services.Workflows, driver PromptDriver, ownerID, id string) (*models.Workflow, error) {
	wf, err := svc.StartDialogue(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	shown, err := relay(ctx, driver, wf, 0)
	if err != nil {
		return nil, err
	}

	for !wf.IsComplete() {
		field := wf.FieldByID(wf.ActiveFieldID)
		if field == nil {
			return nil, fmt.Errorf("%w: %q", dialogue.ErrUnknownField, wf.ActiveFieldID)
		}

		answer, err := ask(ctx, driver, field)
		if err != nil {
			return nil, err
		}

		res, err := svc.SubmitAnswer(ctx, ownerID, id, answer)
		if err != nil {
			return nil, err
		}
		wf = res.Workflow
		if shown, err = relay(ctx, driver, wf, shown); err != nil {
			return nil, err
		}
	}
	return wf, nil
}

func ask(ctx context.Context, driver PromptDriver, field *models.Field) (string, error) {
	if field.Type == models.FieldTypeTextarea {
		return driver.TextArea(ctx, TextAreaConfig{
			Message: field.Label,
			Default: field.Suggestion,
			Help:    field.ValidationRule,
		})
	}
	return driver.Input(ctx, InputConfig{
		Message: field.Label,
		Default: field.Suggestion,
		Help:    field.ValidationRule,
		Validator: func(v string) error {
			if err := dialogue.Validate(field.Type, v); err != nil {
				return errors.New(dialogue.ReasonText(err))
			}
			return nil
		},
	})
}

// relay prints the assistant turns after the first shown turns and returns
// the new count.
func relay(ctx context.Context, driver PromptDriver, wf *models.Workflow, shown int) (int, error) {
	for _, turn := range wf.Conversation[min(shown, len(wf.Conversation)):] {
		if turn.Role != models.RoleAssistant {
			continue
		}
		if err := driver.Info(ctx, turn.Text); err != nil {
			return shown, err
		}
	}
	return len(wf.Conversation), nil
}
