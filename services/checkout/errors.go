package checkout

import (
	"errors"
	"fmt"

	"ecofix/models"
)

var (
	ErrSessionNotFound  = errors.New("checkout session not found or expired")
	ErrScheduleRequired = errors.New("please select a date and time")
)

// StepError reports an action that is not available in the session's current step.
type StepError struct {
	Action string
	Step   models.CheckoutStep
}

func (e *StepError) Error() string {
	return fmt.Sprintf("cannot %s during the %s step", e.Action, e.Step)
}
