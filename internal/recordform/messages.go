package recordform

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/alexanderramin/estatedesk/internal/cms"
)

// Action names the operation a failure message refers to.
type Action string

const (
	ActionAdd    Action = "add"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

const (
	NoChangesMessage  = "No changes detected."
	BadRequestMessage = "Bad request. Please check your input."
	TimeoutMessage    = "The server timed out. Please try again in a moment."
)

// UserMessage maps a failed submit to the text shown to the user: the
// server's own message for a 400 when it sent one, a timeout notice for a
// 504, and a generic failure otherwise.
func UserMessage(err error, action Action, singular string) string {
	switch {
	case cms.StatusOf(err) == http.StatusBadRequest:
		if msg := cms.MessageOf(err); msg != "" {
			return msg
		}
		return BadRequestMessage
	case errors.Is(err, cms.ErrTimeout):
		return TimeoutMessage
	}
	return fmt.Sprintf("Failed to %s %s. Please try again.", action, singular)
}

// SuccessMessage is shown after a completed submit.
func SuccessMessage(action Action, singular string) string {
	past := map[Action]string{ActionAdd: "added", ActionUpdate: "updated", ActionDelete: "deleted"}[action]
	return fmt.Sprintf("%s %s successfully.", capitalize(singular), past)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
