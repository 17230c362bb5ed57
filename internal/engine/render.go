package engine

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Dialog titles and texts shared by every dialog implementation.
const (
	TitleFailed    = "Failed ✗"
	TitleCompleted = "Completed ✔"

	NoSelectionMessage = "The operation failed because no mesh selection was found."

	LabelRestart = "Select & Try Again"
	LabelCancel  = "Cancel"
	LabelRetry   = "Try Again"
	LabelSkip    = "Skip"
	LabelClose   = "Close"
)

// FailureMessage is the body of the per-item failure dialog.
func FailureMessage(h MeshHandle, err error) string {
	return fmt.Sprintf("An unexpected error was encountered.\nDetails of the error: %v\nerror caught in the %s object",
		err, h.Name)
}

// CompletionMessage is the body of the completion notice.
//
// The count is the pre-run worklist size. Skipped items are still counted,
// and are called out on a separate line.
func CompletionMessage(s Summary) string {
	p := message.NewPrinter(language.English)

	var b strings.Builder
	b.WriteString("UV mapping process(es) completed successfully.\n")
	b.WriteString(p.Sprintf("UV map(s) of '%d' mesh(es) were created.", s.Reported))
	if s.Skipped > 0 {
		b.WriteString(p.Sprintf("\n(%d skipped)", s.Skipped))
	}
	return b.String()
}
