package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level "estatedesk" command with one command
// group per configured collection.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "estatedesk",
		Short:         "Staff console for the real-estate CMS",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			app.notices().SetOutput(cmd.ErrOrStderr())
		},
	}
	if app.GlobalFlags != nil {
		root.PersistentFlags().AddFlagSet(app.GlobalFlags)
	}

	for _, c := range app.collections() {
		root.AddCommand(newEntityCmd(app, c))
	}
	root.AddCommand(
		newExportsCmd(app),
		newBrowseCmd(app),
	)

	return root
}

// reportedError marks a failure whose message already reached the user
// as a notice.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err: err}
}

// IsReported reports whether err was already shown to the user, so the
// caller only needs to set the exit status.
func IsReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}
