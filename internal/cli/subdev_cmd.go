package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/estatedesk/internal/domain"
	"github.com/alexanderramin/estatedesk/internal/notify"
	"github.com/alexanderramin/estatedesk/internal/recordform"
)

func newSubDevCustomersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Assign customers to a sub development",
	}
	cmd.AddCommand(
		newSubDevCustomerChangeCmd(app, "add", "Assign a customer", app.SubDevCustomers.Add,
			"Customer %s is already assigned."),
		newSubDevCustomerChangeCmd(app, "remove", "Unassign a customer", app.SubDevCustomers.Remove,
			"Customer %s is not assigned."),
	)
	return cmd
}

type customerChange func(ctx context.Context, subDevelopmentID, customerID string) (domain.SubDevelopment, bool, error)

func newSubDevCustomerChangeCmd(app *App, use, short string, change customerChange, unchanged string) *cobra.Command {
	singular := domain.SubDevelopmentsEntity.Singular
	return &cobra.Command{
		Use:   use + " SUBDEV_ID CUSTOMER_ID",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, changed, err := change(cmd.Context(), args[0], args[1])
			if err != nil {
				notify.Error(app.notices(), recordform.UserMessage(err, recordform.ActionUpdate, singular))
				return reported(err)
			}
			if !changed {
				notify.Info(app.notices(), fmt.Sprintf(unchanged, args[1]))
				return nil
			}
			notify.Success(app.notices(), recordform.SuccessMessage(recordform.ActionUpdate, singular))
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", domain.Dash(sub.SubDevelopment), domain.Join(sub.Customers))
			return nil
		},
	}
}
