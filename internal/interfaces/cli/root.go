package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd árbol de comandos de la consola.
func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "controle",
		Short:         "Consola de controle de estoque: solicitudes, usuarios y órdenes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String("token", "", "Token de sesión (o variable "+TokenEnv+")")
	cmd.AddCommand(
		newLoginCmd(app),
		newUserCmd(app),
		newRequestCmd(app),
		newOrdersCmd(app),
	)
	return cmd
}
