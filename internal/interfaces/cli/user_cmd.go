package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jhoicas/controle-estoque/internal/application/dto"
)

func newLoginCmd(app *App) *cobra.Command {
	var in dto.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Inicia sesión e imprime el token",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := app.Auth.Login(cmd.Context(), in)
			if err != nil {
				return err
			}
			return app.writeJSON(out)
		},
	}
	cmd.Flags().StringVar(&in.Identifier, "user", "", "Email o nombre de usuario")
	cmd.Flags().StringVar(&in.Password, "password", "", "Contraseña")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Administración de usuarios",
	}
	cmd.AddCommand(
		newUserBootstrapCmd(app),
		newUserCreateCmd(app),
		newUserListCmd(app),
		newUserPasswdCmd(app),
		newUserRoleCmd(app),
		newUserAlertCmd(app),
		newUserAckCmd(app),
		newUserDeleteCmd(app),
	)
	return cmd
}

func newUserCreateCmd(app *App) *cobra.Command {
	var in dto.CreateUserRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Crea un usuario sin pasar por solicitud (administrador)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireAdmin(cmd); err != nil {
				return err
			}
			out, err := app.Auth.CreateUser(cmd.Context(), in)
			if err != nil {
				return err
			}
			return app.writeJSON(out)
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "Nombre de usuario")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email")
	cmd.Flags().StringVar(&in.Password, "password", "", "Contraseña")
	cmd.Flags().StringVar(&in.Role, "role", "", "USUARIO | ADMINISTRADOR")
	return cmd
}

func newUserBootstrapCmd(app *App) *cobra.Command {
	var in dto.CreateUserRequest
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Crea el primer administrador (solo con la base vacía)",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := app.Auth.BootstrapAdmin(cmd.Context(), in)
			if err != nil {
				return err
			}
			return app.writeJSON(out)
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "Nombre de usuario")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email")
	cmd.Flags().StringVar(&in.Password, "password", "", "Contraseña")
	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lista usuarios (administrador)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireAdmin(cmd); err != nil {
				return err
			}
			out, err := app.Auth.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			return app.writeJSON(out)
		},
	}
}

func newUserPasswdCmd(app *App) *cobra.Command {
	var in dto.ChangePasswordRequest
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Cambia la contraseña del usuario de la sesión",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd)
			if err != nil {
				return err
			}
			in.UserID = s.UserID
			if err := app.Auth.ChangePassword(cmd.Context(), in); err != nil {
				return err
			}
			return app.writeJSON(map[string]string{"status": "ok"})
		},
	}
	cmd.Flags().StringVar(&in.CurrentPassword, "current", "", "Contraseña actual")
	cmd.Flags().StringVar(&in.NewPassword, "new", "", "Nueva contraseña")
	return cmd
}

func newUserRoleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "role USER_ID ROLE",
		Short: "Cambia el rol de un usuario (administrador)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireAdmin(cmd); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.Auth.SetRole(cmd.Context(), id, args[1]); err != nil {
				return err
			}
			return app.writeJSON(map[string]any{"user_id": id, "role": args[1]})
		},
	}
}

func newUserAlertCmd(app *App) *cobra.Command {
	var in dto.AlertRequest
	cmd := &cobra.Command{
		Use:   "alert USER_ID",
		Short: "Deja un aviso a un usuario (administrador)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.requireAdmin(cmd)
			if err != nil {
				return err
			}
			if in.UserID, err = parseID(args[0]); err != nil {
				return err
			}
			in.Sender = s.Name
			if err := app.Auth.SetAlert(cmd.Context(), in); err != nil {
				return err
			}
			return app.writeJSON(map[string]string{"status": "ok"})
		},
	}
	cmd.Flags().StringVar(&in.Message, "message", "", "Mensaje")
	cmd.Flags().StringVar(&in.Priority, "priority", "MEDIA", "BAIXA | MEDIA | ALTA")
	return cmd
}

func newUserAckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ack",
		Short: "Muestra y confirma el aviso del usuario de la sesión",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd)
			if err != nil {
				return err
			}
			user, err := app.Auth.GetUser(cmd.Context(), s.UserID)
			if err != nil {
				return err
			}
			if err := app.Auth.AcknowledgeAlert(cmd.Context(), s.UserID); err != nil {
				return err
			}
			return app.writeJSON(map[string]string{
				"message":  user.AlertMessage,
				"priority": user.AlertPriority,
				"sender":   user.AlertSender,
			})
		},
	}
}

func newUserDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete USER_ID",
		Short: "Elimina un usuario (administrador)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireAdmin(cmd); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.Auth.DeleteUser(cmd.Context(), id); err != nil {
				return err
			}
			return app.writeJSON(map[string]any{"user_id": id, "deleted": true})
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id inválido %q", s)
	}
	return id, nil
}
