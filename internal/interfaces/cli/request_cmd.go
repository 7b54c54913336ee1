package cli

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/controle-estoque/internal/application/dto"
	"github.com/jhoicas/controle-estoque/internal/application/requests"
	"github.com/jhoicas/controle-estoque/internal/domain"
	"github.com/jhoicas/controle-estoque/internal/domain/entity"
)

func newRequestCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "request",
		Aliases: []string{"req"},
		Short:   "Solicitudes: envío, bandeja y resolución",
	}
	submit := &cobra.Command{
		Use:   "submit",
		Short: "Envía una solicitud",
	}
	submit.AddCommand(
		newSubmitRegistrationCmd(app),
		newSubmitPasswordCmd(app),
		newSubmitFileCmd(app, entity.KindDocument),
		newSubmitFileCmd(app, entity.KindReport),
	)
	cmd.AddCommand(
		submit,
		newRequestListCmd(app),
		newResolveCmd(app, true),
		newResolveCmd(app, false),
		newRequestDeleteCmd(app),
	)
	return cmd
}

func newSubmitRegistrationCmd(app *App) *cobra.Command {
	var in dto.RegistrationRequest
	cmd := &cobra.Command{
		Use:   "registration",
		Short: "Solicita el alta de un usuario",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := app.Requests.SubmitRegistration(cmd.Context(), in)
			if err != nil {
				return err
			}
			return app.writeJSON(requests.ToResponse(req))
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "Nombre de usuario")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email")
	cmd.Flags().StringVar(&in.Password, "password", "", "Contraseña")
	return cmd
}

func newSubmitPasswordCmd(app *App) *cobra.Command {
	var in dto.PasswordResetRequest
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Solicita un cambio de contraseña",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := app.Requests.SubmitPasswordReset(cmd.Context(), in)
			if err != nil {
				return err
			}
			return app.writeJSON(requests.ToResponse(req))
		},
	}
	cmd.Flags().StringVar(&in.UserName, "name", "", "Nombre de usuario")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email")
	cmd.Flags().StringVar(&in.NewPassword, "new", "", "Nueva contraseña")
	return cmd
}

func newSubmitFileCmd(app *App, kind entity.Kind) *cobra.Command {
	var title, description, name, path string
	cmd := &cobra.Command{
		Use:   string(kind),
		Short: "Adjunta un archivo como " + string(kind),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.session(cmd); err != nil {
				return err
			}
			var (
				req *entity.Request
				err error
			)
			if kind == entity.KindDocument {
				req, err = app.Requests.SubmitDocument(cmd.Context(), dto.DocumentRequest{
					Title: title, Description: description, FileName: name, FilePath: path,
				})
			} else {
				req, err = app.Requests.SubmitReport(cmd.Context(), dto.ReportRequest{
					Title: title, Description: description, FileName: name, FilePath: path,
				})
			}
			if err != nil {
				return err
			}
			return app.writeJSON(requests.ToResponse(req))
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Título")
	cmd.Flags().StringVar(&description, "description", "", "Descripción")
	cmd.Flags().StringVar(&name, "name", "", "Nombre visible del archivo (por defecto el del archivo)")
	cmd.Flags().StringVar(&path, "file", "", "Ruta del archivo")
	return cmd
}

func newRequestListCmd(app *App) *cobra.Command {
	var kind, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lista solicitudes; sin --kind muestra la bandeja de pendientes de todos los tipos",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd)
			if err != nil {
				return err
			}
			// Usuarios comunes solo ven documentos e informes aprobados.
			if !s.IsAdmin() && (status != string(entity.StatusApproved) || (kind != string(entity.KindDocument) && kind != string(entity.KindReport))) {
				return domain.ErrForbidden
			}
			var list []*entity.Request
			switch {
			case kind == "":
				list, err = app.Requests.ListAllPending(cmd.Context())
			case status == string(entity.StatusApproved):
				list, err = app.Requests.ListApproved(cmd.Context(), entity.Kind(kind))
			default:
				list, err = app.Requests.ListPending(cmd.Context(), entity.Kind(kind))
			}
			if err != nil {
				return err
			}
			out := make([]dto.RequestResponse, 0, len(list))
			for _, r := range list {
				out = append(out, requests.ToResponse(r))
			}
			return app.writeJSON(out)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "password_reset | registration | document | report | order_batch")
	cmd.Flags().StringVar(&status, "status", string(entity.StatusPending), "pending | approved")
	return cmd
}

func newResolveCmd(app *App, approve bool) *cobra.Command {
	use, short := "reject KIND ID", "Rechaza una solicitud pendiente (administrador)"
	if approve {
		use, short = "approve KIND ID", "Aprueba una solicitud pendiente (administrador)"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireAdmin(cmd); err != nil {
				return err
			}
			kind := entity.Kind(args[0])
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			if approve {
				err = app.Requests.Approve(cmd.Context(), kind, id)
			} else {
				err = app.Requests.Reject(cmd.Context(), kind, id)
			}
			if err != nil {
				return err
			}
			req, err := app.Requests.Get(cmd.Context(), kind, id)
			if err != nil {
				return err
			}
			return app.writeJSON(requests.ToResponse(req))
		},
	}
}

func newRequestDeleteCmd(app *App) *cobra.Command {
	var in dto.DeleteFileRequest
	cmd := &cobra.Command{
		Use:   "delete KIND ID",
		Short: "Elimina un documento o informe; pide usuario y contraseña de nuevo",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			in.Kind = entity.Kind(args[0])
			if in.ID, err = parseID(args[1]); err != nil {
				return err
			}
			if err := app.Requests.DeleteFile(cmd.Context(), in); err != nil {
				return err
			}
			return app.writeJSON(map[string]any{"kind": in.Kind, "id": in.ID, "deleted": true})
		},
	}
	cmd.Flags().StringVar(&in.Identifier, "user", "", "Email o nombre de usuario")
	cmd.Flags().StringVar(&in.Password, "password", "", "Contraseña")
	return cmd
}
