package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/controle-estoque/internal/application/dto"
	"github.com/jhoicas/controle-estoque/internal/domain/entity"
)

func newOrdersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Importación, vista previa y exportación de órdenes",
	}
	cmd.AddCommand(
		newOrdersImportCmd(app),
		newOrdersPreviewCmd(app),
		newOrdersListCmd(app),
		newOrdersExportCmd(app),
		newOrdersPDFCmd(app),
		newOrdersRecoverCmd(app),
	)
	return cmd
}

func newOrdersImportCmd(app *App) *cobra.Command {
	var in dto.ImportOrdersRequest
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Normaliza una planilla y la deja como lote pendiente",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.session(cmd); err != nil {
				return err
			}
			out, err := app.Import.Import(cmd.Context(), in)
			if err != nil {
				return err
			}
			return app.writeJSON(out)
		},
	}
	cmd.Flags().StringVar(&in.Path, "file", "", "Planilla xlsx")
	cmd.Flags().StringVar(&in.Origin, "origin", "", "Flujo: 167 | 171")
	cmd.Flags().StringVar(&in.Description, "description", "", "Descripción del lote")
	return cmd
}

func newOrdersPreviewCmd(app *App) *cobra.Command {
	var path, origin, out string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Normaliza una planilla sin guardarla; con --out la exporta",
		RunE: func(cmd *cobra.Command, args []string) error {
			flow, err := dto.ParseOrigin(origin)
			if err != nil {
				return err
			}
			rows, rep, err := app.Import.Preview(cmd.Context(), path, flow)
			if err != nil {
				return err
			}
			if out != "" {
				if err := app.Import.ExportRows(flow, rows, out); err != nil {
					return err
				}
			}
			return app.writeJSON(rep)
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "Planilla xlsx")
	cmd.Flags().StringVar(&origin, "origin", "", "Flujo: 167 | 171")
	cmd.Flags().StringVar(&out, "out", "", "Destino xlsx de la vista previa")
	return cmd
}

func newOrdersListCmd(app *App) *cobra.Command {
	var origin string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lista las órdenes aprobadas del flujo",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.session(cmd); err != nil {
				return err
			}
			flow, err := dto.ParseOrigin(origin)
			if err != nil {
				return err
			}
			rows, err := app.Import.ListOrders(cmd.Context(), flow)
			if err != nil {
				return err
			}
			return app.writeJSON(rows)
		},
	}
	cmd.Flags().StringVar(&origin, "origin", "", "Flujo: 167 | 171")
	return cmd
}

func newOrdersExportCmd(app *App) *cobra.Command {
	var origin, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exporta las órdenes aprobadas del flujo a xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.session(cmd); err != nil {
				return err
			}
			flow, err := dto.ParseOrigin(origin)
			if err != nil {
				return err
			}
			n, err := app.Import.ExportOrders(cmd.Context(), flow, out)
			if err != nil {
				return err
			}
			return app.writeJSON(map[string]any{"flow": flow, "rows": n, "out": out})
		},
	}
	cmd.Flags().StringVar(&origin, "origin", "", "Flujo: 167 | 171")
	cmd.Flags().StringVar(&out, "out", "ordens.xlsx", "Destino xlsx")
	return cmd
}

func newOrdersPDFCmd(app *App) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "pdf BATCH_ID",
		Short: "Genera la vista previa en PDF de un lote (administrador)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireAdmin(cmd); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			data, err := app.Import.ExportBatchPDF(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			return app.writeJSON(map[string]any{"request_id": id, "kind": entity.KindOrderBatch, "out": out, "bytes": len(data)})
		},
	}
	cmd.Flags().StringVar(&out, "out", "lote.pdf", "Destino del PDF")
	return cmd
}

func newOrdersRecoverCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "recover",
		Short: "Reaplica o purga el staging remanente de lotes ya resueltos (administrador)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireAdmin(cmd); err != nil {
				return err
			}
			rep, err := app.Coordinator.Recover(cmd.Context())
			if err != nil {
				return err
			}
			return app.writeJSON(rep)
		},
	}
}
