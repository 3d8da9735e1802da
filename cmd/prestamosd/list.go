package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"prestamos-admin/internal/listing"
	"prestamos-admin/internal/model"
	"prestamos-admin/internal/upstream"
)

func loansCommand(opts *options) *cobra.Command {
	var query, status string

	cmd := &cobra.Command{
		Use:   "prestamos",
		Short: "Print the loans, filtered like the loan page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := upstream.NewClient(&opts.cfg.Upstream, nil)
			loans, err := client.ListLoans(cmd.Context())
			if err != nil {
				return err
			}
			return printLoans(cmd.OutOrStdout(), loans, query, status)
		},
	}

	cmd.Flags().StringVar(&query, "q", "", "text matched against solicitante, equipo and correo")
	cmd.Flags().StringVar(&status, "estado", listing.StatusAll, "SOLICITADO, ENTREGADO, DEVUELTO or all")
	return cmd
}

func equipmentCommand(opts *options) *cobra.Command {
	var (
		query      string
		page, size int
	)

	cmd := &cobra.Command{
		Use:   "equipos",
		Short: "Print one page of the equipment list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := upstream.NewClient(&opts.cfg.Upstream, nil)
			items, err := client.ListEquipment(cmd.Context())
			if err != nil {
				return err
			}
			return printEquipment(cmd.OutOrStdout(), items, query, page, size)
		},
	}

	cmd.Flags().StringVar(&query, "q", "", "text matched against nombre")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&size, "size", listing.DefaultPageSize, "page size (5, 10, 20 or 50)")
	return cmd
}

func printLoans(w io.Writer, loans []model.Loan, query, status string) error {
	filtered := listing.FilterLoans(loans, query, status)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODIGO\tSOLICITANTE\tEQUIPO\tCORREO\tFECHA\tESTADO")
	for _, l := range filtered {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", l.Code, l.Solicitante, l.Equipo, l.Correo, l.FechaPrestamo, l.Estado.Label())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Mostrando %d de %d préstamo(s)\n", len(filtered), len(loans))
	return err
}

func printEquipment(w io.Writer, items []model.Equipment, query string, number, size int) error {
	filtered := listing.FilterEquipment(items, query)
	p := listing.Paginate(len(filtered), number, size)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODIGO\tNOMBRE")
	for _, e := range listing.Slice(filtered, p) {
		fmt.Fprintf(tw, "%s\t%s\n", e.Code, e.Nombre)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	summary := p.Summary() + " equipo(s)"
	if len(filtered) != len(items) {
		summary += fmt.Sprintf(" (%d total)", len(items))
	}
	_, err := fmt.Fprintf(w, "%s · página %d de %d\n", summary, p.Number, max(p.TotalPages, 1))
	return err
}
