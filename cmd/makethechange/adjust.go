package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var adjustCmd = &cobra.Command{
	Use:   "adjust <catalog> <id>",
	Short: "Edita en línea un elemento: --toggle featured o --step stock --by 2",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := lookupCatalog(args[0])
		if err != nil {
			return err
		}

		toggle, _ := cmd.Flags().GetString("toggle")
		step, _ := cmd.Flags().GetString("step")
		by, _ := cmd.Flags().GetInt("by")
		if (toggle == "") == (step == "") {
			return fmt.Errorf("use exactly one of --toggle or --step")
		}

		return catalog.adjust(cmd.Context(), cfg.APIBaseURL, adjustOptions{
			id:     args[1],
			toggle: toggle,
			step:   step,
			by:     by,
		}, cmd.OutOrStdout())
	},
}

func init() {
	adjustCmd.Flags().String("toggle", "", "interruptor a invertir (p.ej. featured)")
	adjustCmd.Flags().String("step", "", "contador a modificar (p.ej. stock, returns_received)")
	adjustCmd.Flags().Int("by", 1, "pasos a sumar al contador (negativo resta)")
}
