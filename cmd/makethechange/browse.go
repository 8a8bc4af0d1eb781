package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davicafu/makethechange/internal/listing"
)

var browseCmd = &cobra.Command{
	Use:   "browse <catalog>",
	Short: "Lista un catálogo con filtros y paginación (products, projects, investments, blog)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := lookupCatalog(args[0])
		if err != nil {
			return err
		}

		search, _ := cmd.Flags().GetString("search")
		page, _ := cmd.Flags().GetInt("page")
		cursor, _ := cmd.Flags().GetString("cursor")
		next, _ := cmd.Flags().GetInt("next")
		view, _ := cmd.Flags().GetString("view")
		filterFlags, _ := cmd.Flags().GetStringArray("filter")

		opts := browseOptions{
			filters: make(map[listing.Field]string, len(filterFlags)),
			search:  search,
			page:    page,
			cursor:  cursor,
			next:    next,
			view:    view,
		}
		for _, f := range filterFlags {
			k, v, ok := splitField(f)
			if !ok {
				return fmt.Errorf("invalid filter %q (expected field=value)", f)
			}
			opts.filters[listing.Field(k)] = v
		}

		return catalog.browse(cmd.Context(), cfg.APIBaseURL, opts, cmd.OutOrStdout())
	},
}

func init() {
	browseCmd.Flags().StringArrayP("filter", "f", nil, "filtro field=value (status, category, producer, author, project, tags, featured, sort); repetible")
	browseCmd.Flags().StringP("search", "s", "", "texto de búsqueda")
	browseCmd.Flags().Int("page", 0, "página (catálogos paginados por número)")
	browseCmd.Flags().String("cursor", "", "cursor de la página siguiente (catálogos con cursor)")
	browseCmd.Flags().Int("next", 0, "avanza n páginas siguiendo el cursor")
	browseCmd.Flags().String("view", "", "modo de vista: grid, list o map")
}

func splitField(s string) (string, string, bool) {
	k, v, ok := strings.Cut(s, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return "", "", false
	}
	return k, v, true
}
