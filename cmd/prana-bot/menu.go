package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <menu.xlsx>",
	Short: "Import the menu from a spreadsheet",
	Long: `Reads the first sheet of an Excel file (columns: nombre, precio,
categoria, ingredientes, descripcion, disponible) and rewrites the
knowledge files in BOT_DATA_DIR. When MENU_DB_PATH is set the items
are also stored in SQLite.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openStores(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.importer.Import(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✅ %d items, %d categorías", result.Items, result.Categories)
		if result.Unavailable > 0 {
			fmt.Fprintf(out, ", %d no disponibles", result.Unavailable)
		}
		if result.Duplicates > 0 {
			fmt.Fprintf(out, ", %d duplicados omitidos", result.Duplicates)
		}
		fmt.Fprintln(out)
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render-kb",
	Short: "Regenerate the menu structure and knowledge text from the stored items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openStores(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.importer.RenderKnowledge(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Base de conocimiento regenerada (%d items)\n", n)
		return nil
	},
}
