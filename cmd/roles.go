package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the roles of the catalog grouped by category",
	Run: func(cmd *cobra.Command, _ []string) {
		logger, config := setup()
		cat := loadCatalog(config, logger)

		if cat.Len() == 0 {
			logger.Info("exiting", zap.String("reason", "the role catalog is empty"), zap.String("catalog", config.Catalog))
			return
		}

		verbose, _ := cmd.Flags().GetBool("skills")
		out := cmd.OutOrStdout()
		for _, category := range cat.Categories() {
			fmt.Fprintln(out, category)
			for _, name := range cat.RolesIn(category) {
				if !verbose {
					fmt.Fprintf(out, "  %s\n", name)
					continue
				}
				role, err := cat.Lookup(name)
				if err != nil {
					continue
				}
				fmt.Fprintf(out, "  %s: %s\n", name, strings.Join(role.RequiredSkills, ", "))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(rolesCmd)

	rolesCmd.Flags().Bool("skills", false, "print required skills of each role")
}
