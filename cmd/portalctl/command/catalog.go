package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/integrada/portal/catalog"
	"github.com/integrada/portal/respondents"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Test catalog",
	Long:  "The catalog command is used to review the active tests",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active tests",
	Long:  "The list command prints the active tests in display order",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(listCatalog) },
}

var catalogExportParams = struct {
	Path string
}{}

var catalogExportCmd = &cobra.Command{
	Use:   "export {file.xlsx}",
	Args:  cobra.ExactArgs(1),
	Short: "Export active tests to a workbook",
	Long:  "The export command saves the active tests as a workbook that the workbook store backend can serve",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalogExportParams.Path = args[0]
		return Run(exportCatalog)
	},
}

func listCatalog(loader catalog.Loader, classifier *respondents.Classifier) error {
	definitions, err := loader.Catalog(context.TODO())
	if err != nil {
		return err
	}

	for _, definition := range definitions {
		shareable := ""
		if definition.Shareable {
			shareable = "shareable:" + strings.Join(definition.Targets, ",")
		}
		respondent := classifier.Classify(definition.Source)
		fmt.Printf("%4d %-24s %-40s %-24s %s\n", definition.Order, definition.Code, definition.Label, respondent.Label, shareable)
	}
	fmt.Printf("Found %v tests\n", len(definitions))

	return nil
}

func exportCatalog(loader catalog.Loader, logger *zap.SugaredLogger) error {
	definitions, err := loader.Catalog(context.TODO())
	if err != nil {
		return err
	}

	report, err := catalog.NewReport(definitions).Generate()
	if err != nil {
		return err
	}
	if err := report.Save(catalogExportParams.Path); err != nil {
		return err
	}

	logger.Infow("catalog exported", "path", catalogExportParams.Path, "tests", len(definitions))
	return nil
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	rootCmd.AddCommand(catalogCmd)
}
