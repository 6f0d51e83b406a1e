package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/config"
	"github.com/sells-group/lead-cli/internal/model"
)

var (
	enrichFile   string
	enrichMode   string
	manualFields map[string]string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich leads read from a YAML or JSON file",
	Long:  "Enrich every lead in a YAML or JSON file (\"-\" for stdin). The file holds a list of leads or an object with a \"leads\" list. Leads are processed concurrently; each lead's steps run in order.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate(config.OpEnrich); err != nil {
			return err
		}

		data, err := readInput(enrichFile)
		if err != nil {
			return err
		}
		leads, err := decodeLeads(data)
		if err != nil {
			return eris.Wrap(err, "enrich")
		}
		if len(leads) == 0 {
			return eris.Wrap(model.ErrInvalidRequest, "enrich: no leads in input")
		}

		svc := initServices(cfg)
		results := svc.Enrich.EnrichBatch(cmd.Context(), leads, model.ParseAIMode(enrichMode))

		zap.L().Info("enrichment complete", zap.Int("leads", len(results)))
		return writeJSON(cmd.OutOrStdout(), results)
	},
}

var enrichManualCmd = &cobra.Command{
	Use:   "manual",
	Short: "Locate and enrich a hand-typed record",
	Long:  "Locate a hand-typed record by phone, then address, then company name, and enrich it. Typed values win every merge.",
	Example: `  lead-cli enrich manual --set companyName="Joe's Diner" --set city=Austin --set state=TX
  lead-cli enrich manual --set phone="(512) 555-0101" --mode primaryOnly`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate(config.OpEnrich); err != nil {
			return err
		}

		fields, err := parseHumanFields(manualFields)
		if err != nil {
			return err
		}

		svc := initServices(cfg)
		res, err := svc.Enrich.EnrichManual(cmd.Context(), fields, model.ParseAIMode(enrichMode))
		if err != nil {
			return eris.Wrap(err, "enrich manual")
		}

		zap.L().Info("manual enrichment complete",
			zap.String("lead_id", res.Lead.ID),
			zap.String("strategy", string(res.Strategy)),
		)
		return writeJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	enrichCmd.PersistentFlags().StringVar(&enrichMode, "mode", string(model.AIModeBoth), "AI mode: both, primaryOnly or secondaryOnly")
	enrichCmd.Flags().StringVar(&enrichFile, "file", "", "lead file, YAML or JSON (required)")
	_ = enrichCmd.MarkFlagRequired("file")

	enrichManualCmd.Flags().StringToStringVar(&manualFields, "set", nil, "field=value, repeatable (companyName, phone, address, city, state, ...)")

	enrichCmd.AddCommand(enrichManualCmd)
	rootCmd.AddCommand(enrichCmd)
}
