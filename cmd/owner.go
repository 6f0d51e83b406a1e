package main

import (
	"errors"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-cli/internal/config"
	"github.com/sells-group/lead-cli/internal/enrich"
	"github.com/sells-group/lead-cli/internal/model"
)

var ownerQuery enrich.OwnerQuery

var ownerCmd = &cobra.Command{
	Use:   "owner",
	Short: "Find a company's owner or decision-maker",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate(config.OpOwner); err != nil {
			return err
		}
		svc := initServices(cfg)

		res, err := svc.Enrich.FindOwner(cmd.Context(), ownerQuery)
		if errors.Is(err, model.ErrNotFound) {
			cmd.PrintErrln("no owner found for", ownerQuery.CompanyName)
			return nil
		}
		if err != nil {
			return eris.Wrap(err, "find owner")
		}
		return writeJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	f := ownerCmd.Flags()
	f.StringVar(&ownerQuery.CompanyName, "company", "", "company name (required)")
	f.StringVar(&ownerQuery.City, "city", "", "company city")
	f.StringVar(&ownerQuery.State, "state", "", "company state or region")
	f.StringVar(&ownerQuery.Country, "country", "", "company country")
	_ = ownerCmd.MarkFlagRequired("company")
	rootCmd.AddCommand(ownerCmd)
}
