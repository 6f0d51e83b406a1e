package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/config"
	"github.com/sells-group/lead-cli/internal/discovery"
)

var (
	discoverText   discovery.TextQuery
	discoverArea   discovery.AreaQuery
	discoverFile   string
	discoverRadius float64
	discoverOrgs   discovery.OrganizationFilters
	discoverPeople discovery.PeopleFilters
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find candidate leads",
	Long:  "Find candidate leads through a free-text or drawn-area place search, or a B2B organization or people search.",
}

var discoverTextCmd = &cobra.Command{
	Use:   "text",
	Short: "Search places by business type and location",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate(config.OpDiscovery); err != nil {
			return err
		}
		svc := initServices(cfg)

		leads, err := svc.Discovery.DiscoverByText(cmd.Context(), discoverText)
		if err != nil {
			return eris.Wrap(err, "discover text")
		}

		zap.L().Info("discovery complete", zap.Int("leads", len(leads)))
		return writeJSON(cmd.OutOrStdout(), leads)
	},
}

var discoverAreaCmd = &cobra.Command{
	Use:   "area",
	Short: "Search places inside a drawn area",
	Long:  "Search places inside an area read from a file (\"-\" for stdin). The file holds a native search area or a GeoJSON geometry or Feature; GeoJSON points become circles of --radius meters.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate(config.OpDiscovery); err != nil {
			return err
		}

		data, err := readInput(discoverFile)
		if err != nil {
			return err
		}
		radius := discoverRadius
		if radius <= 0 {
			radius = cfg.Discovery.DefaultRadiusM
		}
		q := discoverArea
		q.Area, err = decodeArea(data, radius)
		if err != nil {
			return eris.Wrap(err, "discover area")
		}

		svc := initServices(cfg)
		res, err := svc.Discovery.DiscoverByArea(cmd.Context(), q)
		if err != nil {
			return eris.Wrap(err, "discover area")
		}

		zap.L().Info("discovery complete",
			zap.Int("leads", len(res.Leads)),
			zap.Strings("locations", res.Locations),
		)
		return writeJSON(cmd.OutOrStdout(), res)
	},
}

var discoverOrgsCmd = &cobra.Command{
	Use:   "organizations",
	Short: "Search B2B organizations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc := initServices(cfg)

		leads, err := svc.Discovery.SearchOrganizations(cmd.Context(), discoverOrgs)
		if err != nil {
			return eris.Wrap(err, "discover organizations")
		}

		zap.L().Info("organization search complete", zap.Int("leads", len(leads)))
		return writeJSON(cmd.OutOrStdout(), leads)
	},
}

var discoverPeopleCmd = &cobra.Command{
	Use:   "people",
	Short: "Search B2B people",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc := initServices(cfg)

		leads, err := svc.Discovery.SearchPeople(cmd.Context(), discoverPeople)
		if err != nil {
			return eris.Wrap(err, "discover people")
		}

		zap.L().Info("people search complete", zap.Int("leads", len(leads)))
		return writeJSON(cmd.OutOrStdout(), leads)
	},
}

func init() {
	f := discoverTextCmd.Flags()
	f.StringVar(&discoverText.Query, "query", "", "business type, or \"all\" for any business")
	f.StringVar(&discoverText.Location, "location", "", "city, region or address")
	f.StringVar(&discoverText.PostalCode, "postal-code", "", "postal code appended to the query")
	f.StringVar(&discoverText.Country, "country", "", "country appended to the query")
	f.IntVar(&discoverText.MaxResults, "max-results", 20, "maximum leads to return")

	f = discoverAreaCmd.Flags()
	f.StringVar(&discoverArea.Query, "query", "", "business type, or \"all\" for any business")
	f.StringVar(&discoverFile, "file", "", "area file, YAML or JSON (required)")
	f.Float64Var(&discoverRadius, "radius", 0, "circle radius in meters for GeoJSON points (default from config)")
	f.StringVar(&discoverArea.PostalCode, "postal-code", "", "postal code appended to the query")
	f.StringVar(&discoverArea.Country, "country", "", "country appended to the query")
	f.IntVar(&discoverArea.MaxResults, "max-results", 20, "maximum leads to return across all shapes")
	_ = discoverAreaCmd.MarkFlagRequired("file")

	f = discoverOrgsCmd.Flags()
	f.StringVar(&discoverOrgs.Keyword, "keyword", "", "free-text keyword")
	f.StringVar(&discoverOrgs.CompanyName, "company", "", "exact company name")
	f.StringSliceVar(&discoverOrgs.Locations, "location", nil, "organization locations")
	f.StringArrayVar(&discoverOrgs.EmployeeRanges, "employees", nil, "employee range, repeatable, e.g. 1,10")
	f.Int64Var(&discoverOrgs.RevenueMin, "revenue-min", 0, "minimum annual revenue")
	f.Int64Var(&discoverOrgs.RevenueMax, "revenue-max", 0, "maximum annual revenue")
	f.StringSliceVar(&discoverOrgs.Technologies, "technology", nil, "technology tags")
	f.IntVar(&discoverOrgs.TargetCount, "target", 25, "number of organizations to return")

	f = discoverPeopleCmd.Flags()
	f.StringVar(&discoverPeople.Keyword, "keyword", "", "free-text keyword")
	f.StringVar(&discoverPeople.CompanyName, "company", "", "exact company name")
	f.StringSliceVar(&discoverPeople.Titles, "title", nil, "job titles")
	f.StringSliceVar(&discoverPeople.Seniorities, "seniority", nil, "seniority levels, e.g. owner,founder")
	f.StringSliceVar(&discoverPeople.Locations, "location", nil, "person locations")
	f.StringArrayVar(&discoverPeople.EmployeeRanges, "employees", nil, "employer employee range, repeatable")
	f.IntVar(&discoverPeople.TargetCount, "target", 25, "number of people to return")

	discoverCmd.AddCommand(discoverTextCmd, discoverAreaCmd, discoverOrgsCmd, discoverPeopleCmd)
	rootCmd.AddCommand(discoverCmd)
}
