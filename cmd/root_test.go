package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"discover", "enrich", "owner", "serve"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "lead-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestDiscoverCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range discoverCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"text", "area", "organizations", "people"} {
		assert.True(t, names[name], "discover should have subcommand %q", name)
	}
}

func TestDiscoverTextCommand_Flags(t *testing.T) {
	for _, name := range []string{"query", "location", "postal-code", "country", "max-results"} {
		assert.NotNil(t, discoverTextCmd.Flags().Lookup(name), "discover text should have --%s flag", name)
	}
	assert.Equal(t, "20", discoverTextCmd.Flags().Lookup("max-results").DefValue)
}

func TestDiscoverAreaCommand_Flags(t *testing.T) {
	flag := discoverAreaCmd.Flags().Lookup("file")
	require.NotNil(t, flag, "discover area should have --file flag")

	radius := discoverAreaCmd.Flags().Lookup("radius")
	require.NotNil(t, radius)
	assert.Equal(t, "0", radius.DefValue)
}

func TestEnrichCommand_Flags(t *testing.T) {
	require.NotNil(t, enrichCmd.Flags().Lookup("file"))

	mode := enrichCmd.PersistentFlags().Lookup("mode")
	require.NotNil(t, mode)
	assert.Equal(t, "both", mode.DefValue)

	require.NotNil(t, enrichManualCmd.Flags().Lookup("set"))
	assert.NotNil(t, enrichManualCmd.InheritedFlags().Lookup("mode"))
}

func TestOwnerCommand_Flags(t *testing.T) {
	for _, name := range []string{"company", "city", "state", "country"} {
		assert.NotNil(t, ownerCmd.Flags().Lookup(name), "owner should have --%s flag", name)
	}
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}
