package main

import (
	"flag"
)

// AppFlags holds the parsed command-line arguments.
type AppFlags struct {
	ConfigFile   string
	Mode         string
	AddSource    string
	RemoveSource string
	ListSources  bool
	Force        bool
}

// ParseFlags parses the command line, consolidating short aliases.
func ParseFlags() AppFlags {
	configFile := flag.String("config", "", "Path to the YAML/JSON configuration file. If not set, searches default locations.")
	configFileAlias := flag.String("c", "", "Alias for -config")

	modeFlag := flag.String("mode", "", "Mode to run the tool: once or automated (overrides config file if set)")
	modeFlagAlias := flag.String("m", "", "Alias for -mode")

	addSource := flag.String("add", "", "Add a sitemap URL to the feed registry (fetches an initial snapshot) and exit")
	removeSource := flag.String("remove", "", "Remove a sitemap URL from the feed registry and exit")
	listSources := flag.Bool("list", false, "Print the registered sitemap URLs and exit")
	force := flag.Bool("force", false, "Bypass the daily throttle for this pass")

	flag.Parse()

	flags := AppFlags{
		AddSource:    *addSource,
		RemoveSource: *removeSource,
		ListSources:  *listSources,
		Force:        *force,
	}

	if *configFile != "" {
		flags.ConfigFile = *configFile
	} else if *configFileAlias != "" {
		flags.ConfigFile = *configFileAlias
	}

	if *modeFlag != "" {
		flags.Mode = *modeFlag
	} else if *modeFlagAlias != "" {
		flags.Mode = *modeFlagAlias
	}

	return flags
}
