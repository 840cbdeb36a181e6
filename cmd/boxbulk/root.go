package main

import (
	"os"

	"github.com/spf13/cobra"
)

const (
	flagConfig       = "config"
	flagDebug        = "debug"
	flagJSON         = "json"
	flagNoColor      = "no-color"
	flagBulkFilePath = "bulk-file-path"
	flagSave         = "save"
	flagSaveToPath   = "save-to-file-path"
	flagFileFormat   = "file-format"
	flagLimit        = "limit"
	defaultRunsLimit = 20
)

// newRootCmd returns the command tree. Every leaf command builds its app in RunE so that
// commands without side effects, like help, don't need any configuration.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "boxbulk",
		Short:         "Bulk operations and reports for the Box content API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	home, _ := os.UserHomeDir()
	flags := root.PersistentFlags()
	flags.String(flagConfig, "", "settings file (default is $HOME/.boxbulk/settings.yaml)")
	flags.Bool(flagDebug, false, "enable debug logging")
	flags.Bool(flagJSON, false, "output results as JSON")
	flags.Bool(flagNoColor, false, "disable console colors")
	env := &environment{home: home}
	root.AddCommand(
		foldersCmd(env),
		filesCmd(env),
		usersCmd(env),
		groupsCmd(env),
		collaborationsCmd(env),
		metadataCmd(env),
		tasksCmd(env),
		taskAssignmentsCmd(env),
		runsCmd(env),
	)
	return root
}
