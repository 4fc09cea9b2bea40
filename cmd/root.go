package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time via ldflags
	Version = "dev"

	// projectsDir overrides the transcript root for all subcommands.
	projectsDir string
)

var rootCmd = &cobra.Command{
	Use:   "sessiontail",
	Short: "sessiontail - Stream Claude Code session transcripts to subscribers",
	Long: `sessiontail tails the append-only JSONL transcripts that Claude Code
writes under its projects directory and streams new messages to any number
of subscribed consumers, with one file watcher per session no matter how
many consumers are attached.

Get started:
  1. Run the server: sessiontail serve
  2. Connect a websocket client to ws://localhost:8787/ws
  3. Send: {"action":"subscribe","project":"-home-you-proj","session":"<id>"}`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&projectsDir, "projects-dir", "",
		"transcript root (default $SESSIONTAIL_PROJECTS_DIR or ~/.claude/projects)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("sessiontail %s\n", Version)
	},
}
