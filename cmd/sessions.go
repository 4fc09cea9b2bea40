package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"sessiontail/internal/config"
	"sessiontail/internal/discovery"
)

var (
	sessionsProject string
	sessionsCwd     string
	sessionsJSON    bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recent transcript sessions",
	Long: `List the transcript sessions under the projects root, most recent
first. With --cwd, resolve and print the current session for a working
directory instead.`,
	RunE: runSessions,
}

func init() {
	sessionsCmd.Flags().StringVar(&sessionsProject, "project", "", "only list sessions for this project directory")
	sessionsCmd.Flags().StringVar(&sessionsCwd, "cwd", "", "resolve the current session for this working directory")
	sessionsCmd.Flags().BoolVar(&sessionsJSON, "json", false, "emit JSON instead of a table")
}

func runSessions(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(projectsDir)
	if err != nil {
		return err
	}

	disc := discovery.New(cfg.ProjectsDir, nil)

	if sessionsCwd != "" {
		info, err := disc.CurrentSession(sessionsCwd)
		if err != nil {
			return err
		}
		if info == nil {
			return fmt.Errorf("no session found for %s", sessionsCwd)
		}
		return printSessions(cmd, []discovery.SessionInfo{*info})
	}

	sessions, err := disc.FindActiveSessions(sessionsProject)
	if err != nil {
		return err
	}
	return printSessions(cmd, sessions)
}

func printSessions(cmd *cobra.Command, sessions []discovery.SessionInfo) error {
	if sessionsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tPROJECT\tMODIFIED\tACTIVE\tWATCHED")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%v\n",
			s.SessionID, s.ProjectPath, s.LastModified.Format(time.RFC3339), s.IsActive, s.IsWatched)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return nil
}
