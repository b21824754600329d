package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "studybot",
		Short: "Persistence and scheduling daemon for the StudyBot community",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(runCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(logCmd())
	root.AddCommand(leaderboardCmd())
	root.AddCommand(remindCmd())
	root.AddCommand(kvCmd())

	return root
}

func runCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start daemon with background schedulers and HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server only",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}

func logCmd() *cobra.Command {
	var (
		userID  int64
		guildID int64
		topic   string
	)

	cmd := &cobra.Command{
		Use:   "log <duration>",
		Short: "Record a study session (e.g. 30m, 1.5h)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(userID, guildID, args[0], topic)
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "user id")
	cmd.Flags().Int64Var(&guildID, "guild", 0, "guild id (optional)")
	cmd.Flags().StringVar(&topic, "topic", "", "what was studied")
	cmd.MarkFlagRequired("user")
	return cmd
}

func leaderboardCmd() *cobra.Command {
	var (
		guildID int64
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show a guild's study leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeaderboard(guildID, limit)
		},
	}

	cmd.Flags().Int64Var(&guildID, "guild", 0, "guild id")
	cmd.Flags().IntVar(&limit, "limit", 10, "max entries to show")
	cmd.MarkFlagRequired("guild")
	return cmd
}

func remindCmd() *cobra.Command {
	var (
		userID  int64
		guildID int64
	)

	cmd := &cobra.Command{
		Use:   "remind <in> <message>",
		Short: "Schedule a reminder (e.g. remind 10m \"take a break\")",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemind(userID, guildID, args[0], args[1:])
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "user id")
	cmd.Flags().Int64Var(&guildID, "guild", 0, "guild id (optional)")
	cmd.MarkFlagRequired("user")
	return cmd
}

func kvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kv",
		Short: "Inspect or edit per-guild settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Read a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKVGet(args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKVSet(args[0], args[1])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "del <key>",
		Short: "Delete a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKVDel(args[0])
		},
	})

	return cmd
}
