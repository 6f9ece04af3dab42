package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/academystats/internal/planets"
	"github.com/pable/academystats/internal/snapshot"
	"github.com/pable/academystats/internal/storage"
)

// apiEnv overrides the default API base URL when --api is not given.
const apiEnv = "PLANETS_API_BASE"

var (
	dataPath string
	dbPath   string
	apiBase  string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "academystats",
	Short: "planets.nu Academy match history",
	Long: `Keep a local history of finished planets.nu Academy games: who joined
with which race, who resigned, dropped or died, final scores and winners.

'fetch' merges new games into the snapshot file and mirrors it into a
SQLite database that the other commands read from.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logrus.SetOutput(os.Stderr)
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.WarnLevel)
		}
	},
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	home := filepath.Join(mustUserHome(), ".academystats")
	defaultAPI := planets.DefaultBaseURL
	if v := os.Getenv(apiEnv); v != "" {
		defaultAPI = v
	}

	rootCmd.PersistentFlags().StringVar(&dataPath, "data", filepath.Join(home, "player_data.json"),
		"path to the snapshot file (a .zst suffix stores it compressed)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", filepath.Join(home, "academy.db"), "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&apiBase, "api", defaultAPI, "planets.nu API base URL (env "+apiEnv+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log per-game progress")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(mirrorCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(winnersCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// openDB opens the mirror database, creating its directory if needed.
func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

func snapshotFile() *snapshot.File {
	return snapshot.NewFile(dataPath)
}
