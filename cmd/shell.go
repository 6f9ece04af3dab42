package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/academystats/internal/model"
	"github.com/pable/academystats/internal/report"
	"github.com/pable/academystats/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cOK       = color.New(color.FgGreen)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the mirror database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("academystats shell")
	if run, err := db.LastRun(); err == nil && run != nil {
		cMuted.Printf("%d games, last synced %s (%s)\n", run.GameCount, run.SyncedAt.Local().Format(model.DateLayout), run.Outcome)
	}
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("academy")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		var err error
		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			err = shellList(db)
		case "show":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: show <gameid>")
				continue
			}
			err = showGame(db, model.GameID(args[0]))
		case "player":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: player <name>")
				continue
			}
			// Player names may contain spaces.
			err = showPlayer(db, strings.Join(args, " "))
		case "winners":
			err = printWinners(db)
		case "sql":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: sql <query>")
				continue
			}
			err = printQuery(db, strings.Join(args, " "))
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored games"},
		{"show <gameid>", "show a game's players"},
		{"player <name>", "every game of one player"},
		{"winners", "wins per player and race"},
		{"sql <query>", "run a raw query"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-20s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) error {
	games, err := db.ListGames()
	if err != nil {
		return err
	}
	if len(games) == 0 {
		cMuted.Println("No games stored yet.")
		return nil
	}
	cHeader.Fprintf(os.Stdout, "%d games\n", len(games))
	report.PrintGameTable(os.Stdout, games)
	return nil
}
