package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresTUI   bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [board]",
	Short: "Show high scores",
	Long: `Display the top scores. Boards are named mode/world/size, for
example standard/wrap/30x20 or timed/obstacles/45x30. Without a board,
scores from every board are listed together.

Examples:
  snake scores
  snake scores standard/wrap/30x20 --limit 5
  snake scores --tui
  snake scores timed/obstacles/45x30 --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse scores interactively")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the scores of the board (all boards if none given)")
}

func runScores(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	board := ""
	if len(args) == 1 {
		board = args[0]
	}

	store, err := storage.Open(cfg.Scores.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearScores(board); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Scores cleared.")
		return
	}

	if flagScoresTUI {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	scores, err := store.TopScores(board, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	if board == "" {
		fmt.Println("High Scores - all boards")
	} else {
		fmt.Printf("High Scores - %s\n", board)
	}
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		return
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %-12s  %-22s  %s\n", "Rank", "Score", "Length", "Time", "Player", "Board", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %-12s  %-22s  %s\n", "----", "-----", "------", "----", "------", "-----", "----")
	for i, e := range scores {
		fmt.Printf("  %-4d  %-8d  %-6d  %-6s  %-12s  %-22s  %s\n",
			i+1, e.Score, e.Length, fmt.Sprintf("%d:%02d", e.Elapsed/60, e.Elapsed%60),
			e.Player, e.Board, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	if board != "" {
		if best, err := store.HighScore(board); err == nil {
			fmt.Println()
			fmt.Printf("Best: %d\n", best)
		}
	}
}
