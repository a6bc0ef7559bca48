package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/ytdwt-go/internal/domain"
	"github.com/yourusername/ytdwt-go/internal/infrastructure"
)

var (
	historyLimit int
	historyStats bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent downloads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.History.Enabled {
			fmt.Fprintln(cmd.OutOrStdout(), "Download history is disabled (history.enabled = false)")
			return nil
		}

		repo, err := infrastructure.NewSQLiteHistoryRepository(cfg.History.DatabasePath)
		if err != nil {
			return err
		}
		defer repo.Close()

		out := cmd.OutOrStdout()
		if historyStats {
			stats, err := repo.GetStats()
			if err != nil {
				return fmt.Errorf("failed to get stats: %w", err)
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Total", "Downloading", "Completed", "Failed"},
				[][]string{{
					strconv.FormatInt(stats.Total, 10),
					strconv.FormatInt(stats.Downloading, 10),
					strconv.FormatInt(stats.Completed, 10),
					strconv.FormatInt(stats.Failed, 10),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		}

		records, err := repo.FindRecent(historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}
		if len(records) == 0 {
			fmt.Fprintln(out, "No downloads yet")
			return nil
		}

		fmt.Fprintln(out, renderTable(
			[]string{"ID", "Started", "Phase", "Progress", "Duration", "URL", "Detail"},
			historyRows(records),
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
		))
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of downloads to show")
	historyCmd.Flags().BoolVar(&historyStats, "stats", false, "Show totals per phase instead")
}

func historyRows(records []*domain.DownloadRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		duration := "-"
		if r.IsFinished() {
			duration = r.Duration().Round(time.Second).String()
		}
		detail, _, _ := strings.Cut(r.ErrorMessage, "\n")
		rows = append(rows, []string{
			truncate(r.ID, 8),
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Phase.String(),
			fmt.Sprintf("%.1f%%", r.ProgressPercent),
			duration,
			truncate(r.URL, 50),
			truncate(detail, 40),
		})
	}
	return rows
}
