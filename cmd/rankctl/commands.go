package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"cfbpoll/rankings/internal/models"
	"cfbpoll/rankings/internal/rankings"

	"github.com/spf13/cobra"
)

var (
	season    int
	week      int
	published bool
)

func init() {
	for _, cmd := range []*cobra.Command{calculateCmd, publishCmd, deleteCmd, showCmd} {
		cmd.Flags().IntVar(&season, "season", 0, "Season year")
		cmd.Flags().IntVar(&week, "week", 0, "Week number (postseason is the week after the last regular week)")
		cmd.MarkFlagRequired("season")
		cmd.MarkFlagRequired("week")
	}
	showCmd.Flags().BoolVar(&published, "published", false, "Only show the published snapshot")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(weeksCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(alltimeCmd)
	rootCmd.AddCommand(sweepCmd)
}

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Recalculate a week from fresh upstream data and save it as a draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := services.Admin.CalculateRankings(cmd.Context(), season, week)
		if err != nil {
			return err
		}
		if !res.Persisted {
			fmt.Fprintln(os.Stderr, "warning: rankings were calculated but could not be saved")
		}
		return writeRankings(os.Stdout, res.Rankings)
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the saved snapshot for a week",
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := services.Admin.PublishSnapshot(cmd.Context(), season, week)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no snapshot saved for %d week %d", season, week)
		}
		fmt.Printf("Published %d week %d\n", season, week)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the saved snapshot for a week",
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := services.Admin.DeleteSnapshot(cmd.Context(), season, week)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no snapshot saved for %d week %d", season, week)
		}
		fmt.Printf("Deleted %d week %d\n", season, week)
		return nil
	},
}

var weeksCmd = &cobra.Command{
	Use:   "weeks",
	Short: "List persisted weeks, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		weeks, err := services.Admin.GetPersistedWeeks(cmd.Context())
		if err != nil {
			return err
		}
		return writeWeeks(os.Stdout, weeks)
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a week's rankings (live, or the published snapshot)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if published {
			result, ok, err := services.Admin.GetPublishedRankings(cmd.Context(), season, week)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no published snapshot for %d week %d", season, week)
			}
			return writeRankings(os.Stdout, result)
		}

		result, err := services.Admin.GetRankings(cmd.Context(), season, week)
		if err != nil {
			return err
		}
		return writeRankings(os.Stdout, result)
	},
}

var alltimeCmd = &cobra.Command{
	Use:   "alltime",
	Short: "Build the all-time leaderboards from published postseason snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := services.AllTime.GetAllTimeRankings(cmd.Context())
		if err != nil {
			return err
		}
		return writeJSON(os.Stdout, result)
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove expired cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := services.Scheduler(cfg).SweepCaches(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d expired cache entries\n", removed)
		return nil
	},
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeRankings prints one row per team with a column per rating component
func writeRankings(w io.Writer, result *models.RankingsResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	components := rankings.ComponentNames(result)

	fmt.Fprintf(tw, "RANK\tTEAM\tRECORD\tRATING\tSOS\tSOS RANK")
	for _, name := range components {
		fmt.Fprintf(tw, "\t%s", name)
	}
	fmt.Fprintln(tw)

	for _, t := range result.Rankings {
		fmt.Fprintf(tw, "%d\t%s\t%d-%d\t%.4f\t%.4f\t%d",
			t.Rank, t.TeamName, t.Wins, t.Losses, t.Rating, t.WeightedSOS, t.SOSRanking)
		for _, name := range components {
			fmt.Fprintf(tw, "\t%.4f", t.RatingComponents[name])
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func writeWeeks(w io.Writer, weeks []models.PersistedWeekSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEASON\tWEEK\tSTATUS\tCREATED")
	for _, wk := range weeks {
		status := "draft"
		if wk.Published {
			status = "published"
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", wk.Season, wk.Week, status, wk.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}
