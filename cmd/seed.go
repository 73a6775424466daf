/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/eventms/appserver/config"
	"github.com/eventms/appserver/internal/db"
	"github.com/spf13/cobra"
)

// seedCmd inserts a starter set of events. The application itself never
// writes to the events table; rows come from here or external inserts.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample events",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		dbConn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() {
			_ = dbConn.Close()
		}()

		now := time.Now()
		events := []struct {
			title       string
			date        time.Time
			description string
		}{
			{"Tech Conference", now.AddDate(0, 0, 14), "Annual technology conference with talks and workshops."},
			{"Community Meetup", now.AddDate(0, 1, 0), "Monthly meetup for members to network and share ideas."},
			{"Hackathon", now.AddDate(0, 2, 0), "48-hour hackathon. Teams of up to four."},
		}

		const query = `
			INSERT INTO events (title, event_date, description)
			SELECT $1, $2, $3
			WHERE NOT EXISTS (SELECT 1 FROM events WHERE title = $1)`
		for _, e := range events {
			if _, err := dbConn.ExecContext(cmd.Context(), query, e.title, e.date, e.description); err != nil {
				return fmt.Errorf("seed event %q: %w", e.title, err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
