package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizly/internal/store"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the backend API request log",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent API requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		events, err := s.EventRepo().QueryAPIEvents(ctx, store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No API events found.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-18s  %-6s  %-36s  %-4s  %-6s  %s\n",
			"ID", "Timestamp", "Purpose", "Method", "Path", "Code", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 110))

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			path := e.Path
			if len(path) > 36 {
				path = path[:35] + "…"
			}
			fmt.Printf("%-5d  %-19s  %-18s  %-6s  %-36s  %-4d  %-6d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				e.Method,
				path,
				e.StatusCode,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var eventsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View a single API request event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetAPIEvent(context.Background(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		fmt.Printf("ID:         %d\n", e.ID)
		fmt.Printf("Sequence:   %d\n", e.Sequence)
		fmt.Printf("Time:       %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Request ID: %s\n", e.RequestID)
		fmt.Printf("Request:    %s %s\n", e.Method, e.Path)
		fmt.Printf("Purpose:    %s\n", e.Purpose)
		fmt.Printf("Status:     %d\n", e.StatusCode)
		fmt.Printf("Latency:    %dms\n", e.LatencyMs)
		fmt.Printf("Success:    %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Printf("Error:      %s\n", e.ErrorMessage)
		}
		return nil
	},
}

// openStore opens the database without building the API client.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func init() {
	eventsListCmd.Flags().Int("limit", 50, "Maximum number of events to show")
	eventsListCmd.Flags().String("purpose", "", "Only show events with this purpose")
	eventsCmd.AddCommand(eventsListCmd, eventsViewCmd)
}
