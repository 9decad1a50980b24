package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizly/internal/store"
)

var loginCmd = &cobra.Command{
	Use:   "login <user-id>",
	Short: "Sign in as a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := strings.TrimSpace(args[0])
		if userID == "" {
			return fmt.Errorf("user id must not be empty")
		}
		rt, err := newRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := context.Background()
		if err := rt.deps.Prefs.Set(ctx, store.PrefUserID, userID); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		if name, _ := cmd.Flags().GetString("name"); name != "" {
			if err := rt.deps.Prefs.Set(ctx, store.PrefPlayerName, name); err != nil {
				return fmt.Errorf("save player name: %w", err)
			}
		}
		fmt.Printf("Signed in as %s\n", userID)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.deps.Prefs.Delete(context.Background(), store.PrefUserID); err != nil {
			return fmt.Errorf("clear user: %w", err)
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		userID, err := rt.userID()
		if err != nil {
			return err
		}
		name, _ := rt.deps.Prefs.Get(context.Background(), store.PrefPlayerName)
		fmt.Printf("User:    %s\n", userID)
		if name != "" {
			fmt.Printf("Player:  %s\n", name)
		}
		fmt.Printf("Backend: %s\n", rt.deps.API.BaseURL())
		return nil
	},
}

func init() {
	loginCmd.Flags().String("name", "", "Player name used on leaderboards")
}
