package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizly/internal/subscription"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Inspect and change your generation plan",
}

var planStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show remaining free generations and the active plan",
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

		rt.deps.Subscription.Refresh(cmd.Context())
		st := rt.deps.Subscription.State()
		fmt.Printf("User:          %s\n", userID)
		fmt.Printf("Plan:          %s\n", st.Status)
		if st.Expiry != nil {
			fmt.Printf("Expires:       %s\n", st.Expiry.Local().Format("2006-01-02 15:04"))
		}
		fmt.Printf("Free left:     %d\n", st.RemainingFree)
		fmt.Printf("Can generate:  %v\n", st.CanGenerate)
		return nil
	},
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List paid plans and their UPI payment links",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		payee := subscription.Payee{ID: cfg.Payment.UPIID, Name: cfg.Payment.UPIName}
		for _, p := range subscription.Plans() {
			fmt.Printf("%-10s ₹%d / %s\n", p.Name, p.PriceINR, p.Period)
			for _, f := range p.Features {
				fmt.Printf("    • %s\n", f)
			}
			if payee.ID != "" {
				fmt.Printf("    pay: %s\n", payee.UPILink(p))
			}
			fmt.Println()
		}
		return nil
	},
}

var planSubscribeCmd = &cobra.Command{
	Use:   "subscribe <monthly|quarterly|yearly>",
	Short: "Submit a payment proof and activate a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()
		if _, err := rt.userID(); err != nil {
			return err
		}

		var proof *subscription.Proof
		if path, _ := cmd.Flags().GetString("proof"); path != "" {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open payment proof: %w", err)
			}
			defer f.Close()
			txn, _ := cmd.Flags().GetString("txn")
			proof = &subscription.Proof{FileName: filepath.Base(path), File: f, TransactionID: txn}
		}

		resp, err := rt.deps.Subscription.SubscribeToPlan(cmd.Context(), strings.ToLower(args[0]), proof)
		if err != nil {
			var ae *subscription.ActivationError
			if errors.As(err, &ae) && ae.ProofUploaded {
				fmt.Fprintln(os.Stderr, "Your payment proof was received and will be verified manually.")
			}
			return err
		}
		fmt.Println(resp.Message)
		fmt.Printf("Plan: %s\n", rt.deps.Subscription.State().Label())
		return nil
	},
}

func init() {
	planSubscribeCmd.Flags().String("proof", "", "Screenshot of the UPI payment")
	planSubscribeCmd.Flags().String("txn", "", "UPI transaction id (required with --proof)")
	planCmd.AddCommand(planStatusCmd, planListCmd, planSubscribeCmd)
}
