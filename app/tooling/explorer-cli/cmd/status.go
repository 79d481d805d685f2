package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show chain height, supply and sync state",
	Run:   statusRun,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusRun(cmd *cobra.Command, args []string) {
	var db struct {
		Height            int64  `json:"height"`
		Synced            bool   `json:"synced"`
		Supply            string `json:"supply"`
		TotalTransactions int    `json:"totalTransactions"`
		ActiveDelegates   int    `json:"activeDelegates"`
	}
	if err := getJSON("/v1/dashboard", &db); err != nil {
		log.Fatal(err)
	}

	state := "syncing"
	if db.Synced {
		state = "synced"
	}

	fmt.Printf("height:       %d (%s)\n", db.Height, state)
	fmt.Printf("supply:       %s XQR\n", db.Supply)
	fmt.Printf("transactions: %d\n", db.TotalTransactions)
	fmt.Printf("delegates:    %d active\n", db.ActiveDelegates)
}
