package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var blocksPage int

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "List recent blocks",
	Run:   blocksRun,
}

func init() {
	rootCmd.AddCommand(blocksCmd)
	blocksCmd.Flags().IntVarP(&blocksPage, "page", "p", 1, "Page of blocks to list.")
}

func blocksRun(cmd *cobra.Command, args []string) {
	var resp struct {
		Data []struct {
			Height       int64  `json:"height"`
			ID           string `json:"id"`
			Generator    string `json:"generator"`
			Transactions int    `json:"transactions"`
			Age          string `json:"age"`
		} `json:"data"`
	}
	if err := getJSON(fmt.Sprintf("/v1/blocks?page=%d", blocksPage), &resp); err != nil {
		log.Fatal(err)
	}

	for _, b := range resp.Data {
		fmt.Printf("%-10d %-20s txs=%-4d %-10s %s\n", b.Height, b.Generator, b.Transactions, b.Age, b.ID)
	}
}
