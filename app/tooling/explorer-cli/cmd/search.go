package cmd

import (
	"fmt"
	"log"
	neturl "net/url"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Resolve a height, id, address or delegate name",
	Args:  cobra.ExactArgs(1),
	Run:   searchRun,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func searchRun(cmd *cobra.Command, args []string) {
	var result struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	}
	if err := getJSON("/v1/search?q="+neturl.QueryEscape(args[0]), &result); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s %s\n", result.Type, result.ID)
}
