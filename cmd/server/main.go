// Package main is the entry point for the gRPC server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/expedition-api/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "expedition-api",
	Short: "Expedition API gRPC Server",
	Long:  `Expedition API runs survival expeditions: timed resource gathering trips with wildlife encounters along the way.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
