// Command respkit-bench is a small demonstration CLI for respkit (spec §6
// "cmd/respkit-bench demo"). It is not part of the library's public API —
// it exists to exercise CommandPipeline, PubSubPipeline, and Client against
// a real Redis-compatible server from the command line, the way the
// teacher's own cmd/ subcommands exercise its sniffer/controller stack.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var addr string

var rootCmd = &cobra.Command{
	Use:   "respkit-bench",
	Short: "Exercise respkit's pipeline, Pub/Sub, and client verbs against a live server",
}

func main() {
	rootCmd.PersistentFlags().StringVar(&addr, "addr", "127.0.0.1:6379", "address of the Redis-compatible server to connect to")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
