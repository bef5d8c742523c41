package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/l00pss/respkit"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Connect once and issue a single PING",
	RunE: func(cmd *cobra.Command, args []string) error {
		correlationID := uuid.NewString()
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync()

		transport, err := dialTransport(addr)
		if err != nil {
			return err
		}
		client := respkit.NewClient(transport, respkit.WithLogger(respkit.NewZapLogger(logger)))
		defer client.Close()

		ctx := respkit.WithConnID(context.Background(), correlationID)
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		reply, err := client.Ping(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("[%s] PING -> %s\n", correlationID, reply)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
