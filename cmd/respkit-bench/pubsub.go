package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/l00pss/respkit"
)

var pubsubChannel string

var pubsubCmd = &cobra.Command{
	Use:   "pubsub",
	Short: "Subscribe to a channel, print messages for 30 seconds, then unsubscribe",
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, err := dialTransport(addr)
		if err != nil {
			return err
		}
		pipe := respkit.NewCommandPipeline(transport)
		ps, err := pipe.EnterPubSub()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		token, err := ps.Subscribe(ctx, func(channel string, payload []byte) {
			fmt.Printf("[%s] %s\n", channel, payload)
		}, pubsubChannel)
		if err != nil {
			return err
		}

		<-ctx.Done()
		unsubCtx, unsubCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer unsubCancel()
		if err := ps.Unsubscribe(unsubCtx, token); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	pubsubCmd.Flags().StringVar(&pubsubChannel, "channel", "respkit-bench", "channel to subscribe to")
	rootCmd.AddCommand(pubsubCmd)
}
