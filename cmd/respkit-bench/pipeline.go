package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/l00pss/respkit"
)

var pipelineCount int

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Fan a batch of SET/GET pairs out over one connection, concurrently, and confirm FIFO ordering",
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, err := dialTransport(addr)
		if err != nil {
			return err
		}
		pipe := respkit.NewCommandPipeline(transport)
		defer pipe.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < pipelineCount; i++ {
			i := i
			g.Go(func() error {
				key := "respkit-bench:" + uuid.NewString()
				val := strconv.Itoa(i)
				if _, err := pipe.Send(gctx, respkit.NewCommand("SET", respkit.Arg(key), respkit.Arg(val))); err != nil {
					return err
				}
				reply, err := pipe.Send(gctx, respkit.NewCommand("GET", respkit.Arg(key)))
				if err != nil {
					return err
				}
				got, err := respkit.DecodeString(reply)
				if err != nil {
					return err
				}
				if got != val {
					return fmt.Errorf("round %d: expected %q, got %q", i, val, got)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		fmt.Printf("completed %d SET/GET round trips over one pipelined connection\n", pipelineCount)
		return nil
	},
}

func init() {
	pipelineCmd.Flags().IntVar(&pipelineCount, "count", 100, "number of concurrent SET/GET round trips to pipeline")
	rootCmd.AddCommand(pipelineCmd)
}
