package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/buddy/internal/hermes"
	"github.com/MikeSquared-Agency/buddy/internal/orchestrator"
)

type natsFlags struct {
	url   string
	token string
}

func (n *natsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&n.url, "nats-url", envOr("NATS_URL", "nats://localhost:4222"), "NATS server URL")
	cmd.Flags().StringVar(&n.token, "nats-token", os.Getenv("NATS_TOKEN"), "NATS auth token")
}

func (n *natsFlags) connect(ctx context.Context, cmd *cobra.Command) (*hermes.Client, error) {
	return hermes.NewClient(ctx, n.url, n.token, cliLogger(cmd.ErrOrStderr()))
}

func newChatCmd() *cobra.Command {
	var (
		nf      natsFlags
		req     orchestrator.Request
		source  string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Send one chat turn to a running Buddy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			client, err := nf.connect(ctx, cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			req.Input = args[0]
			req.Source = orchestrator.Source(source)

			var res orchestrator.Result
			if err := client.Request(ctx, hermes.SubjectChatRequest, req, &res); err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	nf.register(cmd)
	cmd.Flags().StringVarP(&req.UserID, "user", "u", "buddyctl", "user id")
	cmd.Flags().StringVar(&source, "source", string(orchestrator.SourceText), "text or chat_export")
	cmd.Flags().DurationVar(&timeout, "timeout", 90*time.Second, "request timeout")
	return cmd
}

func newEventsCmd() *cobra.Command {
	var nf natsFlags
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print trait-learned events until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := nf.connect(ctx, cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			err = client.Subscribe(hermes.SubjectTraitsLearned, func(_ string, data []byte) {
				var ev hermes.TraitsLearnedEvent
				if err := json.Unmarshal(data, &ev); err != nil {
					slog.Warn("bad event", "error", err)
					return
				}
				printf(cmd, "%s\t%s\t%v\n", ev.Timestamp.Format(time.RFC3339), ev.UserID, ev.Traits)
			})
			if err != nil {
				return err
			}
			<-ctx.Done()
			return nil
		},
	}
	nf.register(cmd)
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
