package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"presupuestos/internal/amqp"
	"presupuestos/internal/log"
)

func newEventsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Log dataset and production-line events from the broker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.eventClient()
			if err != nil {
				return err
			}
			if client == nil {
				return errors.New("events are disabled: set AMQP_URL")
			}
			defer client.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := a.logger.WithComponent(log.ComponentAMQP)
			out := cmd.OutOrStdout()
			err = client.Consume(ctx, func(ctx context.Context, e *amqp.Event) error {
				logger.InfoContext(ctx, "Event received", "id", e.ID, "type", e.Type,
					log.FieldSource, e.Source, log.FieldMode, e.Mode, log.FieldRecords, e.Total)
				_, err := fmt.Fprintln(out, describeEvent(e))
				return err
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

func describeEvent(e *amqp.Event) string {
	ts := e.Timestamp.Format("2006-01-02 15:04:05")
	switch e.Type {
	case amqp.EventDatasetImported:
		return fmt.Sprintf("%s %s: %d registros importados de %s (%s), %d en total", ts, e.Type, e.Imported, e.Source, e.Mode, e.Total)
	case amqp.EventProductionLinesSaved:
		return fmt.Sprintf("%s %s: %d líneas de producción", ts, e.Type, e.Total)
	}
	return fmt.Sprintf("%s %s", ts, e.Type)
}
