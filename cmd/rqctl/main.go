package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/intelliquery/internal/bootstrap"
	"github.com/akolanti/intelliquery/internal/cli"
	"github.com/akolanti/intelliquery/internal/rag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(func(ctx context.Context) (rag.Service, error) {
		clients, err := bootstrap.New(ctx)
		if err != nil {
			return nil, err
		}
		return clients.RagService(), nil
	})
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
