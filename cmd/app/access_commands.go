package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/asthalabs/shopperai/cmd/app/commands"
	"github.com/asthalabs/shopperai/internal/app"
	"github.com/asthalabs/shopperai/internal/config"
)

func getAccessCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "evaluate",
			Usage: "Dry-run an access decision against a guarded agent's policy",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "target",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Target agent ID (e.g., payment-agent)",
				},
				&cli.StringFlag{
					Name:    "caller",
					Aliases: []string{"c"},
					Usage:   "Caller agent ID (omit to evaluate an identity-less caller)",
				},
				&cli.StringFlag{
					Name:    "trust-domain",
					Aliases: []string{"td"},
					Usage:   "Caller trust domain (required when --caller is set)",
				},
				&cli.StringFlag{
					Name:     "action",
					Aliases:  []string{"a"},
					Required: true,
					Usage:    "Action to evaluate (e.g., process_refund)",
				},
				&cli.StringFlag{
					Name:    "context",
					Aliases: []string{"x"},
					Usage:   "JSON object of contextual attributes (e.g., '{\"refund_amount\": 42.5}')",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				accessUseCase, err := container.AccessUseCase()
				if err != nil {
					return err
				}

				return commands.RunEvaluate(
					ctx,
					accessUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					commands.EvaluateInput{
						TargetAgentID:     cmd.String("target"),
						CallerAgentID:     cmd.String("caller"),
						CallerTrustDomain: cmd.String("trust-domain"),
						Action:            cmd.String("action"),
						ContextJSON:       cmd.String("context"),
						Format:            cmd.String("format"),
					},
				)
			},
		},
	}
}
