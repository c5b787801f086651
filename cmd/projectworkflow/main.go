package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/tss-calculator/go-lib/pkg/infrastructure/logger"
	"github.com/urfave/cli/v2"

	"github.com/tss-calculator/project-workflow/pkg/workflow/infrastructure/config"
	"github.com/tss-calculator/project-workflow/pkg/workflow/infrastructure/dependency"
)

func main() {
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()
	ctx = listenOSKillSignalsContext(ctx)
	mainLogger := logger.NewTextLogger()

	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		mainLogger.FatalError(err, "failed load .env file")
	}

	app := &cli.App{
		Name:  "project-workflow",
		Usage: "branch bookkeeping for project contexts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   config.DefaultPath,
				EnvVars: []string{"PROJECT_WORKFLOW_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "url",
				Usage:   "address of the workflow server",
				EnvVars: []string{"SWEETP_URL"},
			},
			&cli.StringFlag{
				Name:    "project",
				Usage:   "project name",
				EnvVars: []string{"SWEETP_PROJECT"},
			},
			&cli.StringFlag{
				Name:    "context",
				Usage:   "serialized context",
				EnvVars: []string{"SWEETP_CONTEXT"},
			},
		},
		Before: func(c *cli.Context) error {
			project, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			container := dependency.NewDependencyContainer(mainLogger, project)
			c.Context = dependency.ContainerToContext(c.Context, container)
			return nil
		},
		Commands: cli.Commands{
			&cli.Command{
				Name:  "create-context-branch",
				Usage: "create a new branch for a context and save its ancestor",
				Action: func(c *cli.Context) error {
					return createContextBranch(c.Context, c.String("url"), c.String("project"), c.String("context"))
				},
			},
			&cli.Command{
				Name:  "save-branch-name",
				Usage: "derive a branch name from the ticket id and save it in the context",
				Action: func(c *cli.Context) error {
					return saveBranchName(c.Context, c.String("url"), c.String("project"), c.String("context"))
				},
			},
			&cli.Command{
				Name:  "checkout-branch-ancestor",
				Usage: "switch to the ancestor branch of a context",
				Action: func(c *cli.Context) error {
					return checkoutBranchAncestor(c.Context, c.String("url"), c.String("project"), c.String("context"))
				},
			},
		},
	}
	err = app.RunContext(ctx, os.Args)
	if err != nil {
		mainLogger.FatalError(err, "failed execute command "+strings.Join(os.Args, " "))
	}
}

func listenOSKillSignalsContext(ctx context.Context) context.Context {
	var cancelFunc context.CancelFunc
	ctx, cancelFunc = context.WithCancel(ctx)
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		select {
		case <-ch:
			cancelFunc()
		case <-ctx.Done():
			return
		}
	}()
	return ctx
}
