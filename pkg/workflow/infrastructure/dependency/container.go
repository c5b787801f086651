package dependency

import (
	"context"
	"errors"
	"net/http"

	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"

	"github.com/tss-calculator/project-workflow/pkg/workflow/application/model"
	"github.com/tss-calculator/project-workflow/pkg/workflow/application/service"
	"github.com/tss-calculator/project-workflow/pkg/workflow/infrastructure/sweetp"
)

type containerKey struct{}

type Container interface {
	Project() model.Project
	Branch() service.Branch
}

func NewDependencyContainer(
	logger applogger.Logger,
	project model.Project,
) Container {
	httpClient := &http.Client{Timeout: project.Timeout}
	callerProvider := sweetp.NewCallerProvider(httpClient, logger)
	branchService := service.NewBranchService(project, logger, callerProvider)

	return &container{
		project: project,
		branch:  branchService,
	}
}

type container struct {
	project model.Project
	branch  service.Branch
}

func (c *container) Project() model.Project {
	return c.project
}

func (c *container) Branch() service.Branch {
	return c.branch
}

func ContainerFromContext(ctx context.Context) (Container, error) {
	v := ctx.Value(containerKey{})
	if c, ok := v.(Container); ok {
		return c, nil
	}
	return nil, errors.New("dependency container not found")
}

func ContainerToContext(ctx context.Context, c Container) context.Context {
	return context.WithValue(ctx, containerKey{}, c)
}
