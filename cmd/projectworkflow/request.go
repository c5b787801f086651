package main

import (
	stdcontext "context"
	"encoding/json"
	"fmt"

	"github.com/tss-calculator/project-workflow/pkg/workflow/application/model"
	"github.com/tss-calculator/project-workflow/pkg/workflow/infrastructure/dependency"
)

type operation func(ctx stdcontext.Context, request model.Request) (model.Result, error)

// run builds the request from flags, falling back to the plugin config, and prints the result.
func run(ctx stdcontext.Context, serverURL, projectName, context string, selectOperation func(dependency.Container) operation) error {
	dependencyContainer, err := dependency.ContainerFromContext(ctx)
	if err != nil {
		return err
	}
	project := dependencyContainer.Project()
	if serverURL == "" {
		serverURL = project.ServerURL
	}
	if projectName == "" {
		projectName = project.Name
	}
	result, err := selectOperation(dependencyContainer)(ctx, model.Request{
		ServerURL:   serverURL,
		ProjectName: projectName,
		Context:     context,
	})
	if err != nil {
		return err
	}
	output, err := json.Marshal(result)
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}
