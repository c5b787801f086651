package main

import (
	stdcontext "context"

	"github.com/tss-calculator/project-workflow/pkg/workflow/infrastructure/dependency"
)

func checkoutBranchAncestor(ctx stdcontext.Context, serverURL, projectName, context string) error {
	return run(ctx, serverURL, projectName, context, func(c dependency.Container) operation {
		return c.Branch().CheckoutBranchAncestor
	})
}
