package service

import (
	"context"
	"fmt"
	"strings"

	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"
)

// StepsError reports a failed step together with the messages of the steps
// that completed before it.
type StepsError struct {
	Worked []string
	Err    error
}

func (e *StepsError) Error() string {
	worked := make([]string, 0, len(e.Worked))
	for _, message := range e.Worked {
		if message != "" {
			worked = append(worked, message)
		}
	}
	return "Worked steps: " + strings.Join(worked, ", ") + ". Error: " + e.Err.Error()
}

func (e *StepsError) Unwrap() error {
	return e.Err
}

func (e *StepsError) Cause() error {
	return e.Err
}

type step struct {
	name string
	run  func(ctx context.Context) (string, error)
}

// runSteps runs steps one after another and stops at the first failure.
func runSteps(ctx context.Context, logger applogger.Logger, steps []step) ([]string, error) {
	messages := make([]string, 0, len(steps))
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return messages, &StepsError{Worked: messages, Err: err}
		}
		logger.Debug(fmt.Sprintf("run step \"%v\"", s.name))
		message, err := s.run(ctx)
		if err != nil {
			logger.Error(err, fmt.Sprintf("step \"%v\" failed", s.name))
			return messages, &StepsError{Worked: messages, Err: err}
		}
		messages = append(messages, message)
	}
	return messages, nil
}
