package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"

	"github.com/tss-calculator/project-workflow/pkg/workflow/application/model"
)

const (
	ServiceBranchName   = "scm/branch/name"
	ServiceBranchCreate = "scm/branch/create"
	ServiceCheckout     = "scm/checkout"
	ServicePatchContext = "project-context/patchContext"
)

var (
	ErrNoTicketID       = errors.New("Can't work without ticket id, there is no `ticketId` property in given context!")
	ErrNoAncestorBranch = errors.New("Can't work without ancestor branch name, there is no `branchAncestor` property in given context!")
	ErrNoBranchName     = errors.New("No name for branch")
)

type ServiceCaller interface {
	Call(ctx context.Context, service string, params model.ServiceParams) (json.RawMessage, error)
}

// CallerProvider binds a ServiceCaller to the server and project of one request.
type CallerProvider interface {
	Caller(target model.Target) ServiceCaller
}

type Branch interface {
	CreateContextBranch(ctx context.Context, request model.Request) (model.Result, error)
	SaveBranchName(ctx context.Context, request model.Request) (model.Result, error)
	CheckoutBranchAncestor(ctx context.Context, request model.Request) (model.Result, error)
}

func NewBranchService(
	project model.Project,
	logger applogger.Logger,
	callerProvider CallerProvider,
) Branch {
	branchPrefix := project.BranchPrefix
	if branchPrefix == "" {
		branchPrefix = model.DefaultBranchPrefix
	}
	return &branchService{
		branchPrefix:   branchPrefix,
		logger:         logger,
		callerProvider: callerProvider,
	}
}

type branchService struct {
	branchPrefix string

	logger         applogger.Logger
	callerProvider CallerProvider
}

func (service branchService) CreateContextBranch(ctx context.Context, request model.Request) (model.Result, error) {
	service.logger.Debug(fmt.Sprintf("supplied context: %v", request.Context))
	c, err := request.ParseContext()
	if err != nil {
		return model.Result{}, err
	}
	caller := service.callerProvider.Caller(request.Target())

	var steps []step
	if c.BranchAncestor == "" {
		steps = append(steps, step{
			name: "save ancestor",
			run: func(ctx context.Context) (string, error) {
				return service.saveAncestor(ctx, caller, &c)
			},
		})
	} else {
		service.logger.Debug(fmt.Sprintf("ancestor \"%v\" already saved in context", c.BranchAncestor))
	}
	steps = append(steps,
		step{
			name: "create branch",
			run: func(ctx context.Context) (string, error) {
				return service.createBranch(ctx, caller, c.BranchName)
			},
		},
		step{
			name: "checkout branch",
			run: func(ctx context.Context) (string, error) {
				return service.checkoutBranch(ctx, caller, c.BranchName)
			},
		},
	)

	messages, err := runSteps(ctx, service.logger, steps)
	if err != nil {
		return model.Result{}, err
	}
	return model.Result{
		Msg:     strings.Join(messages, ", "),
		Context: c,
	}, nil
}

func (service branchService) SaveBranchName(ctx context.Context, request model.Request) (model.Result, error) {
	c, err := request.ParseContext()
	if err != nil {
		return model.Result{}, err
	}
	if c.BranchName != "" {
		return model.Result{
			Msg:     fmt.Sprintf("Nothing done, branch name already exists in context: '%v'", c.BranchName),
			Context: c,
		}, nil
	}
	if c.TicketID == "" {
		return model.Result{}, ErrNoTicketID
	}

	branchName := service.branchPrefix + c.TicketID
	caller := service.callerProvider.Caller(request.Target())
	err = patchContext(ctx, caller, c.ID, map[string]string{"branchName": branchName})
	if err != nil {
		return model.Result{}, err
	}
	c.BranchName = branchName
	service.logger.Info(fmt.Sprintf("saved branch name \"%v\" in context \"%v\"", branchName, c.ID))

	return model.Result{
		Msg:     fmt.Sprintf("Saved branch name '%v' in context.", branchName),
		Context: c,
	}, nil
}

func (service branchService) CheckoutBranchAncestor(ctx context.Context, request model.Request) (model.Result, error) {
	c, err := request.ParseContext()
	if err != nil {
		return model.Result{}, err
	}
	if c.BranchAncestor == "" {
		return model.Result{}, ErrNoAncestorBranch
	}
	message, err := service.checkoutBranch(ctx, service.callerProvider.Caller(request.Target()), c.BranchAncestor)
	if err != nil {
		return model.Result{}, err
	}
	return model.Result{
		Msg:     message,
		Context: c,
	}, nil
}

// saveAncestor stores the currently checked out branch as branchAncestor of the context.
func (service branchService) saveAncestor(ctx context.Context, caller ServiceCaller, c *model.Context) (string, error) {
	raw, err := caller.Call(ctx, ServiceBranchName, model.ServiceParams{})
	if err != nil {
		return "", err
	}
	branchName, err := decodeValue(raw)
	if err != nil {
		return "", errors.Wrapf(err, "unexpected reply of service %v", ServiceBranchName)
	}
	err = patchContext(ctx, caller, c.ID, map[string]string{"branchAncestor": branchName})
	if err != nil {
		return "", err
	}
	c.BranchAncestor = branchName
	return fmt.Sprintf("Ancestor branch '%v' saved in context", branchName), nil
}

func (service branchService) createBranch(ctx context.Context, caller ServiceCaller, branchName string) (string, error) {
	return service.callBranchService(ctx, caller, ServiceBranchCreate, branchName, "Branch '%v' created if not already existed")
}

func (service branchService) checkoutBranch(ctx context.Context, caller ServiceCaller, branchName string) (string, error) {
	return service.callBranchService(ctx, caller, ServiceCheckout, branchName, "Switched to branch '%v'")
}

func (service branchService) callBranchService(
	ctx context.Context,
	caller ServiceCaller,
	serviceName string,
	branchName string,
	messageFormat string,
) (string, error) {
	if branchName == "" {
		return "", ErrNoBranchName
	}
	service.logger.Debug(fmt.Sprintf("call %v for branch \"%v\"", serviceName, branchName))
	_, err := caller.Call(ctx, serviceName, model.ServiceParams{
		"name":  branchName,
		"force": false,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(messageFormat, branchName), nil
}

func patchContext(ctx context.Context, caller ServiceCaller, id model.ContextID, properties map[string]string) error {
	body, err := json.Marshal(properties)
	if err != nil {
		return errors.Wrap(err, "failed to marshal context properties")
	}
	_, err = caller.Call(ctx, ServicePatchContext, model.ServiceParams{
		"id":         id,
		"properties": string(body),
	})
	return err
}

// decodeValue reads a reply which is either a JSON string or plain text.
func decodeValue(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", errors.New("empty reply")
	}
	if raw[0] != '"' {
		return string(raw), nil
	}
	var value string
	err := json.Unmarshal(raw, &value)
	return value, err
}
