package sweetp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"

	"github.com/tss-calculator/project-workflow/pkg/workflow/application/model"
	"github.com/tss-calculator/project-workflow/pkg/workflow/application/service"
)

// maxErrorBody limits how much of a failed reply ends up in the error message.
const maxErrorBody = 512

func NewCallerProvider(client *http.Client, logger applogger.Logger) service.CallerProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &callerProvider{
		client: client,
		logger: logger,
	}
}

type callerProvider struct {
	client *http.Client
	logger applogger.Logger
}

func (provider callerProvider) Caller(target model.Target) service.ServiceCaller {
	return &caller{
		target: target,
		client: provider.client,
		logger: provider.logger,
	}
}

type caller struct {
	target model.Target
	client *http.Client
	logger applogger.Logger
}

type reply struct {
	Service json.RawMessage `json:"service"`
}

func (c caller) Call(ctx context.Context, serviceName string, params model.ServiceParams) (json.RawMessage, error) {
	result, err := c.call(ctx, serviceName, params)
	if err != nil {
		return nil, errors.Wrapf(err, "Error during call to service %v", serviceName)
	}
	return result, nil
}

func (c caller) call(ctx context.Context, serviceName string, params model.ServiceParams) (json.RawMessage, error) {
	serviceURL, err := c.serviceURL(serviceName, params)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serviceURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	c.logger.Debug(fmt.Sprintf("GET %v", serviceURL))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if len(body) == 0 {
			return nil, fmt.Errorf("unexpected status %v", resp.StatusCode)
		}
		return nil, fmt.Errorf("unexpected status %v: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var r reply
	err = json.NewDecoder(resp.Body).Decode(&r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode reply")
	}
	return r.Service, nil
}

func (c caller) serviceURL(serviceName string, params model.ServiceParams) (string, error) {
	if c.target.ServerURL == "" {
		return "", errors.New("server url is empty")
	}
	if c.target.ProjectName == "" {
		return "", errors.New("project name is empty")
	}
	base, err := url.Parse(strings.TrimSuffix(c.target.ServerURL, "/"))
	if err != nil {
		return "", errors.Wrapf(err, "invalid server url %v", c.target.ServerURL)
	}
	base.Path += "/services/" + c.target.ProjectName + "/" + strings.Trim(serviceName, "/")

	query := url.Values{}
	for name, value := range params {
		query.Set(name, fmt.Sprint(value))
	}
	base.RawQuery = query.Encode()
	return base.String(), nil
}
