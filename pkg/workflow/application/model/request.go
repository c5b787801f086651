package model

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

var ErrNoContext = errors.New("Can't work without context!")

// Target addresses the named services of one project on a workflow server.
type Target struct {
	ServerURL   string
	ProjectName string
}

// Request is what the host dispatcher passes to every exposed operation.
type Request struct {
	ServerURL   string
	ProjectName string
	Context     string
}

func (r Request) Target() Target {
	return Target{
		ServerURL:   r.ServerURL,
		ProjectName: r.ProjectName,
	}
}

func (r Request) ParseContext() (Context, error) {
	if strings.TrimSpace(r.Context) == "" {
		return Context{}, ErrNoContext
	}
	var c Context
	err := json.Unmarshal([]byte(r.Context), &c)
	if err != nil {
		return Context{}, errors.Wrap(err, "failed to parse context")
	}
	return c, nil
}

type Result struct {
	Msg     string  `json:"msg"`
	Context Context `json:"context"`
}

// ServiceParams are the parameters of a remote service call.
type ServiceParams map[string]interface{}
