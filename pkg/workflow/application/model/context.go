package model

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

type ContextID = string

// Context is a ticket-scoped workflow record. Properties the plugin does not know
// about are kept as-is and written back on marshal.
type Context struct {
	ID             ContextID
	TicketID       string
	BranchName     string
	BranchAncestor string

	properties map[string]json.RawMessage
}

const (
	idProperty             = "_id"
	ticketIDProperty       = "ticketId"
	branchNameProperty     = "branchName"
	branchAncestorProperty = "branchAncestor"
)

func (c *Context) UnmarshalJSON(data []byte) error {
	var properties map[string]json.RawMessage
	err := json.Unmarshal(data, &properties)
	if err != nil {
		return err
	}
	fields := map[string]*string{
		idProperty:             &c.ID,
		ticketIDProperty:       &c.TicketID,
		branchNameProperty:     &c.BranchName,
		branchAncestorProperty: &c.BranchAncestor,
	}
	for name, field := range fields {
		raw, ok := properties[name]
		if !ok {
			continue
		}
		*field, err = scalarString(raw)
		if err != nil {
			return errors.Wrapf(err, "invalid context property %v", name)
		}
		delete(properties, name)
	}
	c.properties = properties
	return nil
}

func (c Context) MarshalJSON() ([]byte, error) {
	properties := make(map[string]interface{}, len(c.properties)+4)
	for name, raw := range c.properties {
		properties[name] = raw
	}
	setIfNotEmpty(properties, idProperty, c.ID)
	setIfNotEmpty(properties, ticketIDProperty, c.TicketID)
	setIfNotEmpty(properties, branchNameProperty, c.BranchName)
	setIfNotEmpty(properties, branchAncestorProperty, c.BranchAncestor)
	return json.Marshal(properties)
}

// Property returns a raw property which is not one of the known context fields.
func (c Context) Property(name string) (json.RawMessage, bool) {
	raw, ok := c.properties[name]
	return raw, ok
}

func setIfNotEmpty(properties map[string]interface{}, name, value string) {
	if value != "" {
		properties[name] = value
	}
}

// scalarString converts a JSON string, number or null into its string form.
func scalarString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	err := json.Unmarshal(raw, &n)
	if err != nil {
		return "", errors.Errorf("expected string or number, got %s", raw)
	}
	return n.String(), nil
}
