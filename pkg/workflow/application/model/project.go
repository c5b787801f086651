package model

import "time"

const DefaultBranchPrefix = "feature/"

type Project struct {
	ServerURL    string
	Name         string
	BranchPrefix string
	Timeout      time.Duration
}
