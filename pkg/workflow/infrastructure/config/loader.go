package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/tss-calculator/project-workflow/pkg/workflow/application/model"
)

const DefaultPath = "project-workflow.json"

type Config struct {
	URL            string `json:"url"`
	Name           string `json:"name"`
	BranchPrefix   string `json:"branchPrefix,omitempty"`
	TimeoutSeconds int    `json:"timeoutSeconds,omitempty"`
}

// Load reads the plugin config. A missing file yields the default project.
func Load(filePath string) (model.Project, error) {
	configFile, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return MapToProject(Config{}), nil
		}
		return model.Project{}, errors.Wrapf(err, "failed to open config file: %v", filePath)
	}
	defer configFile.Close()
	configBody, err := io.ReadAll(configFile)
	if err != nil {
		return model.Project{}, errors.Wrapf(err, "failed to read config file: %v", filePath)
	}

	var config Config
	err = json.Unmarshal(configBody, &config)
	if err != nil {
		return model.Project{}, errors.Wrap(err, "failed to unmarshal config")
	}
	if config.TimeoutSeconds < 0 {
		return model.Project{}, fmt.Errorf("negative timeout %v in config %v", config.TimeoutSeconds, filePath)
	}
	return MapToProject(config), nil
}

func MapToProject(config Config) model.Project {
	branchPrefix := config.BranchPrefix
	if branchPrefix == "" {
		branchPrefix = model.DefaultBranchPrefix
	}
	return model.Project{
		ServerURL:    config.URL,
		Name:         config.Name,
		BranchPrefix: branchPrefix,
		Timeout:      time.Duration(config.TimeoutSeconds) * time.Second,
	}
}
