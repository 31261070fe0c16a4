// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"leadchat-workers/internal/common/validation"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

func SaveRegistry(reg *ActivityRegistry, path string) error {
	reg.LastUpdated = time.Now().Format(time.RFC3339)

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}

	return nil
}

// Validate checks the registry document against its JSON schema, then applies
// the rules the schema cannot express: unique ids, unique task types, and the
// domain.subdomain.action naming convention.
func (reg *ActivityRegistry) Validate() error {
	doc, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	result, err := validation.ValidateJSON(doc, []byte(registrySchema))
	if err != nil {
		return err
	}
	if !result.Valid {
		return fmt.Errorf("registry schema violations: %v", result.GetErrorMessages())
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, activity := range reg.Activities {
		if err := validation.ValidateActivityNaming(activity.ID); err != nil {
			return fmt.Errorf("activity %q: %w", activity.ID, err)
		}
		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity ID: %s", activity.ID)
		}
		ids[activity.ID] = true

		if taskTypes[activity.TaskType] {
			return fmt.Errorf("duplicate task type: %s", activity.TaskType)
		}
		taskTypes[activity.TaskType] = true
	}

	return nil
}

// FindByTaskType returns the activity registered for a Zeebe task type.
func (reg *ActivityRegistry) FindByTaskType(taskType string) (*Activity, bool) {
	for i := range reg.Activities {
		if reg.Activities[i].TaskType == taskType {
			return &reg.Activities[i], true
		}
	}
	return nil, false
}
