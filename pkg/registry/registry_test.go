// pkg/registry/registry_test.go
package registry

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func validRegistry() *ActivityRegistry {
	return &ActivityRegistry{
		Version: "1.0.0",
		Activities: []Activity{
			{
				ID:                   "conversation.guard.apply",
				DisplayName:          "Apply Response Guards",
				Category:             "conversation",
				TaskType:             "apply-response-guards",
				ImplementationStatus: "completed",
			},
			{
				ID:                   "conversation.escalation.decide",
				DisplayName:          "Decide Human Escalation",
				Category:             "conversation",
				TaskType:             "decide-human-escalation",
				ImplementationStatus: "completed",
			},
		},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestValidate_ValidRegistry(t *testing.T) {
	assert.NoError(t, validRegistry().Validate())
}

func TestActivity_OptionalFieldsSerializeOmittedNotNull(t *testing.T) {
	// errorCodes, workflows, tags, and the schemas are optional; an unset
	// slice must vanish from the JSON rather than appear as null, or the
	// registry schema rejects a document it declares valid.
	data, err := json.Marshal(validRegistry().Activities[0])
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
}

func TestValidate_RejectsBadNaming(t *testing.T) {
	reg := validRegistry()
	reg.Activities[0].ID = "apply-response-guards"

	err := reg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "domain.subdomain.action")
}

func TestValidate_RejectsDuplicateIDs(t *testing.T) {
	reg := validRegistry()
	reg.Activities[1].ID = reg.Activities[0].ID
	reg.Activities[1].TaskType = "something-else"

	err := reg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate activity ID")
}

func TestValidate_RejectsDuplicateTaskTypes(t *testing.T) {
	reg := validRegistry()
	reg.Activities[1].TaskType = reg.Activities[0].TaskType

	err := reg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate task type")
}

func TestValidate_RejectsEmptyActivities(t *testing.T) {
	reg := &ActivityRegistry{Version: "1.0.0"}
	assert.Error(t, reg.Validate())
}

func TestValidate_RejectsUnknownStatus(t *testing.T) {
	reg := validRegistry()
	reg.Activities[0].ImplementationStatus = "shipped"
	assert.Error(t, reg.Validate())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker-registry.json")

	require.NoError(t, SaveRegistry(validRegistry(), path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.NoError(t, loaded.Validate())
	assert.NotEmpty(t, loaded.LastUpdated)

	activity, ok := loaded.FindByTaskType("apply-response-guards")
	require.True(t, ok)
	assert.Equal(t, "conversation.guard.apply", activity.ID)

	_, ok = loaded.FindByTaskType("unknown-task")
	assert.False(t, ok)
}
