// pkg/registry/schema.go
package registry

type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema,omitempty"`
	OutputSchema         map[string]interface{} `json:"outputSchema,omitempty"`
	ErrorCodes           []string               `json:"errorCodes,omitempty"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Workflows            []string               `json:"workflows,omitempty"`
	Tags                 []string               `json:"tags,omitempty"`
}

// registrySchema is the structural contract for worker-registry.json.
const registrySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "activities"],
  "properties": {
    "version": {"type": "string", "minLength": 1},
    "lastUpdated": {"type": "string"},
    "activities": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "displayName", "category", "taskType"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "displayName": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "category": {"type": "string", "minLength": 1},
          "version": {"type": "string"},
          "taskType": {"type": "string", "minLength": 1},
          "implementationStatus": {
            "type": "string",
            "enum": ["planned", "in-progress", "completed", "verified"]
          },
          "errorCodes": {"type": "array", "items": {"type": "string"}},
          "timeout": {"type": "string"},
          "retries": {"type": "integer", "minimum": 0}
        }
      }
    }
  }
}`
