package message

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/c360/jobmap/errors"
)

// DefaultEnvironments are the deployment targets accepted when none are configured.
var DefaultEnvironments = []string{"DEV", "QA"}

// DeployRequest is the body clients post to save a folder definition:
//
//	{"ambiente":"DEV","token":"...","filename":"FOLDER","jsonData":"{FOLDER={...}}"}
//
// JSONData is kept raw. It is either a JSON object/array or a JSON string
// holding map-notation text; the converter handles both.
type DeployRequest struct {
	Environment string          `json:"ambiente"`
	Token       string          `json:"token,omitempty"`
	Filename    string          `json:"filename"`
	JSONData    json.RawMessage `json:"jsonData"`
}

// DecodeDeployRequest parses and returns a request body. It does not validate.
func DecodeDeployRequest(data []byte) (*DeployRequest, error) {
	var req DeployRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.WrapInvalid(err, "DeployRequest", "Decode", "request body unmarshal")
	}
	return &req, nil
}

// Validate checks that every field is present and the environment is one of
// allowed (DefaultEnvironments when empty). The token is not checked.
func (r *DeployRequest) Validate(allowed []string) error {
	if len(allowed) == 0 {
		allowed = DefaultEnvironments
	}

	switch {
	case strings.TrimSpace(r.Environment) == "":
		return errors.WrapInvalid(errors.ErrInvalidData, "DeployRequest", "Validate", "ambiente required")
	case strings.TrimSpace(r.Filename) == "":
		return errors.WrapInvalid(errors.ErrInvalidData, "DeployRequest", "Validate", "filename required")
	case !hasData(r.JSONData):
		return errors.WrapInvalid(errors.ErrInvalidData, "DeployRequest", "Validate", "jsonData required")
	}

	if !slices.Contains(allowed, r.Environment) {
		return errors.WrapInvalid(
			fmt.Errorf("%w: ambiente %q not in %v", errors.ErrInvalidData, r.Environment, allowed),
			"DeployRequest", "Validate", "check environment")
	}
	return nil
}

func hasData(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) && !bytes.Equal(trimmed, []byte(`""`))
}

// FileName returns Filename with a ".json" suffix added when missing.
func (r *DeployRequest) FileName() string {
	name := strings.TrimSpace(r.Filename)
	if strings.HasSuffix(name, ".json") {
		return name
	}
	return name + ".json"
}

// LogValue implements slog.LogValuer. The token is never logged.
func (r *DeployRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("ambiente", r.Environment),
		slog.String("filename", r.Filename),
		slog.Int("json_data_bytes", len(r.JSONData)),
		slog.Bool("has_token", r.Token != ""),
	)
}

// MarshalJSON serializes the request without the token.
func (r *DeployRequest) MarshalJSON() ([]byte, error) {
	// Use alias to avoid infinite recursion
	type Alias DeployRequest
	redacted := *r
	redacted.Token = ""
	return json.Marshal((*Alias)(&redacted))
}
