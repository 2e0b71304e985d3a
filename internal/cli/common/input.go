package common

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

const (
	stdinPayload          = "-"
	MissingPayloadMessage = "payload is required: pass --payload <path|-> or pipe it on stdin"
	maxPayloadBytes       = 2 << 20
)

// ReadInput returns the --payload file, or stdin when the flag is empty or
// "-". An interactive terminal on stdin counts as no payload.
func ReadInput(command *cobra.Command, flags InputFlags) ([]byte, error) {
	var reader io.Reader
	if flags.Payload != "" && flags.Payload != stdinPayload {
		file, err := os.Open(flags.Payload)
		if err != nil {
			return nil, ValidationError("payload file cannot be opened", err)
		}
		defer file.Close()
		reader = file
	} else {
		reader = command.InOrStdin()
		if stdin, ok := reader.(*os.File); ok {
			if info, err := stdin.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
				return nil, ValidationError(MissingPayloadMessage, nil)
			}
		}
	}

	data, err := io.ReadAll(io.LimitReader(reader, maxPayloadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxPayloadBytes {
		return nil, ValidationError("payload exceeds 2 MiB", nil)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ValidationError(MissingPayloadMessage, nil)
	}
	return data, nil
}

// PayloadFormat returns the explicit --format, else infers it from the file
// extension and finally from the first byte of data.
func PayloadFormat(flags InputFlags, data []byte) string {
	if flags.Format != "" {
		return flags.Format
	}
	switch strings.ToLower(filepath.Ext(flags.Payload)) {
	case ".yaml", ".yml":
		return OutputYAML
	case ".json":
		return OutputJSON
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return OutputJSON
	}
	return OutputYAML
}

func DecodeInput[T any](data []byte, format string) (T, error) {
	var output T

	switch format {
	case OutputJSON:
		if err := json.Unmarshal(data, &output); err != nil {
			return output, ValidationError("payload is not valid json", err)
		}
	case OutputYAML:
		if err := yaml.Unmarshal(data, &output); err != nil {
			return output, ValidationError("payload is not valid yaml", err)
		}
	default:
		return output, ValidationError("invalid input format: use json or yaml", nil)
	}

	return output, nil
}

// ReadJSONPayload reads the payload and re-encodes YAML input as JSON, the
// only body format the Admin API accepts.
func ReadJSONPayload(command *cobra.Command, flags InputFlags) ([]byte, error) {
	data, err := ReadInput(command, flags)
	if err != nil {
		return nil, err
	}

	format := PayloadFormat(flags, data)
	decoded, err := DecodeInput[any](data, format)
	if err != nil {
		return nil, err
	}
	if format == OutputJSON {
		return data, nil
	}

	encoded, err := json.Marshal(decoded)
	if err != nil {
		return nil, ValidationError("payload cannot be converted to json", err)
	}
	return encoded, nil
}
