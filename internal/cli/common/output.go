package common

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

const (
	OutputAuto = "auto"
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

func ValidateOutputFormat(format string) error {
	switch format {
	case OutputAuto, OutputText, OutputJSON, OutputYAML:
		return nil
	default:
		return ValidationError("invalid output format: use auto, text, json, or yaml", nil)
	}
}

// WriteOutput renders value in the requested format. auto renders text when
// renderText is provided and JSON otherwise.
func WriteOutput[T any](command *cobra.Command, format string, value T, renderText func(io.Writer, T) error) error {
	if isNilOutputValue(value) {
		return nil
	}

	switch strings.TrimSpace(format) {
	case OutputAuto, "":
		if renderText != nil {
			return renderText(command.OutOrStdout(), value)
		}
		return writeJSON(command.OutOrStdout(), value)
	case OutputText:
		if renderText != nil {
			return renderText(command.OutOrStdout(), value)
		}
		_, err := fmt.Fprintln(command.OutOrStdout(), value)
		return err
	case OutputJSON:
		return writeJSON(command.OutOrStdout(), value)
	case OutputYAML:
		return writeYAML(command.OutOrStdout(), value)
	default:
		return ValidationError("invalid output format: use auto, text, json, or yaml", nil)
	}
}

func WriteText(command *cobra.Command, format string, text string) error {
	return WriteOutput(command, format, text, func(w io.Writer, value string) error {
		_, err := fmt.Fprintln(w, value)
		return err
	})
}

func writeJSON(w io.Writer, value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(encoded))
	return err
}

// writeYAML goes through JSON first so json tags decide the field names.
func writeYAML(w io.Writer, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(encoded, &generic); err != nil {
		return err
	}
	rendered, err := yaml.Marshal(generic)
	if err != nil {
		return err
	}
	_, err = w.Write(rendered)
	return err
}

// WriteYAML encodes value with its yaml tags, for configuration types.
func WriteYAML(command *cobra.Command, value any) error {
	rendered, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	_, err = command.OutOrStdout().Write(rendered)
	return err
}

func isNilOutputValue[T any](value T) bool {
	anyValue := any(value)
	if anyValue == nil {
		return true
	}

	reflected := reflect.ValueOf(anyValue)
	switch reflected.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return reflected.IsNil()
	default:
		return false
	}
}
