package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rzbill/botconfig/pkg/types"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// outputResource writes resources in the requested format. Table output is
// only supported for service lists.
func outputResource(w io.Writer, resources interface{}, outputFormat string) error {
	switch outputFormat {
	case outputJSON:
		return writeJSON(w, resources)
	case outputYAML:
		return writeYAML(w, resources)
	case outputTable, "":
		services, ok := resources.([]*types.Service)
		if !ok {
			return fmt.Errorf("unsupported resource type for table output")
		}
		return NewServiceTable().Render(w, services)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

// writeJSON writes resources as indented JSON
func writeJSON(w io.Writer, resources interface{}) error {
	jsonData, err := json.MarshalIndent(resources, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal resources to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

// writeYAML writes resources as YAML
func writeYAML(w io.Writer, resources interface{}) error {
	yamlData, err := yaml.Marshal(resources)
	if err != nil {
		return fmt.Errorf("failed to marshal resources to YAML: %w", err)
	}
	_, err = w.Write(yamlData)
	return err
}
