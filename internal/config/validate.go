package config

import (
	"fmt"
	"slices"
	"strings"
)

// Valid enum values for configuration fields.
var (
	ValidBrowseOrders = []string{BrowseOldest, BrowseNewest}
)

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// validateInstances checks that static instances carry what is needed to
// locate their record file.
func validateInstances(instances []InstanceConfig) error {
	seen := make(map[string]bool, len(instances))
	for i, inst := range instances {
		if inst.InstanceID == "" {
			return fmt.Errorf("instances[%d]: instance_id is required", i)
		}
		if inst.Version == "" {
			return fmt.Errorf("instances[%d] %q: version is required", i, inst.InstanceID)
		}
		if seen[inst.InstanceID] {
			return fmt.Errorf("instances[%d]: duplicate instance_id %q", i, inst.InstanceID)
		}
		seen[inst.InstanceID] = true
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
