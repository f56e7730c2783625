package instance

import (
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/raphi011/recents/internal/config"
)

// RecordFileName is the settings file inside an installation's data directory.
const RecordFileName = "ApplicationPrivateSettings.xml"

// Instance is one IDE installation.
type Instance struct {
	// ID identifies the installation's settings as "<major>.0_<instanceId>".
	ID             string `json:"id"`
	InstanceID     string `json:"instance_id"`
	Version        string `json:"version"`
	DisplayVersion string `json:"display_version,omitempty"`
	Name           string `json:"name"`
	ProductPath    string `json:"product_path"`
	Static         bool   `json:"static,omitempty"`
}

// RecordPath returns the record file for the instance below base, the
// per-user local application data directory.
func (i Instance) RecordPath(base string) string {
	return filepath.Join(base, "Microsoft", "VisualStudio", i.ID, RecordFileName)
}

// MakeID builds the settings identifier from an installation version and the
// raw instance id. ok is false if the version has no numeric major part.
func MakeID(version, instanceID string) (id string, ok bool) {
	majorText, _, _ := strings.Cut(version, ".")
	major, err := strconv.Atoi(majorText)
	if err != nil || major < 0 || instanceID == "" {
		return "", false
	}
	return strconv.Itoa(major) + ".0_" + instanceID, true
}

// locatorRecord is one element of the locator's JSON output.
type locatorRecord struct {
	InstanceID          string `json:"instanceId"`
	InstallationVersion string `json:"installationVersion"`
	ProductPath         string `json:"productPath"`
	DisplayName         string `json:"displayName"`
	Catalog             struct {
		ProductDisplayVersion string `json:"productDisplayVersion"`
	} `json:"catalog"`
}

// Parse reads the locator's JSON output. Output that is empty, not JSON or
// not an array yields no instances. Elements without a usable instance id
// or version are skipped. Order is preserved.
func Parse(data []byte) []Instance {
	var records []locatorRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil
	}

	var out []Instance
	for _, r := range records {
		id, ok := MakeID(r.InstallationVersion, r.InstanceID)
		if !ok {
			continue
		}
		out = append(out, Instance{
			ID:             id,
			InstanceID:     r.InstanceID,
			Version:        r.InstallationVersion,
			DisplayVersion: r.Catalog.ProductDisplayVersion,
			Name:           r.DisplayName,
			ProductPath:    r.ProductPath,
		})
	}
	return out
}

// FromConfig converts statically configured instances. Entries whose
// version has no numeric major part are skipped.
func FromConfig(cfgs []config.InstanceConfig) []Instance {
	var out []Instance
	for _, c := range cfgs {
		id, ok := MakeID(c.Version, c.InstanceID)
		if !ok {
			continue
		}
		out = append(out, Instance{
			ID:          id,
			InstanceID:  c.InstanceID,
			Version:     c.Version,
			Name:        c.Name,
			ProductPath: c.ProductPath,
			Static:      true,
		})
	}
	return out
}

// Merge returns located followed by any static instance whose ID is not
// already present.
func Merge(located, static []Instance) []Instance {
	out := make([]Instance, 0, len(located)+len(static))
	seen := make(map[string]bool, len(located)+len(static))
	for _, list := range [][]Instance{located, static} {
		for _, inst := range list {
			if seen[inst.ID] {
				continue
			}
			seen[inst.ID] = true
			out = append(out, inst)
		}
	}
	return out
}

// RecordPaths returns the record file of every instance below base.
func RecordPaths(instances []Instance, base string) []string {
	paths := make([]string, len(instances))
	for i, inst := range instances {
		paths[i] = inst.RecordPath(base)
	}
	return paths
}
