package registry

import (
	"embed"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed assigned_numbers/*.yaml
var assignedNumbersFS embed.FS

type yamlFieldInfo struct {
	DataType  string `yaml:"data_type"`
	FieldSize string `yaml:"field_size"`
}

type yamlUnitInfo struct {
	UnitID         string `yaml:"unit_id"`
	UnitSymbol     string `yaml:"unit_symbol"`
	BaseUnit       string `yaml:"base_unit"`
	ResolutionText string `yaml:"resolution_text"`
}

type yamlUUIDEntry struct {
	UUID      string        `yaml:"uuid"`
	Name      string        `yaml:"name"`
	ID        string        `yaml:"id"`
	FieldInfo yamlFieldInfo `yaml:"field_info"`
	UnitInfo  yamlUnitInfo  `yaml:"unit_info"`
}

type yamlUUIDFile struct {
	UUIDs []yamlUUIDEntry `yaml:"uuids"`
}

type yamlNamedValueEntry struct {
	Value interface{} `yaml:"value"`
	Name  string      `yaml:"name"`
}

type yamlAppearanceFile struct {
	Appearances []yamlNamedValueEntry `yaml:"appearances"`
}

type yamlCompanyFile struct {
	Companies []yamlNamedValueEntry `yaml:"companies"`
}

type yamlADTypeFile struct {
	ADTypes []yamlNamedValueEntry `yaml:"ad_types"`
}

func loadYAMLUUIDs(path string) ([]yamlUUIDEntry, error) {
	data, err := assignedNumbersFS.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f yamlUUIDFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.UUIDs, nil
}

func normalizeUUIDString(s string) string {
	return strings.TrimPrefix(strings.ToUpper(s), "0X")
}

func yamlUnmarshalNamedValues(data []byte, out interface{}) error {
	return yaml.Unmarshal(data, out)
}

func namedValueUint32(v interface{}) uint32 {
	switch t := v.(type) {
	case int:
		return uint32(t)
	case int64:
		return uint32(t)
	case uint64:
		return uint32(t)
	case string:
		n, _ := strconv.ParseUint(strings.TrimPrefix(strings.ToUpper(t), "0X"), 16, 32)
		return uint32(n)
	default:
		return 0
	}
}
