package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Document is the raw section -> key -> value view of an INI file.
// Section and key names keep the case used in the file.
type Document map[string]map[string]string

// Get returns the value stored under section/key.
func (d Document) Get(section, key string) (string, bool) {
	keys, ok := d[section]
	if !ok {
		return "", false
	}
	v, ok := keys[key]
	return v, ok
}

// Section returns a copy of the named section, or nil when absent.
func (d Document) Section(name string) map[string]string {
	keys, ok := d[name]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(keys))
	for k, v := range keys {
		out[k] = v
	}
	return out
}

// parseDocument reads path with ini.v1. Lines without a key/value
// delimiter are rejected.
func parseDocument(path string) (Document, error) {
	f, err := ini.LoadSources(ini.LoadOptions{}, path)
	if err != nil {
		return nil, err
	}

	doc := make(Document)
	for _, sec := range f.Sections() {
		keys := sec.Keys()
		if sec.Name() == ini.DefaultSection && len(keys) == 0 {
			continue
		}
		values := make(map[string]string, len(keys))
		for _, k := range keys {
			values[k.Name()] = k.String()
		}
		doc[sec.Name()] = values
	}
	return doc, nil
}

// settings flattens one section into a map suitable for viper.MergeConfigMap.
func (d Document) settings(section string) (map[string]any, error) {
	keys, ok := d[section]
	if !ok {
		return nil, fmt.Errorf("missing [%s] section", section)
	}
	out := make(map[string]any, len(keys))
	for k, v := range keys {
		out[k] = v
	}
	return out, nil
}
