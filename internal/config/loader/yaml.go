package loader

import (
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// yaml.v3 reports positions only inside its messages.
var yamlLine = regexp.MustCompile(`line (\d+)`)

func parseYAML(source string, data []byte) (map[string]any, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		pe := &ParseError{Source: source, Err: err}
		if match := yamlLine.FindStringSubmatch(err.Error()); match != nil {
			pe.Line, _ = strconv.Atoi(match[1])
		}
		return nil, pe
	}
	return m, nil
}
