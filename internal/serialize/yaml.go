package serialize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// YAML renders values as YAML documents. Values go through the same JSON
// reduction as Canonical, so field names follow json tags and mapping keys
// come out sorted.
type YAML struct{}

// Serialize implements Serializer. PrintBasicPrototype and EscapeString do
// not apply to YAML output.
func (YAML) Serialize(v any, cfg Config) (string, error) {
	tree, err := toTree(v)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if cfg.Indent > 0 {
		enc.SetIndent(cfg.Indent)
	}
	if err := enc.Encode(yamlNode(tree)); err != nil {
		return "", fmt.Errorf("serialize yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("serialize yaml: %w", err)
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// yamlNode builds a node tree with explicit key order and NFC strings so the
// encoder has nothing left to decide.
func yamlNode(v any) *yaml.Node {
	switch val := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case map[string]any:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range SortedKeys(val) {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: norm.NFC.String(k)},
				yamlNode(val[k]),
			)
		}
		return n
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range val {
			n.Content = append(n.Content, yamlNode(elem))
		}
		return n
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: norm.NFC.String(val)}
	case errorTag:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "[Error: " + string(val) + "]"}
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(val)}
	case json.Number:
		tag := "!!float"
		if _, err := val.Int64(); err == nil {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: val.String()}
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloat(val)}
		}
		return yamlNode(json.Number(formatFloat(val)))
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprintf("%v", val)}
	}
}

func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	}
	return "-.inf"
}
