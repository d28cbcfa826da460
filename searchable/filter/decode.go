package filter

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	serrors "github.com/ministore/searchable/searchable/errors"
)

// Document is a filter and order specification read from one file.
type Document struct {
	Filters Spec  `yaml:"filters" json:"filters"`
	Orders  Order `yaml:"orders" json:"orders"`
}

// DecodeSpec reads a filter specification from JSON or YAML, keeping the
// document's key order.
func DecodeSpec(data []byte) (Spec, error) {
	node, err := parseDocument(data)
	if err != nil {
		return nil, specErr("decode filters", err)
	}
	var s Spec
	if err := s.UnmarshalYAML(node); err != nil {
		return nil, specErr("decode filters", err)
	}
	return s, nil
}

// DecodeOrder reads an order specification from JSON or YAML.
func DecodeOrder(data []byte) (Order, error) {
	node, err := parseDocument(data)
	if err != nil {
		return nil, specErr("decode orders", err)
	}
	var o Order
	if err := o.UnmarshalYAML(node); err != nil {
		return nil, specErr("decode orders", err)
	}
	return o, nil
}

// DecodeDocument reads {filters: ..., orders: ...} from JSON or YAML.
func DecodeDocument(data []byte) (Document, error) {
	node, err := parseDocument(data)
	if err != nil {
		return Document{}, specErr("decode document", err)
	}
	var d Document
	if isNull(node) {
		return d, nil
	}
	if err := node.Decode(&d); err != nil {
		return Document{}, specErr("decode document", err)
	}
	return d, nil
}

func specErr(msg string, err error) error {
	var e *serrors.Error
	if stderrors.As(err, &e) {
		return err
	}
	return serrors.Wrap(serrors.ErrSpec, msg, err)
}

func (s *Spec) UnmarshalYAML(node *yaml.Node) error {
	node = resolve(node)
	if isNull(node) {
		*s = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return serrors.SpecError("filters must be a mapping of field to condition")
	}
	if err := uniqueKeys("filters", node.Content); err != nil {
		return err
	}
	spec := make(Spec, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		e, err := classifyNode(node.Content[i].Value, node.Content[i+1])
		if err != nil {
			return err
		}
		spec = append(spec, e)
	}
	*s = spec
	return nil
}

func (s *Spec) UnmarshalJSON(b []byte) error {
	node, err := parseJSON(b)
	if err != nil {
		return serrors.Wrap(serrors.ErrSpec, "parse filters", err)
	}
	return s.UnmarshalYAML(node)
}

func (o *Order) UnmarshalYAML(node *yaml.Node) error {
	node = resolve(node)
	if isNull(node) {
		*o = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return serrors.SpecError("orders must be a mapping of field to direction")
	}
	if err := uniqueKeys("orders", node.Content); err != nil {
		return err
	}
	order := make(Order, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		dir := resolve(node.Content[i+1])
		if dir.Kind != yaml.ScalarNode {
			return serrors.SpecError(fmt.Sprintf("order %q: direction must be a string", node.Content[i].Value))
		}
		order = append(order, By(node.Content[i].Value, dir.Value))
	}
	*o = order
	return nil
}

func (o *Order) UnmarshalJSON(b []byte) error {
	node, err := parseJSON(b)
	if err != nil {
		return serrors.Wrap(serrors.ErrSpec, "parse orders", err)
	}
	return o.UnmarshalYAML(node)
}

// parseDocument reads JSON when the payload opens with an object or array
// and YAML otherwise. YAML flow syntax that is not valid JSON still parses.
func parseDocument(data []byte) (*yaml.Node, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		node, jsonErr := parseJSON(trimmed)
		if jsonErr == nil {
			return node, nil
		}
		if node, err := parseYAML(data); err == nil {
			return node, nil
		}
		return nil, jsonErr
	}
	return parseYAML(data)
}

func parseYAML(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return resolve(&doc), nil
}

// parseJSON builds a node tree from JSON with object keys in document order,
// so both syntaxes share one walk.
func parseJSON(data []byte) (*yaml.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	node, err := jsonNode(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level JSON value")
	}
	return node, nil
}

func jsonNode(dec *json.Decoder) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if v == '{' {
			n = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		}
		for dec.More() {
			if n.Kind == yaml.MappingNode {
				key, err := dec.Token()
				if err != nil {
					return nil, err
				}
				k, _ := key.(string)
				n.Content = append(n.Content, stringNode(k))
			}
			item, err := jsonNode(dec)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, item)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return n, nil
	case string:
		return stringNode(v), nil
	case json.Number:
		tag := "!!float"
		if _, err := v.Int64(); err == nil {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.String()}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}, nil
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func uniqueKeys(what string, pairs []*yaml.Node) error {
	seen := make(map[string]struct{}, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		k := pairs[i].Value
		if _, dup := seen[k]; dup {
			return serrors.SpecError(fmt.Sprintf("%s: duplicate key %q", what, k))
		}
		seen[k] = struct{}{}
	}
	return nil
}

func classifyNode(key string, node *yaml.Node) (Entry, error) {
	node = resolve(node)
	if node.Kind != yaml.MappingNode {
		v, err := decodeValue(key, node)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Key: key, Value: Scalar{Value: v}}, nil
	}

	pairs := node.Content
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i].Value == "field" {
			return explicitNode(key, pairs)
		}
	}
	if len(pairs) != 2 {
		return Entry{}, serrors.SpecError(fmt.Sprintf("filter %q: condition map must have exactly one entry, got %d", key, len(pairs)/2))
	}
	v, err := decodeValue(key, pairs[1])
	if err != nil {
		return Entry{}, err
	}
	return Entry{Key: key, Value: Conditioned{Condition: Condition(pairs[0].Value), Value: v}}, nil
}

func explicitNode(key string, pairs []*yaml.Node) (Entry, error) {
	if err := uniqueKeys(fmt.Sprintf("filter %q", key), pairs); err != nil {
		return Entry{}, err
	}
	var ex Explicit
	for i := 0; i+1 < len(pairs); i += 2 {
		val := resolve(pairs[i+1])
		switch pairs[i].Value {
		case "field":
			sel, err := selectorNode(key, val)
			if err != nil {
				return Entry{}, err
			}
			ex.Field = sel
		case "condition":
			if isNull(val) {
				continue
			}
			if val.Kind != yaml.ScalarNode {
				return Entry{}, serrors.SpecError(fmt.Sprintf("filter %q: condition must be a string", key))
			}
			ex.Condition = Condition(val.Value)
		case "value":
			v, err := decodeValue(key, val)
			if err != nil {
				return Entry{}, err
			}
			ex.Value = v
		}
	}
	return Entry{Key: key, Value: ex}, nil
}

func selectorNode(key string, node *yaml.Node) (Selector, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return Path(node.Value), nil
	case yaml.SequenceNode:
		paths := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			item = resolve(item)
			if item.Kind != yaml.ScalarNode {
				return Selector{}, serrors.SpecError(fmt.Sprintf("filter %q: field list must contain strings", key))
			}
			paths = append(paths, item.Value)
		}
		return AnyOf(paths...), nil
	default:
		return Selector{}, serrors.SpecError(fmt.Sprintf("filter %q: field must be a string or a list of strings", key))
	}
}

func decodeValue(key string, node *yaml.Node) (any, error) {
	keepTimestamps(node)
	var v any
	if err := node.Decode(&v); err != nil {
		return nil, serrors.Wrap(serrors.ErrSpec, fmt.Sprintf("filter %q: decode value", key), err)
	}
	return v, nil
}

// keepTimestamps retags unquoted dates as strings so they reach the
// database as written instead of as time.Time.
func keepTimestamps(node *yaml.Node) {
	node = resolve(node)
	if node == nil {
		return
	}
	if node.Kind == yaml.ScalarNode {
		if node.ShortTag() == "!!timestamp" {
			node.Tag = "!!str"
		}
		return
	}
	for _, c := range node.Content {
		keepTimestamps(c)
	}
}

func resolve(node *yaml.Node) *yaml.Node {
	for node != nil {
		switch {
		case node.Kind == yaml.DocumentNode && len(node.Content) > 0:
			node = node.Content[0]
		case node.Kind == yaml.AliasNode && node.Alias != nil:
			node = node.Alias
		default:
			return node
		}
	}
	return node
}

func isNull(node *yaml.Node) bool {
	if node == nil || node.Kind == 0 {
		return true
	}
	if node.Kind == yaml.DocumentNode {
		return len(node.Content) == 0
	}
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}
