package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// StyleWeight is a single (style, contribution) pair of an option.
type StyleWeight struct {
	Style  string
	Weight float64
}

// StyleWeights keeps the declaration order of an option's weight object so that
// ranking ties can be broken deterministically.
type StyleWeights []StyleWeight

func (w StyleWeights) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sw := range w {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sw.Style)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(sw.Weight)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (w *StyleWeights) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*w = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	out := StyleWeights{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("styleWeights: expected key, got %v", tok)
		}
		var weight float64
		if err := dec.Decode(&weight); err != nil {
			return fmt.Errorf("styleWeights[%s]: %w", key, err)
		}
		out = append(out, StyleWeight{Style: key, Weight: weight})
	}
	*w = out
	return nil
}

func (w *StyleWeights) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("styleWeights: line %d: expected mapping", node.Line)
	}
	out := make(StyleWeights, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var weight float64
		if err := node.Content[i+1].Decode(&weight); err != nil {
			return fmt.Errorf("styleWeights[%s]: %w", node.Content[i].Value, err)
		}
		out = append(out, StyleWeight{Style: node.Content[i].Value, Weight: weight})
	}
	*w = out
	return nil
}

// StyleProfiles is the style dictionary keyed by id in documents, kept in declaration order.
type StyleProfiles []StyleProfile

func (p StyleProfiles) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, profile := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(profile.ID)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(profile)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *StyleProfiles) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	out := StyleProfiles{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("styles: expected key, got %v", tok)
		}
		var profile StyleProfile
		if err := dec.Decode(&profile); err != nil {
			return fmt.Errorf("styles[%s]: %w", key, err)
		}
		profile.ID = key
		out = append(out, profile)
	}
	*p = out
	return nil
}

func (p *StyleProfiles) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("styles: line %d: expected mapping", node.Line)
	}
	out := make(StyleProfiles, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var profile StyleProfile
		if err := node.Content[i+1].Decode(&profile); err != nil {
			return fmt.Errorf("styles[%s]: %w", node.Content[i].Value, err)
		}
		profile.ID = node.Content[i].Value
		out = append(out, profile)
	}
	*p = out
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
