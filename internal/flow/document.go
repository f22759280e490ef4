// Package flow loads declarative call flows from YAML and compiles them into
// TwiML documents through the engine. A flow names the document Twilio fetches
// when a call arrives; its steps are verb invocations, nested where the verb
// allows nesting.
package flow

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is one flow definition: the named sequence of verbs rendered when
// Twilio requests the flow's URL.
type Document struct {
	Flow  string `yaml:"flow"`
	Steps []Step `yaml:"steps"`
}

// Step is one verb invocation. Params are decoded per verb at compile time;
// Steps carries nested content for verbs that take it.
type Step struct {
	Verb   string         `yaml:"verb"`
	Params map[string]any `yaml:"params"`
	Steps  []Step         `yaml:"steps"`
}

// Parse decodes a single YAML flow definition.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse flow: %w", err)
	}
	if doc.Flow == "" {
		return nil, fmt.Errorf("flow missing name")
	}
	if len(doc.Steps) == 0 {
		return nil, fmt.Errorf("flow %q has no steps", doc.Flow)
	}
	return &doc, nil
}
