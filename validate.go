package twiml

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
)

// childVocabulary lists, for verbs with a closed content model, the child
// elements allowed under them. Verbs absent from the map (Dial, Sms) accept
// free-form nested content such as destination nouns.
var childVocabulary = map[string]map[string]bool{
	"Response": {"Say": true, "Play": true, "Gather": true, "Record": true, "Sms": true, "Dial": true},
	"Gather":   {"Say": true, "Play": true},
	"Say":      {},
	"Play":     {},
	"Record":   {},
}

// Validate re-parses a rendered document and checks it against the verb
// vocabulary: well-formed markup, a single Response envelope, only known
// verbs at the top level, and Gather children limited to Say and Play.
// Builders uphold all of this on their own; Validate exists to check
// documents assembled from hand-written Fragment values.
func Validate(doc string) error {
	root, err := xmlquery.Parse(strings.NewReader(doc))
	if err != nil {
		return fmt.Errorf("malformed document: %w", err)
	}

	var envelope *xmlquery.Node
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != xmlquery.ElementNode {
			continue
		}
		if envelope != nil {
			return fmt.Errorf("multiple root elements: <%s> and <%s>", envelope.Data, n.Data)
		}
		envelope = n
	}
	if envelope == nil {
		return fmt.Errorf("no root element")
	}
	if envelope.Data != "Response" {
		return fmt.Errorf("root element is <%s>, want <Response>", envelope.Data)
	}
	return validateChildren(envelope)
}

func validateChildren(n *xmlquery.Node) error {
	allowed, closed := childVocabulary[n.Data]
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		if closed && !allowed[c.Data] {
			return fmt.Errorf("%w: <%s> inside <%s>", ErrInvalidNesting, c.Data, n.Data)
		}
		if err := validateChildren(c); err != nil {
			return err
		}
	}
	return nil
}
