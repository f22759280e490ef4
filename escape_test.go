package twiml_test

import (
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/mulesoft-labs/twiml"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text", "Hello World", "Hello World"},
		{"ampersand", "Tom & Jerry", "Tom &amp; Jerry"},
		{"less than", "a < b", "a &lt; b"},
		{"greater than", "a > b", "a &gt; b"},
		{"double quotes", `He said "hello"`, "He said &quot;hello&quot;"},
		{"apostrophe", "it's", "it&apos;s"},
		{"all five", `<a b="c">&'</a>`, "&lt;a b=&quot;c&quot;&gt;&amp;&apos;&lt;/a&gt;"},
		{"unicode untouched", "日本語 & émoji 🎉", "日本語 &amp; émoji 🎉"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := twiml.Escape(tt.input)
			if got != tt.want {
				t.Errorf("Escape(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscape_AppliedToTextAndAttributes(t *testing.T) {
	eng := twiml.New()

	say, err := eng.Say(twiml.SayParams{Text: `Press "1" & wait <now>`})
	if err != nil {
		t.Fatalf("Say failed: %v", err)
	}
	wantSay := `<Say loop="1">Press &quot;1&quot; &amp; wait &lt;now&gt;</Say>`
	if say != wantSay {
		t.Errorf("Say = %q, want %q", say, wantSay)
	}

	dial, err := eng.Dial(twiml.DialParams{Number: "+15550123", CallerID: `"Bob" & <Sons>`})
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	if !strings.Contains(dial, `callerId="&quot;Bob&quot; &amp; &lt;Sons&gt;"`) {
		t.Errorf("attribute not escaped: %q", dial)
	}
}

// Escaped output must survive a strict parse and decode back to the input.
func TestEscape_RoundTrip(t *testing.T) {
	eng := twiml.New()

	text := `Tom & Jerry say "it's <fine>"`
	say, err := eng.Say(twiml.SayParams{Text: text})
	if err != nil {
		t.Fatalf("Say failed: %v", err)
	}
	doc, err := eng.Response(twiml.Fragment(say))
	if err != nil {
		t.Fatalf("Response failed: %v", err)
	}

	root, err := xmlquery.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("rendered document does not parse: %v", err)
	}

	node := xmlquery.FindOne(root, "//Say")
	if node == nil {
		t.Fatal("no Say element in parsed document")
	}
	if got := node.InnerText(); got != text {
		t.Errorf("round-tripped text = %q, want %q", got, text)
	}
	if got := node.SelectAttr("loop"); got != "1" {
		t.Errorf("loop attribute = %q, want %q", got, "1")
	}
}
