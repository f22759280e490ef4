package twiml_test

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/mulesoft-labs/twiml"
)

func TestResponse_Envelope(t *testing.T) {
	eng := twiml.New()

	say, err := eng.Say(twiml.SayParams{Text: "Welcome"})
	if err != nil {
		t.Fatalf("Say failed: %v", err)
	}

	doc, err := eng.Response(twiml.Fragment(say))
	if err != nil {
		t.Fatalf("Response failed: %v", err)
	}

	want := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<Response>\n<Say loop=\"1\">Welcome</Say>\n</Response>"
	if doc != want {
		t.Errorf("Response = %q, want %q", doc, want)
	}
}

func TestResponse_ChildrenConcatenateInOrder(t *testing.T) {
	eng := twiml.New()

	first, err := eng.Say(twiml.SayParams{Text: "one"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := eng.Play(twiml.PlayParams{URL: "http://foo.com/two.mp3"})
	if err != nil {
		t.Fatal(err)
	}

	doc, err := eng.Response(twiml.Fragment(first), twiml.Fragment(second))
	if err != nil {
		t.Fatalf("Response failed: %v", err)
	}

	body := `<Say loop="1">one</Say><Play loop="1">http://foo.com/two.mp3</Play>`
	if !strings.Contains(doc, body) {
		t.Errorf("Response children out of order or separated:\n%s", doc)
	}
}

func TestResponse_Empty(t *testing.T) {
	eng := twiml.New()

	doc, err := eng.Response()
	if err != nil {
		t.Fatalf("Response failed: %v", err)
	}

	want := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<Response>\n\n</Response>"
	if doc != want {
		t.Errorf("empty Response = %q, want %q", doc, want)
	}
}

type failingProducer struct{}

func (failingProducer) Produce() (string, error) {
	return "", errors.New("boom")
}

func TestResponse_ChildErrorAborts(t *testing.T) {
	eng := twiml.New()

	_, err := eng.Response(failingProducer{})
	if err == nil {
		t.Fatal("expected error from failing child")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("child error lost: %v", err)
	}
}

func TestFragment_ProducesItself(t *testing.T) {
	frag := twiml.Fragment(`<Say loop="1">hi</Say>`)
	got, err := frag.Produce()
	if err != nil {
		t.Fatalf("Produce failed: %v", err)
	}
	if got != string(frag) {
		t.Errorf("Produce = %q, want %q", got, string(frag))
	}
}

func TestNew_WithLogger(t *testing.T) {
	// Mostly checks the option wires up without panics on use.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	eng := twiml.New(twiml.WithLogger(logger))

	if _, err := eng.Response(); err != nil {
		t.Fatalf("Response failed: %v", err)
	}
}

func TestContentType(t *testing.T) {
	if twiml.ContentType != "application/xml; charset=UTF-8" {
		t.Errorf("ContentType = %q", twiml.ContentType)
	}
}
