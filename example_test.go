package twiml_test

import (
	"fmt"
	"log"

	"github.com/mulesoft-labs/twiml"
	"github.com/mulesoft-labs/twiml/pkg/adapters/memory"
)

// ExampleEngine_Say builds a single spoken fragment.
func ExampleEngine_Say() {
	eng := twiml.New()

	frag, err := eng.Say(twiml.SayParams{
		Voice: twiml.VoiceWoman,
		Text:  "Say Hello!",
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(frag)
	// Output: <Say voice="woman" loop="1">Say Hello!</Say>
}

// ExampleEngine_Gather nests prompts inside a digit collector. The action
// target is resolved through the engine's resolver, so the flow itself never
// hard-codes a URL.
func ExampleEngine_Gather() {
	eng := twiml.New(twiml.WithResolver(memory.StaticResolver{
		"menu": "https://example.com/callbacks/menu",
	}))

	prompt, err := eng.Say(twiml.SayParams{Text: "For sales, press 1."})
	if err != nil {
		log.Fatal(err)
	}

	frag, err := eng.Gather(twiml.GatherParams{
		Action:    "menu",
		NumDigits: twiml.Int(1),
	}, twiml.Fragment(prompt))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(frag)
	// Output: <Gather numDigits="1" finishOnKey="#" timeout="5" method="GET" action="https://example.com/callbacks/menu"><Say loop="1">For sales, press 1.</Say></Gather>
}

// ExampleEngine_Response assembles a complete document ready to serve.
func ExampleEngine_Response() {
	eng := twiml.New()

	say, err := eng.Say(twiml.SayParams{Text: "Welcome to Acme."})
	if err != nil {
		log.Fatal(err)
	}

	doc, err := eng.Response(twiml.Fragment(say))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(doc)
	// Output:
	// <?xml version="1.0" encoding="UTF-8"?>
	// <Response>
	// <Say loop="1">Welcome to Acme.</Say>
	// </Response>
}
