/*
Package twiml builds TwiML, the XML dialect Twilio interprets to drive
telephone calls and SMS conversations.

Documents are assembled bottom-up: each verb builder renders one element to a
string fragment, and fragments compose into parents until Response wraps the
result in the document envelope. Builders validate their input before emitting
anything, so a returned fragment is always complete and well-formed.

# Concept

A TwiML application is a web application: Twilio fetches a document over HTTP,
executes its verbs against the live call, and posts the results (digits
gathered, recordings made) to callback URLs named by the document. The engine
in this package owns only the document side. Callback attributes carry logical
target names, and a CallbackResolver port maps them to absolute URLs, so flows
stay portable across deployments.

# Key Features

  - Ordered output: attributes and children render in a fixed documented
    order, and the same input always yields byte-identical markup.
  - Validated input: enum values, required attributes, callback targets and
    nesting rules are checked before serialization, never after.
  - Explicit optionality: optional numeric and boolean attributes are pointer
    fields, so "absent" and "zero" stay distinct (loop="0" repeats forever).
  - Composable fragments: anything implementing FragmentProducer can supply
    child content, from a literal Fragment to a lazily compiled flow step.

# Usage

Create an Engine, build fragments, then wrap them in a Response:

	package main

	import (
		"fmt"
		"log"

		"github.com/mulesoft-labs/twiml"
		"github.com/mulesoft-labs/twiml/pkg/adapters/memory"
	)

	func main() {
		eng := twiml.New(twiml.WithResolver(memory.StaticResolver{
			"voicemail": "https://example.com/callbacks/voicemail",
		}))

		greeting, err := eng.Say(twiml.SayParams{
			Voice: twiml.VoiceWoman,
			Text:  "Please leave a message after the beep.",
		})
		if err != nil {
			log.Fatal(err)
		}

		record, err := eng.Record(twiml.RecordParams{Action: "voicemail"})
		if err != nil {
			log.Fatal(err)
		}

		doc, err := eng.Response(twiml.Fragment(greeting), twiml.Fragment(record))
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(doc)
	}

Serve the result with Content-Type set to twiml.ContentType.
*/
package twiml
