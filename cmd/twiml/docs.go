package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mulesoft-labs/twiml/internal/presentation/tui"
)

var docsCmd = &cobra.Command{
	Use:   "docs [verb]",
	Short: "Show the verb reference",
	Long:  `Renders the reference page for a TwiML verb, or an overview of all verbs.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		page := docsOverview
		if len(args) > 0 {
			verb := strings.ToLower(args[0])
			p, ok := verbDocs[verb]
			if !ok {
				fmt.Printf("Unknown verb %q. Try one of: %s\n", args[0], strings.Join(verbNames(), ", "))
				os.Exit(1)
			}
			page = p
		}

		tui.PrintBanner()
		render := tui.NewRenderer()
		out, err := render(page)
		if err != nil {
			// Fall back to the raw markdown on terminals glamour can't probe.
			fmt.Println(page)
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}

func verbNames() []string {
	names := make([]string, 0, len(verbDocs))
	for name := range verbDocs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const docsOverview = `# TwiML Verbs

A flow is a named list of steps; each step invokes one verb.

| Verb   | Purpose                                      | Nests        |
|--------|----------------------------------------------|--------------|
| say    | Read text to the caller                      | no           |
| play   | Play an audio file                           | no           |
| gather | Collect keypad digits                        | say, play    |
| record | Record the caller's voice                    | no           |
| sms    | Send a text message during the call          | nouns        |
| dial   | Connect the caller to another party          | nouns        |

Run "twiml docs <verb>" for parameters and examples.
`

var verbDocs = map[string]string{
	"say": `# Say

Reads text to the caller with a synthesized voice.

| Param    | Default | Notes                               |
|----------|---------|-------------------------------------|
| text     |         | What to read                        |
| language | en      | en, es, fr or de                    |
| voice    | man     | man or woman                        |
| loop     | 1       | 0 repeats until the caller hangs up |

Example:

    - verb: say
      params:
        text: Welcome to support.
        voice: woman
`,
	"play": `# Play

Plays an audio file at a URL.

| Param | Default | Notes                               |
|-------|---------|-------------------------------------|
| url   |         | Required. Audio file to play        |
| loop  | 1       | 0 repeats until the caller hangs up |

Example:

    - verb: play
      params:
        url: https://example.com/hold.mp3
`,
	"gather": `# Gather

Collects keypad digits and posts them to the action target. Nested say and
play steps run while Twilio waits for input.

| Param         | Default | Notes                                  |
|---------------|---------|----------------------------------------|
| action        |         | Required. Target receiving the digits  |
| timeout       | 5       | Seconds to wait between digits         |
| finish_on_key | #       | Key that ends input early              |
| num_digits    |         | Stop after this many digits            |

Example:

    - verb: gather
      params:
        action: menu
        num_digits: 1
      steps:
        - verb: say
          params:
            text: Press 1 for sales.
`,
	"record": `# Record

Records the caller and posts the recording URL to the action target.

| Param               | Default | Notes                                    |
|---------------------|---------|------------------------------------------|
| action              |         | Required. Target receiving the recording |
| timeout             | 5       | Seconds of silence that end the take     |
| finish_on_key       | #       | Key that ends the recording              |
| max_length          | 3600    | Longest allowed recording, in seconds    |
| transcribe          | false   | Also transcribe the recording            |
| transcribe_callback |         | Target for the transcription text        |
| play_beep           | true    | Beep before recording starts             |

Requesting a transcription without a transcribe_callback fails validation;
Twilio would have nowhere to deliver the text.

Example:

    - verb: record
      params:
        action: voicemail-saved
        transcribe: true
        transcribe_callback: transcripts
`,
	"sms": `# Sms

Sends a text message during the call. All parameters are optional; from and
to default to the numbers on the call.

| Param  | Notes                                  |
|--------|----------------------------------------|
| body   | Message text                           |
| action | Target told whether the send succeeded |
| from   | Sending number                         |
| to     | Receiving number                       |
| status | Target for delivery status updates     |

Example:

    - verb: sms
      params:
        body: Thanks for calling!
`,
	"dial": `# Dial

Connects the caller to another party. The number can be given inline or
through nested steps.

| Param          | Default | Notes                                    |
|----------------|---------|------------------------------------------|
| number         |         | Number to dial                           |
| action         |         | Target told how the dialed leg ended     |
| timeout        | 30      | Seconds to wait for an answer            |
| hangup_on_star | false   | Caller presses * to drop the dialed leg  |
| time_limit     | 14400   | Longest allowed call, in seconds         |
| caller_id      |         | Number shown to the dialed party         |

Example:

    - verb: dial
      params:
        number: "+15005550006"
        timeout: 20
`,
}
