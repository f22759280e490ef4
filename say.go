package twiml

import "fmt"

// SayParams configures a Say verb.
type SayParams struct {
	// Text is the sentence to read to the caller, rendered as the verb's
	// text content.
	Text string

	// Language selects the text-to-speech language; empty omits the
	// attribute and Twilio falls back to English.
	Language Language

	// Voice selects the text-to-speech voice; empty omits the attribute and
	// Twilio falls back to its default voice.
	Voice Voice

	// Loop is how many times the text is repeated. Nil means the default of
	// 1; zero repeats until the caller hangs up.
	Loop *int
}

// Say renders a <Say> verb that reads text to the caller.
// Attribute order: lang, voice, loop.
func (e *Engine) Say(p SayParams) (string, error) {
	if p.Language != "" && !p.Language.valid() {
		return "", fmt.Errorf("%w: say language %q", ErrInvalidEnumValue, p.Language)
	}
	if p.Voice != "" && !p.Voice.valid() {
		return "", fmt.Errorf("%w: say voice %q", ErrInvalidEnumValue, p.Voice)
	}

	v := newVerb("Say")
	if p.Language != "" {
		v.attrString("lang", p.Language.String())
	}
	if p.Voice != "" {
		v.attrString("voice", p.Voice.String())
	}
	v.attrInt("loop", intOr(p.Loop, 1))
	v.setText(p.Text)
	return v.render(), nil
}

// PlayParams configures a Play verb.
type PlayParams struct {
	// URL locates the audio file to play, rendered as the verb's text
	// content. Required. Twilio supports mp3, wav, aiff, gsm and ulaw.
	URL string

	// Loop is how many times the file is played. Nil means the default of
	// 1; zero plays until the caller hangs up.
	Loop *int
}

// Play renders a <Play> verb that plays an audio file to the caller.
func (e *Engine) Play(p PlayParams) (string, error) {
	if p.URL == "" {
		return "", fmt.Errorf("%w: play file URL", ErrMissingAttribute)
	}

	v := newVerb("Play")
	v.attrInt("loop", intOr(p.Loop, 1))
	v.setText(p.URL)
	return v.render(), nil
}
