package twiml

import "fmt"

// GatherParams configures a Gather verb.
type GatherParams struct {
	// Action is the logical callback target that receives the digits the
	// caller pressed. Required.
	Action string

	// Timeout is the seconds of silence allowed before Gather gives up and
	// control falls through to the next verb. Nil means the default of 5.
	Timeout *int

	// FinishOnKey is the key that ends input early. Nil means the default
	// "#"; an empty string disables the feature and input ends on NumDigits
	// or Timeout alone.
	FinishOnKey *string

	// NumDigits submits the input as soon as this many digits were pressed;
	// nil omits the attribute.
	NumDigits *int
}

// Gather renders a <Gather> verb that collects keypad digits from the caller.
// Nested content is limited to Say and Play verbs; they are performed while
// Twilio waits for input, and the caller can interrupt them by pressing a
// key. Attribute order: numDigits, finishOnKey, timeout, method, action.
func (e *Engine) Gather(p GatherParams, children ...FragmentProducer) (string, error) {
	action, err := e.resolve("gather", "action", p.Action)
	if err != nil {
		return "", err
	}

	v := newVerb("Gather")
	if p.NumDigits != nil {
		v.attrInt("numDigits", *p.NumDigits)
	}
	v.attrString("finishOnKey", stringOr(p.FinishOnKey, "#"))
	v.attrInt("timeout", intOr(p.Timeout, 5))
	v.attrString("method", "GET")
	v.attrString("action", action)

	for i, c := range children {
		frag, err := c.Produce()
		if err != nil {
			return "", fmt.Errorf("gather child %d: %w", i, err)
		}
		if tag := fragmentTag(frag); tag != "Say" && tag != "Play" {
			return "", fmt.Errorf("%w: gather child %d opens %q, want Say or Play", ErrInvalidNesting, i, tag)
		}
		v.addChildren(frag)
	}
	return v.render(), nil
}

// RecordParams configures a Record verb.
type RecordParams struct {
	// Action is the logical callback target that receives the recording URL
	// after the caller is done. Required.
	Action string

	// Timeout is the seconds of silence that end the recording. Nil means
	// the default of 5.
	Timeout *int

	// FinishOnKey is the key that ends the recording. Nil means the default
	// "#".
	FinishOnKey *string

	// MaxLength caps the recording length in seconds. Nil means the default
	// of 3600, one hour.
	MaxLength *int

	// Transcribe asks Twilio to transcribe the recording. Nil means the
	// default of false. Enabling it requires TranscribeCallback.
	Transcribe *bool

	// TranscribeCallback is the logical callback target that receives the
	// transcription text once it is ready. Rendered only when Transcribe is
	// true; required then, since the text would otherwise be lost.
	TranscribeCallback string

	// PlayBeep plays a beep before recording starts. Nil means the default
	// of true.
	PlayBeep *bool
}

// Record renders a <Record> verb that records the caller's voice. Record is
// a leaf verb and takes no nested content. Attribute order: finishOnKey,
// timeout, maxLength, transcribe, transcribeCallback, playBeep, method,
// action.
func (e *Engine) Record(p RecordParams) (string, error) {
	transcribe := boolOr(p.Transcribe, false)
	if transcribe && p.TranscribeCallback == "" {
		return "", fmt.Errorf("%w: record has transcribe=true", ErrTranscriptionConfig)
	}

	var transcribeURL string
	if transcribe {
		var err error
		transcribeURL, err = e.resolve("record", "transcribeCallback", p.TranscribeCallback)
		if err != nil {
			return "", err
		}
	}
	action, err := e.resolve("record", "action", p.Action)
	if err != nil {
		return "", err
	}

	v := newVerb("Record")
	v.attrString("finishOnKey", stringOr(p.FinishOnKey, "#"))
	v.attrInt("timeout", intOr(p.Timeout, 5))
	v.attrInt("maxLength", intOr(p.MaxLength, 3600))
	v.attrBool("transcribe", transcribe)
	if transcribe {
		v.attrString("transcribeCallback", transcribeURL)
	}
	v.attrBool("playBeep", boolOr(p.PlayBeep, true))
	v.attrString("method", "GET")
	v.attrString("action", action)
	return v.render(), nil
}
