package twiml

import "fmt"

// DialParams configures a Dial verb.
type DialParams struct {
	// Number is the phone number to connect the caller to, rendered as the
	// verb's text content. Either Number or nested children must be given.
	Number string

	// Action is the logical callback target that receives the dial outcome
	// when the dialed call ends. Empty omits the attribute and the call
	// continues with the next verb instead.
	Action string

	// Timeout is the seconds to wait for the called party to answer. Nil
	// means the default of 30.
	Timeout *int

	// HangupOnStar lets the caller press "*" to disconnect the dialed party
	// without ending their own call. Nil means the default of false.
	HangupOnStar *bool

	// TimeLimit caps the dialed call length in seconds. Nil means the
	// default of 14400, four hours.
	TimeLimit *int

	// CallerID overrides the caller ID shown to the called party; empty
	// omits the attribute and the caller's own number is shown.
	CallerID string
}

// Dial renders a <Dial> verb that connects the caller to another party. The
// destination comes from Number, from nested children, or both; at least one
// is required. Attribute order: action, timeout, hangupOnStar, timeLimit,
// callerId.
func (e *Engine) Dial(p DialParams, children ...FragmentProducer) (string, error) {
	body, err := produceAll(children)
	if err != nil {
		return "", fmt.Errorf("dial children: %w", err)
	}
	if p.Number == "" && body == "" {
		return "", fmt.Errorf("%w: dial destination", ErrMissingAttribute)
	}

	v := newVerb("Dial")
	if p.Action != "" {
		action, err := e.resolve("dial", "action", p.Action)
		if err != nil {
			return "", err
		}
		v.attrString("action", action)
	}
	v.attrInt("timeout", intOr(p.Timeout, 30))
	v.attrBool("hangupOnStar", boolOr(p.HangupOnStar, false))
	v.attrInt("timeLimit", intOr(p.TimeLimit, 14400))
	if p.CallerID != "" {
		v.attrString("callerId", p.CallerID)
	}
	v.setText(p.Number)
	if body != "" {
		v.addChildren(body)
	}
	return v.render(), nil
}

// SmsParams configures an Sms verb.
type SmsParams struct {
	// Body is the message text, rendered as the verb's text content.
	Body string

	// Action is the logical callback target notified once the message is
	// enqueued; empty omits the attribute.
	Action string

	// From is the sending phone number. Empty omits the attribute and the
	// number defaults to the call's own Twilio number.
	From string

	// To is the receiving phone number. Empty omits the attribute and the
	// message goes to the other party of the call.
	To string

	// Status is the logical callback target receiving asynchronous delivery
	// status updates; empty omits the attribute.
	Status string
}

// Sms renders an <Sms> verb that sends a text message during a call.
// Attribute order: action, from, to, status.
func (e *Engine) Sms(p SmsParams, children ...FragmentProducer) (string, error) {
	body, err := produceAll(children)
	if err != nil {
		return "", fmt.Errorf("sms children: %w", err)
	}

	v := newVerb("Sms")
	if p.Action != "" {
		action, err := e.resolve("sms", "action", p.Action)
		if err != nil {
			return "", err
		}
		v.attrString("action", action)
	}
	if p.From != "" {
		v.attrString("from", p.From)
	}
	if p.To != "" {
		v.attrString("to", p.To)
	}
	if p.Status != "" {
		status, err := e.resolve("sms", "status", p.Status)
		if err != nil {
			return "", err
		}
		v.attrString("status", status)
	}
	v.setText(p.Body)
	if body != "" {
		v.addChildren(body)
	}
	return v.render(), nil
}
