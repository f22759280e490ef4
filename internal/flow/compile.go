package flow

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/mulesoft-labs/twiml"
)

// Per-verb wire configs. mapstructure bridges the loosely typed YAML params;
// pointer fields keep "absent" distinct from zero so builder defaults apply.
type sayConfig struct {
	Text     string `mapstructure:"text"`
	Language string `mapstructure:"language"`
	Voice    string `mapstructure:"voice"`
	Loop     *int   `mapstructure:"loop"`
}

type playConfig struct {
	URL  string `mapstructure:"url"`
	Loop *int   `mapstructure:"loop"`
}

type gatherConfig struct {
	Action      string  `mapstructure:"action"`
	Timeout     *int    `mapstructure:"timeout"`
	FinishOnKey *string `mapstructure:"finish_on_key"`
	NumDigits   *int    `mapstructure:"num_digits"`
}

type recordConfig struct {
	Action             string  `mapstructure:"action"`
	Timeout            *int    `mapstructure:"timeout"`
	FinishOnKey        *string `mapstructure:"finish_on_key"`
	MaxLength          *int    `mapstructure:"max_length"`
	Transcribe         *bool   `mapstructure:"transcribe"`
	TranscribeCallback string  `mapstructure:"transcribe_callback"`
	PlayBeep           *bool   `mapstructure:"play_beep"`
}

type smsConfig struct {
	Body   string `mapstructure:"body"`
	Action string `mapstructure:"action"`
	From   string `mapstructure:"from"`
	To     string `mapstructure:"to"`
	Status string `mapstructure:"status"`
}

type dialConfig struct {
	Number       string `mapstructure:"number"`
	Action       string `mapstructure:"action"`
	Timeout      *int   `mapstructure:"timeout"`
	HangupOnStar *bool  `mapstructure:"hangup_on_star"`
	TimeLimit    *int   `mapstructure:"time_limit"`
	CallerID     string `mapstructure:"caller_id"`
}

// Compiler renders parsed documents through a TwiML engine. The engine's
// resolver decides what the flows' callback targets point at, so the same
// compiler output differs per deployment only in its URLs.
type Compiler struct {
	engine *twiml.Engine
}

// NewCompiler creates a compiler bound to an engine.
func NewCompiler(engine *twiml.Engine) *Compiler {
	return &Compiler{engine: engine}
}

// Producer defers one step's rendering until a parent verb asks for it, so
// child failures surface before the parent emits anything.
type Producer struct {
	c    *Compiler
	step Step
}

// Produce implements twiml.FragmentProducer.
func (p *Producer) Produce() (string, error) {
	return p.c.renderStep(p.step)
}

// Producers wraps steps for nesting into a parent verb.
func (c *Compiler) Producers(steps []Step) []twiml.FragmentProducer {
	out := make([]twiml.FragmentProducer, len(steps))
	for i, s := range steps {
		out[i] = &Producer{c: c, step: s}
	}
	return out
}

// Render compiles a whole document into a TwiML response.
func (c *Compiler) Render(doc *Document) (string, error) {
	rendered, err := c.engine.Response(c.Producers(doc.Steps)...)
	if err != nil {
		return "", &ValidationError{Flow: doc.Flow, Err: err}
	}
	return rendered, nil
}

func (c *Compiler) renderStep(s Step) (string, error) {
	switch strings.ToLower(s.Verb) {
	case "say":
		var cfg sayConfig
		if err := decodeParams(s.Params, &cfg); err != nil {
			return "", fmt.Errorf("say params: %w", err)
		}
		if err := leafOnly("say", s); err != nil {
			return "", err
		}
		params := twiml.SayParams{Text: cfg.Text, Loop: cfg.Loop}
		if cfg.Language != "" {
			lang, err := twiml.ParseLanguage(cfg.Language)
			if err != nil {
				return "", err
			}
			params.Language = lang
		}
		if cfg.Voice != "" {
			voice, err := twiml.ParseVoice(cfg.Voice)
			if err != nil {
				return "", err
			}
			params.Voice = voice
		}
		return c.engine.Say(params)

	case "play":
		var cfg playConfig
		if err := decodeParams(s.Params, &cfg); err != nil {
			return "", fmt.Errorf("play params: %w", err)
		}
		if err := leafOnly("play", s); err != nil {
			return "", err
		}
		return c.engine.Play(twiml.PlayParams{URL: cfg.URL, Loop: cfg.Loop})

	case "gather":
		var cfg gatherConfig
		if err := decodeParams(s.Params, &cfg); err != nil {
			return "", fmt.Errorf("gather params: %w", err)
		}
		return c.engine.Gather(twiml.GatherParams{
			Action:      cfg.Action,
			Timeout:     cfg.Timeout,
			FinishOnKey: cfg.FinishOnKey,
			NumDigits:   cfg.NumDigits,
		}, c.Producers(s.Steps)...)

	case "record":
		var cfg recordConfig
		if err := decodeParams(s.Params, &cfg); err != nil {
			return "", fmt.Errorf("record params: %w", err)
		}
		if err := leafOnly("record", s); err != nil {
			return "", err
		}
		return c.engine.Record(twiml.RecordParams{
			Action:             cfg.Action,
			Timeout:            cfg.Timeout,
			FinishOnKey:        cfg.FinishOnKey,
			MaxLength:          cfg.MaxLength,
			Transcribe:         cfg.Transcribe,
			TranscribeCallback: cfg.TranscribeCallback,
			PlayBeep:           cfg.PlayBeep,
		})

	case "sms":
		var cfg smsConfig
		if err := decodeParams(s.Params, &cfg); err != nil {
			return "", fmt.Errorf("sms params: %w", err)
		}
		return c.engine.Sms(twiml.SmsParams{
			Body:   cfg.Body,
			Action: cfg.Action,
			From:   cfg.From,
			To:     cfg.To,
			Status: cfg.Status,
		}, c.Producers(s.Steps)...)

	case "dial":
		var cfg dialConfig
		if err := decodeParams(s.Params, &cfg); err != nil {
			return "", fmt.Errorf("dial params: %w", err)
		}
		return c.engine.Dial(twiml.DialParams{
			Number:       cfg.Number,
			Action:       cfg.Action,
			Timeout:      cfg.Timeout,
			HangupOnStar: cfg.HangupOnStar,
			TimeLimit:    cfg.TimeLimit,
			CallerID:     cfg.CallerID,
		}, c.Producers(s.Steps)...)
	}

	return "", fmt.Errorf("unknown verb %q", s.Verb)
}

func leafOnly(verb string, s Step) error {
	if len(s.Steps) > 0 {
		return fmt.Errorf("%s does not take nested steps", verb)
	}
	return nil
}

// decodeParams decodes YAML params with strict key checking, so a typoed
// attribute fails the flow instead of silently dropping.
func decodeParams(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
