// Package scripted provides a canned-reply responder driven by regex rules.
// It is the default backend: good enough for demos and UI work without any
// dataset or API key.
package scripted

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/mediqhq/mediq/pkg/tmpl"
)

// DefaultReply is used when no rule matches.
const DefaultReply = "I'm not sure about that. Could you describe your symptoms in more detail?"

// Rule maps a query pattern to a canned reply. Patterns are matched
// case-insensitively, anywhere in the submitted text. Replies are rendered
// as Go templates with {{ .Query }} bound to the submitted text.
type Rule struct {
	Pattern string
	Reply   string
	// Delay overrides the responder-wide delay for this rule when set.
	Delay time.Duration
}

// DefaultRules returns the built-in script.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: `\bflu\b`, Reply: "Stay hydrated and rest."},
		{Pattern: `\b(hello|hi|hey)\b`, Reply: "Hello! Describe your symptoms and I will try to help."},
		{Pattern: `\b(headache|migraine)\b`, Reply: "Rest in a quiet, dark room and stay hydrated. If the pain is severe or unusual, see a doctor."},
		{Pattern: `\bthanks?\b`, Reply: "You're welcome. Take care!"},
	}
}

// Options configures a Responder.
type Options struct {
	// Rules is the ordered script; the first matching rule wins.
	// Defaults to DefaultRules.
	Rules []Rule
	// Reply is returned when no rule matches. Defaults to DefaultReply.
	Reply string
	// Delay simulates thinking time before each reply. Zero means none.
	Delay time.Duration
	// Logger receives rule-match diagnostics.
	Logger zerolog.Logger
}

// Responder replies from an ordered rule list.
type Responder struct {
	rules        []compiledRule
	defaultReply string
	defaultDelay time.Duration
	log          zerolog.Logger
}

type compiledRule struct {
	re    *regexp.Regexp
	reply string
	delay time.Duration
}

// New compiles the rule set into a Responder.
func New(opts Options) (*Responder, error) {
	rules := opts.Rules
	if rules == nil {
		rules = DefaultRules()
	}
	reply := opts.Reply
	if reply == "" {
		reply = DefaultReply
	}

	r := &Responder{
		rules:        make([]compiledRule, 0, len(rules)),
		defaultReply: reply,
		defaultDelay: opts.Delay,
		log:          opts.Logger,
	}

	for i, rule := range rules {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile rule %d (%q): %w", i, rule.Pattern, err)
		}
		r.rules = append(r.rules, compiledRule{re: re, reply: rule.Reply, delay: rule.Delay})
	}

	return r, nil
}

// Respond returns the scripted reply for text after the configured delay.
func (r *Responder) Respond(ctx context.Context, text string) (string, error) {
	reply, delay := r.pick(text)

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	rendered, err := tmpl.Render(reply, struct{ Query string }{Query: text})
	if err != nil {
		return "", fmt.Errorf("render reply: %w", err)
	}
	return rendered, nil
}

func (r *Responder) pick(text string) (string, time.Duration) {
	for _, rule := range r.rules {
		if rule.re.MatchString(text) {
			r.log.Debug().Str("pattern", rule.re.String()).Msg("matched scripted rule")
			delay := rule.delay
			if delay == 0 {
				delay = r.defaultDelay
			}
			return rule.reply, delay
		}
	}
	r.log.Debug().Msg("no scripted rule matched, using default reply")
	return r.defaultReply, r.defaultDelay
}
