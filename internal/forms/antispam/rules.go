package antispam

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	minFillTime    = 3 * time.Second
	maxLinks       = 3
	maxMessageLen  = 5000
	minMessageLen  = 10
	maxRepeatedRun = 12
)

var reLink = regexp.MustCompile(`(?i)\bhttps?://`)

// blockedKeywords are classic comment-spam markers. Matching is
// case-insensitive on word prefixes.
var blockedKeywords = []string{
	"viagra", "casino", "crypto signal", "forex", "seo service",
	"backlink", "guaranteed ranking", "loan approval", "escort",
}

// disposableDomains covers the throwaway mail providers that dominate
// automated form spam.
var disposableDomains = map[string]bool{
	"mailinator.com":    true,
	"guerrillamail.com": true,
	"10minutemail.com":  true,
	"tempmail.com":      true,
	"throwawaymail.com": true,
	"yopmail.com":       true,
	"sharklasers.com":   true,
}

type honeypot struct{}

func (honeypot) Name() string { return "honeypot" }

func (honeypot) Check(s *Submission) []Hit {
	if strings.TrimSpace(s.Honeypot) == "" {
		return nil
	}
	return []Hit{{Rule: "honeypot", Severity: SeverityHigh, Detail: "hidden field was filled"}}
}

type fillTime struct{}

func (fillTime) Name() string { return "fill-time" }

func (fillTime) Check(s *Submission) []Hit {
	if s.RenderedAt.IsZero() || s.ReceivedAt.IsZero() {
		return nil
	}
	elapsed := s.ReceivedAt.Sub(s.RenderedAt)
	if elapsed < 0 {
		return []Hit{{Rule: "fill-time", Severity: SeverityHigh, Detail: "form timestamp is in the future"}}
	}
	if elapsed < minFillTime {
		return []Hit{{
			Rule:     "fill-time",
			Severity: SeverityHigh,
			Detail:   fmt.Sprintf("submitted %s after render", elapsed.Round(time.Millisecond)),
		}}
	}
	return nil
}

type linkCount struct{}

func (linkCount) Name() string { return "link-count" }

func (linkCount) Check(s *Submission) []Hit {
	n := len(reLink.FindAllStringIndex(s.Message, -1))
	if n <= maxLinks {
		return nil
	}
	return []Hit{{
		Rule:     "link-count",
		Severity: SeverityMedium,
		Detail:   fmt.Sprintf("%d links in message (max %d)", n, maxLinks),
	}}
}

type keywords struct{}

func (keywords) Name() string { return "keywords" }

func (keywords) Check(s *Submission) []Hit {
	text := strings.ToLower(s.Name + " " + s.Message)
	var hits []Hit
	for _, kw := range blockedKeywords {
		if strings.Contains(text, kw) {
			hits = append(hits, Hit{
				Rule:     "keywords",
				Severity: SeverityMedium,
				Detail:   fmt.Sprintf("blocked keyword %q", kw),
			})
		}
	}
	return hits
}

type emailDomain struct{}

func (emailDomain) Name() string { return "email-domain" }

func (emailDomain) Check(s *Submission) []Hit {
	at := strings.LastIndex(s.Email, "@")
	if at < 0 {
		return nil
	}
	domain := strings.ToLower(strings.TrimSpace(s.Email[at+1:]))
	if !disposableDomains[domain] {
		return nil
	}
	return []Hit{{
		Rule:     "email-domain",
		Severity: SeverityLow,
		Detail:   fmt.Sprintf("disposable email domain %s", domain),
	}}
}

type messageLength struct{}

func (messageLength) Name() string { return "message-length" }

func (messageLength) Check(s *Submission) []Hit {
	n := len(strings.TrimSpace(s.Message))
	switch {
	case n < minMessageLen:
		return []Hit{{
			Rule:     "message-length",
			Severity: SeverityLow,
			Detail:   fmt.Sprintf("message too short (%d chars)", n),
		}}
	case n > maxMessageLen:
		return []Hit{{
			Rule:     "message-length",
			Severity: SeverityLow,
			Detail:   fmt.Sprintf("message too long (%d chars)", n),
		}}
	}
	return nil
}

type repeatedRuns struct{}

func (repeatedRuns) Name() string { return "repeated-runs" }

func (repeatedRuns) Check(s *Submission) []Hit {
	run, best := 1, 1
	var prev rune
	for i, r := range s.Message {
		if i > 0 && r == prev {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 1
		}
		prev = r
	}
	if best <= maxRepeatedRun {
		return nil
	}
	return []Hit{{
		Rule:     "repeated-runs",
		Severity: SeverityLow,
		Detail:   fmt.Sprintf("%d repeated characters in a row", best),
	}}
}

func init() {
	Register(honeypot{})
	Register(fillTime{})
	Register(linkCount{})
	Register(keywords{})
	Register(emailDomain{})
	Register(messageLength{})
	Register(repeatedRuns{})
}
