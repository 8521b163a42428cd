package parser

import (
	"regexp"
	"strings"

	"snort-dashboard/internal/model"
	"snort-dashboard/internal/timestamp"
)

// FastDelimiter separates the sections of an alert_fast line
const FastDelimiter = "[**]"

var (
	actionTagRe      = regexp.MustCompile(`(?i)\[(alert|drop|log|pass)\]`)
	leadingTagRe     = regexp.MustCompile(`^\[[^\]]*\]\s*`)
	classificationRe = regexp.MustCompile(`(?i)\[Classification:[^\]]*\]`)
	priorityRe       = regexp.MustCompile(`(?i)\[Priority:\s*([^\]]*?)\s*\]`)
	protocolRe       = regexp.MustCompile(`\{([^}]*)\}`)
	annotationRe     = regexp.MustCompile(`^\s*\[[^\]]*:\s[^\]]*\]`)
)

// FastParser reads Snort alert_fast lines:
//
//	01/15-14:23:01.000000 [DROP] [**] [1:100:1] "msg" [**] [Classification: x] [Priority: 2] {TCP} 10.0.0.1:80 -> 10.0.0.2:443
type FastParser struct {
	normalizer *timestamp.Normalizer
}

// NewFastParser creates a new fast-format line parser
func NewFastParser(normalizer *timestamp.Normalizer) *FastParser {
	return &FastParser{normalizer: normalizer}
}

func (p *FastParser) Name() string {
	return string(model.FormatFast)
}

// Parse requires the [**] delimiter and at least three sections
func (p *FastParser) Parse(line string) (model.Alert, bool) {
	if !strings.Contains(line, FastDelimiter) {
		return model.Alert{}, false
	}
	segments := strings.SplitN(line, FastDelimiter, 3)
	if len(segments) < 3 {
		return model.Alert{}, false
	}
	head, sig, tail := segments[0], segments[1], segments[2]

	alert := model.NewAlert(model.FormatFast)

	if m := actionTagRe.FindStringSubmatch(head); m != nil {
		alert.Action = model.ParseAction(m[1])
	}

	rawTS := head
	if i := strings.IndexByte(head, '['); i >= 0 {
		rawTS = head[:i]
	}
	rawTS = strings.TrimSpace(rawTS)
	if rawTS != "" {
		ts := p.normalizer.NormalizeString(rawTS)
		alert.Timestamp = model.OrNA(ts.Display)
		alert.SortKey = ts.Time
	}

	alert.Signature = model.OrNA(cleanSignature(sig))

	tail = classificationRe.ReplaceAllString(tail, "")
	if m := priorityRe.FindStringSubmatch(tail); m != nil {
		alert.Priority = model.OrNA(m[1])
		tail = priorityRe.ReplaceAllString(tail, "")
	}
	if loc := protocolRe.FindStringSubmatchIndex(tail); loc != nil {
		alert.Protocol = model.OrNA(tail[loc[2]:loc[3]])
		tail = tail[loc[1]:]
	}
	// labelled annotations such as [AppID: http]; bracketed IPv6 addresses have no ": "
	for annotationRe.MatchString(tail) {
		tail = annotationRe.ReplaceAllString(tail, "")
	}

	if src, dst, ok := strings.Cut(tail, "->"); ok {
		ip, port := splitEndpoint(src)
		alert.SrcIP, alert.SrcPort = model.OrNA(ip), model.OrNA(port)
		ip, port = splitEndpoint(dst)
		alert.DstIP, alert.DstPort = model.OrNA(ip), model.OrNA(port)
	} else if ip, port := splitEndpoint(tail); ip != "" {
		alert.SrcIP, alert.SrcPort = model.OrNA(ip), model.OrNA(port)
	}

	return alert, true
}

// cleanSignature drops the leading [gid:sid:rev] tag and the quotes Snort 3 puts around messages
func cleanSignature(sig string) string {
	s := strings.TrimSpace(sig)
	s = leadingTagRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}
