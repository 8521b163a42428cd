package model

import "time"

// RuleFile describes one Snort rule file found on disk.
// RuleCount is nil when the file was too large to count or could not be read.
type RuleFile struct {
	Name      string     `json:"name"`
	Path      string     `json:"path"`
	Directory string     `json:"directory"`
	Size      *int64     `json:"size"`
	Modified  *time.Time `json:"modified"`
	RuleCount *int       `json:"rule_count"`
}

// RuleLine is one line of a rule file preview
type RuleLine struct {
	Number    int    `json:"number"`
	Content   string `json:"content"`
	IsComment bool   `json:"is_comment"`
}

// RulePreview is the result of reading a rule file for display
type RulePreview struct {
	Lines     []RuleLine `json:"lines"`
	Error     string     `json:"error,omitempty"`
	Truncated bool       `json:"truncated"`
}
