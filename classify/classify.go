// Package classify turns the final assistant text of a turn into an ordered
// list of content blocks: structured component payloads where they can be
// found, plain text otherwise.
//
// This is a best-effort classifier. False negatives (renderable data treated
// as prose) are acceptable; it never errors and never drops the answer. The
// pattern list is finite and deliberate: adding a pattern changes observable
// behavior and needs a test.
package classify

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"stackchat/model"
)

// Entity cues: proximity of role/status words to list/found/showing, "here
// are"-style phrasing near user words, or contact-like tokens.
var userCues = []*regexp.Regexp{
	regexp.MustCompile(`(?is)(?:user|users|member|members).*?(?:list|found|showing)`),
	regexp.MustCompile(`(?is)(?:here are|here's|found).*?(?:user|users)`),
	regexp.MustCompile(`(?is)(?:email|name|role|status).*?(?:@|\.com)`),
}

const emailPattern = `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`

// The three literal record patterns, applied independently and accumulated.
var recordPatterns = []*regexp.Regexp{
	// Name - email (role) [status]
	regexp.MustCompile(`([A-Za-z\s]+)\s*-\s*(` + emailPattern + `)\s*\(([^)]+)\)\s*\[?([^\]]*)\]?`),
	// Name, email, role, status
	regexp.MustCompile(`([A-Za-z\s]+),\s*(` + emailPattern + `),\s*([^,]+),\s*([^\n]+)`),
	// Name <email>
	regexp.MustCompile(`([A-Za-z\s]+)\s*<(` + emailPattern + `)>`),
}

var bareEmailRe = regexp.MustCompile(emailPattern)

var blankLineRe = regexp.MustCompile(`\n\s*\n`)

// Classify converts final assistant text into content blocks. Priority:
// an embedded JSON component payload wins; then heuristic extraction of
// tabular user records; then the whole text as a single text block.
func Classify(finalText string) []model.ContentBlock {
	if payload, ok := extractComponentJSON(finalText); ok {
		return []model.ContentBlock{{Kind: model.BlockComponent, Component: payload}}
	}

	if hasUserCue(finalText) {
		if users := extractUsers(finalText); len(users) > 0 {
			var blocks []model.ContentBlock

			if lead := leadingText(finalText); lead != "" {
				blocks = append(blocks, model.ContentBlock{Kind: model.BlockText, Text: lead})
			}

			blocks = append(blocks, model.ContentBlock{
				Kind: model.BlockComponent,
				Component: &model.ComponentPayload{
					Type: "UserTable",
					Props: map[string]any{
						"users":      users,
						"title":      "Users",
						"showAvatar": true,
						"showStatus": true,
					},
				},
			})

			return blocks
		}
	}

	return []model.ContentBlock{{Kind: model.BlockText, Text: finalText}}
}

// extractComponentJSON locates the first balanced JSON object substring that
// contains a "type" key and parses as a component payload. A balanced scan
// rather than a greedy first-to-last-brace match, so trailing prose after
// the object does not break parsing.
func extractComponentJSON(text string) (*model.ComponentPayload, bool) {
	for start := 0; ; {
		open := strings.Index(text[start:], "{")
		if open < 0 {
			return nil, false
		}
		open += start

		candidate, ok := balancedObject(text[open:])
		if !ok {
			return nil, false
		}

		if strings.Contains(candidate, `"type"`) {
			var payload model.ComponentPayload
			if err := json.Unmarshal([]byte(candidate), &payload); err == nil && payload.Type != "" {
				return &payload, true
			}
		}

		start = open + 1
	}
}

// balancedObject returns the shortest balanced {...} prefix of s, honoring
// string literals and escapes.
func balancedObject(s string) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}

	return "", false
}

func hasUserCue(text string) bool {
	for _, cue := range userCues {
		if cue.MatchString(text) {
			return true
		}
	}
	return false
}

// extractUsers mines user records from free text via the record patterns;
// when none match it falls back to bare email addresses with synthesized
// placeholder names.
func extractUsers(text string) []any {
	var users []any

	for _, pattern := range recordPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(match[1])
			email := strings.TrimSpace(match[2])
			if name == "" || email == "" {
				continue
			}

			role := "User"
			status := "active"
			if len(match) > 3 && strings.TrimSpace(match[3]) != "" {
				role = strings.TrimSpace(match[3])
			}
			if len(match) > 4 && strings.TrimSpace(match[4]) != "" {
				status = NormalizeStatus(strings.TrimSpace(match[4]))
			}

			users = append(users, userRecord(len(users)+1, name, email, role, status))
		}
	}

	if len(users) == 0 {
		for i, email := range bareEmailRe.FindAllString(text, -1) {
			users = append(users, userRecord(i+1, "", email, "User", "active"))
		}
	}

	return users
}

func userRecord(n int, name, email, role, status string) map[string]any {
	if name == "" {
		name = "User " + strconv.Itoa(n)
	}
	return map[string]any{
		"id":         "user-" + strconv.Itoa(n),
		"name":       name,
		"email":      email,
		"role":       role,
		"status":     status,
		"lastActive": "Recently",
	}
}

// leadingText returns the paragraph before the first blank line, or a fixed
// fallback when the text starts empty.
func leadingText(text string) string {
	first := blankLineRe.Split(text, 2)[0]
	first = strings.TrimSpace(first)
	if first == "" {
		return "Here are the users:"
	}
	return first
}

// NormalizeStatus maps a free-text status word to exactly one of active,
// inactive or pending by case-insensitive substring. Longer keywords are
// checked first so "inactive" is not swallowed by the "active" substring;
// anything unrecognized defaults to active.
func NormalizeStatus(status string) string {
	normalized := strings.ToLower(status)
	switch {
	case strings.Contains(normalized, "inactive") || strings.Contains(normalized, "offline"):
		return "inactive"
	case strings.Contains(normalized, "pending") || strings.Contains(normalized, "waiting"):
		return "pending"
	case strings.Contains(normalized, "active") || strings.Contains(normalized, "online"):
		return "active"
	default:
		return "active"
	}
}

