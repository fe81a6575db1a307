package content

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse splits a markdown document into YAML frontmatter and body.
// Documents without a frontmatter fence get a nil frontmatter map and the
// whole content as body; callers that require metadata reject those.
func Parse(path string, raw []byte) (*Document, error) {
	doc := &Document{
		Path: path,
		Hash: ContentHash(raw),
	}

	str := string(raw)
	if strings.HasPrefix(str, "---\n") || strings.HasPrefix(str, "---\r\n") {
		frontmatter, body, err := extractFrontmatter(str)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		doc.Frontmatter = frontmatter
		doc.Body = body
	} else {
		doc.Body = str
	}

	return doc, nil
}

// extractFrontmatter parses the YAML block between the opening and closing
// "---" fences and returns it with the remaining body.
func extractFrontmatter(content string) (map[string]any, string, error) {
	const delimiter = "---"

	// Skip the opening delimiter
	start := len(delimiter)
	if len(content) > start && content[start] == '\r' {
		start++
	}
	if len(content) > start && content[start] == '\n' {
		start++
	}

	// Find the closing delimiter
	closeIdx := strings.Index(content[start:], "\n"+delimiter)
	if closeIdx == -1 {
		closeIdx = strings.Index(content[start:], "\r\n"+delimiter)
	}
	if closeIdx == -1 {
		return nil, content, fmt.Errorf("no closing frontmatter delimiter")
	}

	yamlContent := content[start : start+closeIdx]

	// Body starts after the closing delimiter and its trailing newlines
	bodyStart := start + closeIdx + 1 + len(delimiter)
	for bodyStart < len(content) && (content[bodyStart] == '\n' || content[bodyStart] == '\r') {
		bodyStart++
	}

	body := ""
	if bodyStart < len(content) {
		body = content[bodyStart:]
	}

	var frontmatter map[string]any
	if err := yaml.Unmarshal([]byte(yamlContent), &frontmatter); err != nil {
		return nil, content, fmt.Errorf("parse YAML frontmatter: %w", err)
	}

	return frontmatter, body, nil
}
