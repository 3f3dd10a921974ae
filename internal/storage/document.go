package storage

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// excerptLimit caps the body excerpt length carried on loaded documents.
const excerptLimit = 500

// SplitFrontmatter splits markdown content into its raw YAML frontmatter and
// the body that follows the closing delimiter. Content without a leading
// frontmatter block yields ok == false and the body is the whole content.
// The body keeps its leading newlines so a rewrite reproduces the file
// byte for byte.
func SplitFrontmatter(content string) (meta string, body string, ok bool) {
	if !strings.HasPrefix(content, "---") {
		return "", content, false
	}
	parts := strings.SplitN(content, "---", 3)
	if len(parts) < 3 {
		return parts[1], "", true
	}
	return parts[1], parts[2], true
}

// RenderDocument serializes meta as YAML frontmatter followed by body. The
// body is written verbatim after the closing delimiter, so new documents
// should start their body with a blank line.
func RenderDocument(meta any, body string) ([]byte, error) {
	yamlBytes, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}
	var b strings.Builder
	b.WriteString("---\n")
	b.Write(yamlBytes)
	b.WriteString("---")
	b.WriteString(body)
	return []byte(b.String()), nil
}

// Excerpt returns at most the first 500 characters of body.
func Excerpt(body string) string {
	runes := []rune(body)
	if len(runes) <= excerptLimit {
		return body
	}
	return string(runes[:excerptLimit])
}
