package extract

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// splitFrontMatter separates a leading "---"-delimited YAML block from the
// remainder of a Markdown document's content, mirroring the python-frontmatter
// library's behavior of exposing post.metadata and post.content separately.
// If content has no front matter, metadata is nil and body is content
// unchanged.
func splitFrontMatter(content string) (body string, metadata map[string]string) {
	const delim = "---"

	trimmed := strings.TrimLeft(content, "\xef\xbb\xbf \t\r\n")
	if !strings.HasPrefix(trimmed, delim) {
		return content, nil
	}

	rest := trimmed[len(delim):]

	nl := strings.IndexByte(rest, '\n')
	if nl == -1 {
		return content, nil
	}
	rest = rest[nl+1:]

	end := strings.Index(rest, "\n"+delim)
	if end == -1 {
		return content, nil
	}

	raw := rest[:end]

	remainder := rest[end+1+len(delim):]
	remainder = strings.TrimPrefix(remainder, "\r")
	remainder = strings.TrimPrefix(remainder, "\n")

	var parsed map[string]any
	if err := yaml.Unmarshal([]byte(raw), &parsed); err != nil || parsed == nil {
		return content, nil
	}

	metadata = make(map[string]string, len(parsed))
	for k, v := range parsed {
		metadata[k] = stringifyYAML(v)
	}

	return remainder, metadata
}

// stringifyYAML renders a decoded YAML scalar or sequence as a string,
// since core.Document.Metadata is string-valued.
func stringifyYAML(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = stringifyYAML(item)
		}
		return strings.Join(parts, ", ")
	default:
		out, err := yaml.Marshal(val)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(out))
	}
}
