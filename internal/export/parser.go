package export

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dendro-dev/dendro/internal/profile"
)

// ParseMarkdownReport extracts the embedded base64 profile payload from a
// Markdown growth report produced by Markdown and decodes it back into a
// profile value.
func ParseMarkdownReport(data []byte) (*profile.GrowthProfile, error) {
	content := string(data)

	if !strings.Contains(content, "<!-- dendro-report-version: 1 -->") {
		return nil, fmt.Errorf("not a dendro report: missing version sentinel")
	}

	const prefix = "<!-- dendro-profile: "
	const suffix = " -->"
	start := strings.Index(content, prefix)
	if start == -1 {
		return nil, fmt.Errorf("not a dendro report: missing profile payload")
	}
	start += len(prefix)
	end := strings.Index(content[start:], suffix)
	if end == -1 {
		return nil, fmt.Errorf("not a dendro report: malformed profile payload")
	}

	payload, err := base64.StdEncoding.DecodeString(content[start : start+end])
	if err != nil {
		return nil, fmt.Errorf("not a dendro report: corrupted payload: %w", err)
	}
	return profile.Parse(string(payload))
}
