package tool

import (
	"strings"
	"testing"
)

func TestExtractText_SkipsScriptsAndComments(t *testing.T) {
	raw := `
<body>
    <!-- comment -->
    <div id="main">Hello   <b>world</b></div>
    <script>alert("hi")</script>
    <style>.x {}</style>
</body>`

	out := ExtractText(raw, nil)

	if strings.Contains(out, "alert") || strings.Contains(out, ".x") {
		t.Errorf("script/style content must be skipped, output: %q", out)
	}
	if strings.Contains(out, "comment") {
		t.Errorf("comments must be skipped, output: %q", out)
	}
	if out != "Hello\nworld" {
		t.Errorf("unexpected text: %q", out)
	}
}

func TestExtractText_Truncates(t *testing.T) {
	raw := "<body><p>" + strings.Repeat("a", 100) + "</p></body>"

	out := ExtractText(raw, &TextConfig{MaxOutputSize: 10})

	if !strings.HasPrefix(out, strings.Repeat("a", 10)) || !strings.HasSuffix(out, "(truncated)") {
		t.Errorf("expected truncated output, got %q", out)
	}
}
