package markdown

import "testing"

func TestFirstParagraph(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"plain text",
			"Does X.",
			"Does X.",
		},
		{
			"stops at blank line",
			"First paragraph here.\n\nSecond paragraph here.",
			"First paragraph here.",
		},
		{
			"strips links and emphasis",
			"See [the docs](https://docs.rs/serde) for **more** detail.",
			"See the docs for more detail.",
		},
		{
			"keeps inline code literally",
			"Call `Command::new` first.",
			"Call Command::new first.",
		},
		{
			"skips leading code block",
			"```rust\nfn main() {}\n```\n\nThe entry point.",
			"The entry point.",
		},
		{
			"no paragraph at all",
			"# Only a heading",
			"",
		},
		{
			"empty input",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstParagraph(tt.src); got != tt.want {
				t.Errorf("FirstParagraph(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}
