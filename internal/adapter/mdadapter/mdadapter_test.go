package mdadapter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	testCases := []struct {
		name          string
		source        string
		expectedTitle string
		contains      []string
		notContains   []string
	}{
		{
			name:          "Frontmatter and directive",
			source:        "---\ntitle: Fetch\n---\n# About\nSupports {{ provider: hianime }} and more.\n",
			expectedTitle: "Fetch",
			contains:      []string{"<h1>About</h1>", `<code class="provider">hianime</code>`},
			notContains:   []string{"title: Fetch", "{{"},
		},
		{
			name:     "No frontmatter",
			source:   "Plain *text*\n",
			contains: []string{"<em>text</em>"},
		},
		{
			name:     "Unknown directive is kept as text",
			source:   "{{ file: a.txt }}\n",
			contains: []string{"{{ file: a.txt }}"},
		},
		{
			name:     "Spacing inside directive",
			source:   "{{provider:yt-dlp-generic}}\n",
			contains: []string{`<code class="provider">yt-dlp-generic</code>`},
		},
	}

	a := NewMDAdapter()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			notice, err := a.Render([]byte(tc.source))
			require.NoError(t, err)
			require.Equal(t, tc.expectedTitle, notice.Frontmatter.Title)

			for _, s := range tc.contains {
				require.Contains(t, notice.HTML, s)
			}

			for _, s := range tc.notContains {
				require.NotContains(t, notice.HTML, s)
			}
		})
	}
}

func TestRenderBadFrontmatter(t *testing.T) {
	_, err := NewMDAdapter().Render([]byte("---\ntitle: [unclosed\n---\nbody\n"))
	require.Error(t, err)
}
