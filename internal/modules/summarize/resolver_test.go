package summarize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePromptID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		categoryID string
		want       string
	}{
		{name: "education maps to educational", categoryID: "27", want: "educational"},
		{name: "howto maps to tutorial", categoryID: "26", want: "tutorial"},
		{name: "science maps to technical", categoryID: "28", want: "technical"},
		{name: "news maps to news", categoryID: "25", want: "news"},
		{name: "unmapped falls back", categoryID: "999", want: "general"},
		{name: "absent falls back", categoryID: "", want: "general"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, ResolvePromptID(tc.categoryID, "general"))
		})
	}
}

func TestResolvePromptIDCustomDefault(t *testing.T) {
	t.Parallel()

	require.Equal(t, "podcast", ResolvePromptID("", "podcast"))
	require.Equal(t, "educational", ResolvePromptID("27", "podcast"))
}
