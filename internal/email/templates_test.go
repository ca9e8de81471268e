package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateSet(t *testing.T) {
	all := Templates()
	require.Len(t, all, 3)

	types := make(map[string]bool)
	for _, tmpl := range all {
		assert.NotEmpty(t, tmpl.ID)
		assert.NotEmpty(t, tmpl.SenderEmail)
		assert.NotEmpty(t, tmpl.SubjectLine)
		assert.Contains(t, tmpl.HTML, trackingLinkPlaceholder)
		types[tmpl.PhishingType] = true
	}
	assert.True(t, types["credential_harvesting"])
	assert.True(t, types["malware"])
	assert.True(t, types["urgent_action"])
}

func TestTemplateByID(t *testing.T) {
	tmpl, ok := TemplateByID("it-password-reset")
	require.True(t, ok)
	assert.Equal(t, "credential_harvesting", tmpl.PhishingType)

	_, ok = TemplateByID("does-not-exist")
	assert.False(t, ok)
}

func TestRenderTemplate(t *testing.T) {
	tmpl, ok := TemplateByID("it-password-reset")
	require.True(t, ok)

	rendered := RenderTemplate(tmpl.HTML, "https://track.example.com/t/abc123", "alice@example.com")

	assert.Contains(t, rendered, "https://track.example.com/t/abc123")
	assert.Contains(t, rendered, "alice@example.com")
	assert.False(t, strings.Contains(rendered, trackingLinkPlaceholder))
	assert.False(t, strings.Contains(rendered, recipientPlaceholder))
}
