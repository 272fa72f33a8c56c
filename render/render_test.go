package render

import (
	"bytes"
	"testing"

	"github.com/rpupo63/portfolio-builder-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryTemplateKindHasARenderer(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	assert.Equal(t, models.TemplateKinds, r.Kinds())
}

func TestRenderPortfolio(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	for _, kind := range models.TemplateKinds {
		t.Run(string(kind), func(t *testing.T) {
			p := models.NewPortfolio([16]byte{1})
			p.Template = kind
			p.Hero.Title = "Alice <Dev>"
			p.About.Skills = []string{"Go"}
			p.Experience = append(p.Experience, models.Experience{
				Title: "Engineer", Company: "Acme", StartDate: models.NewDate(2020, 1, 1), Current: true,
			})
			projects := []models.Project{{Title: "Compiler", Description: "A toy compiler", Featured: true}}

			var buf bytes.Buffer
			require.NoError(t, r.Portfolio(&buf, &p, projects))
			out := buf.String()

			assert.Contains(t, out, `class="tpl-`+string(kind)+`"`)
			assert.Contains(t, out, "Alice &lt;Dev&gt;")
			assert.NotContains(t, out, "<Dev>")
			assert.Contains(t, out, "Compiler")
			assert.Contains(t, out, "View My Work")
			assert.Contains(t, out, "Jan 2020")
		})
	}
}

func TestUnknownTemplateFallsBackToDefault(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	p := models.NewPortfolio([16]byte{1})
	p.Template = "brutalist"

	var buf bytes.Buffer
	require.NoError(t, r.Portfolio(&buf, &p, nil))
	assert.Contains(t, buf.String(), `class="tpl-modern"`)
}

func TestNoticePages(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var empty bytes.Buffer
	require.NoError(t, r.Empty(&empty, "bob"))
	assert.Contains(t, empty.String(), "Nothing here yet")
	assert.Contains(t, empty.String(), "bob has not published")

	var private bytes.Buffer
	require.NoError(t, r.Private(&private, "alice"))
	assert.Contains(t, private.String(), "This portfolio is private")
}
