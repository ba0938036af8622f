package markup

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/qvlib/internal/models"
)

func TestSerialize_TwoCells(t *testing.T) {
	cells := []models.Cell{
		{Type: models.CellText, Data: "a\n"},
		{Type: models.CellMarkdown, Data: "b\n"},
	}
	got := Serialize(cells)
	assert.Equal(t, ">>>>>text\na\n\n>>>>>markdown\nb\n", got)
	assert.Equal(t, cells, Parse(got))
}

func TestSerialize_Empty(t *testing.T) {
	assert.Equal(t, "", Serialize(nil))
}

func TestSerialize_InvalidTypeWritesText(t *testing.T) {
	got := Serialize([]models.Cell{{Type: "", Data: "x"}})
	assert.Equal(t, ">>>>>text\nx", got)
}

func TestParse_Empty(t *testing.T) {
	assert.Empty(t, Parse(""))
}

func TestParse_NoHeaders(t *testing.T) {
	assert.Empty(t, Parse("just a title\nand some text\n"))
}

func TestParse_DropsPreamble(t *testing.T) {
	cells := Parse("preamble\n>>>>>text\nhello\n")
	require.Len(t, cells, 1)
	assert.Equal(t, models.Cell{Type: models.CellText, Data: "hello\n"}, cells[0])
}

func TestParse_HeaderWithoutData(t *testing.T) {
	cells := Parse(">>>>>code")
	require.Len(t, cells, 1)
	assert.Equal(t, models.CellCode, cells[0].Type)
	assert.Equal(t, "", cells[0].Data)
}

func TestParse_ConsecutiveHeaders(t *testing.T) {
	cells := Parse(">>>>>latex\n>>>>>diagram\nA->B")
	require.Len(t, cells, 2)
	assert.Equal(t, models.Cell{Type: models.CellLatex, Data: ""}, cells[0])
	assert.Equal(t, models.Cell{Type: models.CellDiagram, Data: "A->B"}, cells[1])
}

func TestParse_TypeTags(t *testing.T) {
	cases := map[string]models.CellType{
		"code":       models.CellCode,
		"CODE":       models.CellCode,
		"codeblock":  models.CellCode,
		"Markdown":   models.CellMarkdown,
		"latex ":     models.CellLatex,
		"diagram\r":  models.CellDiagram,
		"text":       models.CellText,
		"":           models.CellText,
		"###garbled": models.CellText,
		"md":         models.CellText,
	}
	for tag, want := range cases {
		cells := Parse(Separator + tag + "\nx")
		require.Len(t, cells, 1, "tag %q", tag)
		assert.Equal(t, want, cells[0].Type, "tag %q", tag)
	}
}

func TestParse_SeparatorMidLineIsData(t *testing.T) {
	cells := Parse(">>>>>text\nquote: >>>>>code\n")
	require.Len(t, cells, 1)
	assert.Equal(t, "quote: >>>>>code\n", cells[0].Data)
}

func TestParse_EmbeddedHeaderSplitsCell(t *testing.T) {
	cells := Parse(">>>>>text\nfirst\n>>>>>markdown\nsecond")
	require.Len(t, cells, 2)
	assert.Equal(t, "first", cells[0].Data)
	assert.Equal(t, "second", cells[1].Data)
}

func TestRoundTrip(t *testing.T) {
	datas := []string{"", "\n", "a", "a\n", "a\n\n", "\n\nb", "line1\nline2", "  indented\n\ttab\n", "> quote >>>> four"}
	types := []models.CellType{models.CellText, models.CellMarkdown, models.CellCode, models.CellLatex, models.CellDiagram}

	for i := range datas {
		for n := 1; n <= 3; n++ {
			cells := make([]models.Cell, n)
			for j := range cells {
				cells[j] = models.Cell{
					Type: types[(i+j)%len(types)],
					Data: datas[(i+j)%len(datas)],
				}
			}
			t.Run(fmt.Sprintf("%d/%d", i, n), func(t *testing.T) {
				text := Serialize(cells)
				assert.Equal(t, cells, Parse(text))
				assert.Equal(t, text, Serialize(Parse(text)))
			})
		}
	}
}
