package mcpserver

// MarkupFormatContract describes the markup document format that LLM
// consumers read from read_note and send to write_note.
const MarkupFormatContract = `# Quiver Markup Format

A note is a list of cells. In markup, every cell starts with a header line made
of the separator ` + "`>>>>>`" + ` immediately followed by the cell type, and the
cell data follows on the next lines up to the next header.

## Structure

` + "```" + `text
---
title: Weekly notes                 # OPTIONAL on write; replaces the note title
uuid: 0F1E2D3C-...                  # informational, ignored on write
notebook: Inbox                     # notebook name, ignored on write
tags: [work]                        # informational, ignored on write
---
>>>>>markdown
# Heading

Some **markdown** text.
>>>>>code
fmt.Println("hello")
>>>>>text
<p>Quiver rich text is stored as HTML.</p>
` + "```" + `

## Rules

1. **Cell types** are ` + "`text`" + `, ` + "`markdown`" + `, ` + "`code`" + `, ` + "`latex`" + ` and ` + "`diagram`" + `.
   Matching is case-insensitive and by prefix; anything else becomes ` + "`text`" + `.
2. **Headers** must start at the beginning of a line. ` + "`>>>>>`" + ` in the middle of a
   line is ordinary data.
3. **Data lines** must not start with ` + "`>>>>>`" + `; such a line starts a new cell.
4. **Text before the first header** (including the front matter) is not a cell.
5. **A header with nothing after it** produces a cell with empty data.
6. **Writes replace every cell** of the note. Metadata other than the title is
   never changed by a write.
`
