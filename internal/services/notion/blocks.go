// -----------------------------------------------------------------------
// Last Modified: Monday, 1st September 2025
// -----------------------------------------------------------------------

package notion

import (
	"strings"

	"github.com/jomei/notionapi"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Notion caps rich text content at 2000 characters per text object.
const maxTextLength = 2000

// BlocksFromMarkdown converts report markdown into Notion blocks.
// Headings map to heading blocks, list items to bulleted items, and
// everything else (paragraphs and tables) to paragraph blocks. Long
// paragraphs are split to respect the Notion text length cap.
func BlocksFromMarkdown(markdown string) []notionapi.Block {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	source := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	var blocks []notionapi.Block
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			blocks = append(blocks, headingBlock(n.Level, nodeText(n, source)))
		case *ast.List:
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				blocks = append(blocks, bulletBlock(nodeText(item, source)))
			}
		default:
			for _, chunk := range splitText(nodeText(node, source)) {
				blocks = append(blocks, paragraphBlock(chunk))
			}
		}
	}
	return blocks
}

func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := child.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func splitText(s string) []string {
	if s == "" {
		return nil
	}
	var chunks []string
	for len(s) > maxTextLength {
		cut := maxTextLength
		// Prefer a line or word boundary near the cap.
		if idx := strings.LastIndexAny(s[:cut], "\n "); idx > 0 {
			cut = idx
		}
		chunks = append(chunks, s[:cut])
		s = strings.TrimSpace(s[cut:])
	}
	return append(chunks, s)
}

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{
		{Text: &notionapi.Text{Content: content}},
	}
}

func headingBlock(level int, content string) notionapi.Block {
	if level <= 1 {
		return &notionapi.Heading1Block{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeHeading1,
			},
			Heading1: notionapi.Heading{RichText: richText(content)},
		}
	}
	if level == 2 {
		return &notionapi.Heading2Block{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeHeading2,
			},
			Heading2: notionapi.Heading{RichText: richText(content)},
		}
	}
	return &notionapi.Heading3Block{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeHeading3,
		},
		Heading3: notionapi.Heading{RichText: richText(content)},
	}
}

func paragraphBlock(content string) notionapi.Block {
	return &notionapi.ParagraphBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeParagraph,
		},
		Paragraph: notionapi.Paragraph{RichText: richText(content)},
	}
}

func bulletBlock(content string) notionapi.Block {
	return &notionapi.BulletedListItemBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeBulletedListItem,
		},
		BulletedListItem: notionapi.ListItem{RichText: richText(content)},
	}
}
