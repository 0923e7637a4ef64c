package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/blockrender/pkg/block"
	"github.com/matzehuels/blockrender/pkg/workspace"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// BlockEntry is one line of the block picker: a block and how it is
// attached to its parent.
type BlockEntry struct {
	Block *block.Block
	Depth int
	Via   string // input name, "next", or empty for a top-level block
}

// blockEntries flattens ws depth-first, in painting order.
func blockEntries(ws *workspace.Workspace) []BlockEntry {
	var out []BlockEntry
	var visit func(b *block.Block, depth int, via string)
	visit = func(b *block.Block, depth int, via string) {
		for ; b != nil; b, via = b.Next, "next" {
			out = append(out, BlockEntry{Block: b, Depth: depth, Via: via})
			for _, in := range b.Inputs {
				if in.Child != nil {
					visit(in.Child, depth+1, in.Name)
				}
			}
		}
	}
	for _, root := range ws.Blocks {
		visit(root, 0, "")
	}
	return out
}

// BlockListModel is the bubbletea model for interactive block selection.
type BlockListModel struct {
	Entries  []BlockEntry
	Cursor   int
	Selected *BlockEntry
	Height   int
	Offset   int
}

// NewBlockListModel creates a picker over the blocks of ws.
func NewBlockListModel(ws *workspace.Workspace) BlockListModel {
	return BlockListModel{Entries: blockEntries(ws), Height: 15}
}

func (m BlockListModel) Init() tea.Cmd {
	return nil
}

func (m BlockListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "enter":
			if len(m.Entries) == 0 {
				return m, nil
			}
			e := m.Entries[m.Cursor]
			m.Selected = &e
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m BlockListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Block"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Entries))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		via := e.Via
		if via == "" {
			via = "-"
		}
		rows = append(rows, []string{
			cursor,
			strings.Repeat("  ", e.Depth) + e.Block.Type,
			via,
			shortID(e.Block.ID),
			fieldSummary(e.Block),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Type", "Via", "ID", "Fields").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 2 || col == 3 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Entries)), len(m.Entries))))
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// fieldSummary lists the named fields of b as NAME=text.
func fieldSummary(b *block.Block) string {
	var parts []string
	for _, in := range b.Inputs {
		for _, f := range in.Fields {
			if f.Name != "" {
				parts = append(parts, f.Name+"="+f.Text)
			}
		}
	}
	return strings.Join(parts, " ")
}
