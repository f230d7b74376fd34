// Package casegraph turns one Case hierarchy into a positioned node/edge tree.
//
// Rows are fixed per level (case, specimen, block, slide) and each row is centred on x = 0.
// Nodes are placed left to right in pre-order; children are not aligned under their parent.
package casegraph

import (
	"fmt"
	"strconv"

	"rainpath-cases/internal/domain"
)

const (
	HorizontalSpacing = 240
	VerticalSpacing   = 180
)

// Levels
const (
	LevelCase = iota
	LevelSpecimen
	LevelBlock
	LevelSlide
)

// Node types, matching the flow renderer the graph JSON feeds.
const (
	NodeTypeInput   = "input"
	NodeTypeDefault = "default"
	NodeTypeOutput  = "output"
)

const (
	plainStrokeWidth = 1.5
	blockStrokeWidth = 2.5
)

// BlockPalette cycles over blocks in traversal order.
var BlockPalette = []string{
	"#7c3aed",
	"#2563eb",
	"#0ea5e9",
	"#22c55e",
	"#f97316",
	"#ec4899",
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type NodeData struct {
	Title     string `json:"title"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary,omitempty"`
}

type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Level    int      `json:"level"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
	// Color is set on block nodes only.
	Color string `json:"color,omitempty"`
}

type Edge struct {
	ID          string  `json:"id"`
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Color       string  `json:"color,omitempty"`
	StrokeWidth float64 `json:"strokeWidth"`
}

type Summary struct {
	Specimens int `json:"specimens"`
	Blocks    int `json:"blocks"`
	Slides    int `json:"slides"`
}

type Graph struct {
	Nodes   []Node  `json:"nodes"`
	Edges   []Edge  `json:"edges"`
	Summary Summary `json:"summary"`
}

// Summarize counts every level of the hierarchy.
func Summarize(c *domain.Case) Summary {
	s := Summary{Specimens: len(c.Specimens)}
	for _, sp := range c.Specimens {
		s.Blocks += len(sp.Blocks)
		for _, b := range sp.Blocks {
			s.Slides += len(b.Slides)
		}
	}
	return s
}

func CaseNodeID(id int64) string     { return "case-" + strconv.FormatInt(id, 10) }
func SpecimenNodeID(id int64) string { return "specimen-" + strconv.FormatInt(id, 10) }
func BlockNodeID(id int64) string    { return "block-" + strconv.FormatInt(id, 10) }
func SlideNodeID(id int64) string    { return "slide-" + strconv.FormatInt(id, 10) }

// EdgeID "<source>-<target>".
func EdgeID(source, target string) string { return source + "-" + target }

// builder holds per-call cursors; a Generate call never shares state with another.
type builder struct {
	counts  [4]int
	indices [4]int
	colors  int
	graph   *Graph
}

func (b *builder) position(level int) Position {
	i := b.indices[level]
	b.indices[level]++
	n := b.counts[level]
	offset := 0.0
	if n > 1 {
		offset = -float64((n-1)*HorizontalSpacing) / 2
	}
	return Position{
		X: offset + float64(i*HorizontalSpacing),
		Y: float64(level * VerticalSpacing),
	}
}

func (b *builder) nextColor() string {
	color := BlockPalette[b.colors%len(BlockPalette)]
	b.colors++
	return color
}

func (b *builder) addEdge(source, target, color string) {
	width := plainStrokeWidth
	if color != "" {
		width = blockStrokeWidth
	}
	b.graph.Edges = append(b.graph.Edges, Edge{
		ID:          EdgeID(source, target),
		Source:      source,
		Target:      target,
		Color:       color,
		StrokeWidth: width,
	})
}

// Generate lays out c. It does not modify c and returns the same graph for the same input.
// A case without specimens yields a single node and no edges.
func Generate(c *domain.Case) *Graph {
	summary := Summarize(c)
	total := 1 + summary.Specimens + summary.Blocks + summary.Slides
	b := &builder{
		counts: [4]int{1, summary.Specimens, summary.Blocks, summary.Slides},
		graph: &Graph{
			Nodes:   make([]Node, 0, total),
			Edges:   make([]Edge, 0, total-1),
			Summary: summary,
		},
	}

	caseID := CaseNodeID(c.ID)
	b.graph.Nodes = append(b.graph.Nodes, Node{
		ID:       caseID,
		Type:     NodeTypeInput,
		Level:    LevelCase,
		Position: b.position(LevelCase),
		Data: NodeData{
			Title:     "Case",
			Primary:   c.Identifier,
			Secondary: plural(summary.Specimens, "specimen"),
		},
	})

	for si, sp := range c.Specimens {
		specimenID := SpecimenNodeID(sp.ID)
		b.graph.Nodes = append(b.graph.Nodes, Node{
			ID:       specimenID,
			Type:     NodeTypeDefault,
			Level:    LevelSpecimen,
			Position: b.position(LevelSpecimen),
			Data: NodeData{
				Title:     "Specimen",
				Primary:   SpecimenLabel(si),
				Secondary: plural(len(sp.Blocks), "block"),
			},
		})
		b.addEdge(caseID, specimenID, "")

		for bi, bl := range sp.Blocks {
			color := b.nextColor()
			blockID := BlockNodeID(bl.ID)
			b.graph.Nodes = append(b.graph.Nodes, Node{
				ID:       blockID,
				Type:     NodeTypeDefault,
				Level:    LevelBlock,
				Position: b.position(LevelBlock),
				Data: NodeData{
					Title:     "Block",
					Primary:   BlockLabel(bi),
					Secondary: plural(len(bl.Slides), "slide"),
				},
				Color: color,
			})
			b.addEdge(specimenID, blockID, color)

			for sli, sl := range bl.Slides {
				slideID := SlideNodeID(sl.ID)
				b.graph.Nodes = append(b.graph.Nodes, Node{
					ID:       slideID,
					Type:     NodeTypeOutput,
					Level:    LevelSlide,
					Position: b.position(LevelSlide),
					Data: NodeData{
						Title:     "Slide",
						Primary:   SlideLabel(sli),
						Secondary: sl.Staining,
					},
				})
				b.addEdge(blockID, slideID, color)
			}
		}
	}

	return b.graph
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
