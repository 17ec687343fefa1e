// Package mcp implements an MCP server exposing the page state of the
// displayed legend, and accepting scroll requests.
package mcp

import (
	"github.com/google/jsonschema-go/jsonschema"
)

const (
	name         = "pagelegend"
	instructions = `MCP Server 'pagelegend' exposes a scrollable legend shown in a terminal.

Tools:
- 'get_page_info' returns the current page of the legend: the page index and count, the
  anchor item, the items that can be scrolled to with the prev and next controls, and the
  visible pieces with their labels.
- 'scroll_to_index' scrolls the legend so that the page containing an item index is shown.
  The request is applied on the next render pass; the returned page info reflects it.
- 'scroll_to_label' works like 'scroll_to_index', but finds the piece by a fuzzy match
  on its label.

Indices are piece indices in data order. Use 'get_page_info' first to find them.
`
)

func newPageInfoSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "object",
		Description: "Page state of a legend after its last render pass.",
		Properties: map[string]*jsonschema.Schema{
			"legendId": {
				Type:        "string",
				Description: "The ID of the legend.",
			},
			"pageIndex": {
				Types:       []string{"integer", "null"},
				Description: "Item index of the first item of the current page, or null when there is no page.",
			},
			"prevIndex": {
				Type:        "integer",
				Description: "Item index shown by the previous page control. Absent on the first page.",
			},
			"nextIndex": {
				Type:        "integer",
				Description: "Item index shown by the next page control. Absent on the last page.",
			},
			"pageCount": {
				Type:        "integer",
				Description: "Number of pages.",
			},
			"pageText": {
				Type:        "string",
				Description: "The page indicator text.",
			},
			"anchor": {
				Type:        "integer",
				Description: "The anchor item index.",
			},
			"showControls": {
				Type:        "boolean",
				Description: "Whether the legend overflows and shows page controls.",
			},
			"visibleIndices": {
				Type:        "array",
				Description: "Item indices of the pieces visible on the current page.",
				Items:       &jsonschema.Schema{Type: "integer"},
			},
			"visibleLabels": {
				Type:        "array",
				Description: "Labels of the visible pieces.",
				Items:       &jsonschema.Schema{Type: "string"},
			},
			"pieces": {
				Type:        "array",
				Description: "Labels of all pieces, in data order.",
				Items:       &jsonschema.Schema{Type: "string"},
			},
		},
		Required: []string{"legendId", "pageIndex", "pageCount", "anchor", "showControls", "visibleIndices", "visibleLabels", "pieces"},
	}
}
