package advisor

import (
	"strconv"
	"strings"

	"advisor_server/core/domain"
	"advisor_server/core/port/out"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
)

// DescriptorFromNodes snapshots primary and gathers the text, fonts and
// fill colours of the other nodes as siblings. A nil primary yields the
// canvas descriptor.
func DescriptorFromNodes(primary *out.Node, others []out.Node) domain.ElementDescriptor {
	el := domain.CanvasDescriptor()
	if primary != nil {
		el = domain.ElementDescriptor{
			ID:          primary.ID,
			Kind:        primary.Kind,
			FillColor:   primary.Fill,
			StrokeColor: primary.Stroke,
			StrokeWidth: primary.StrokeWidth,
			Bounds:      primary.Bounds,
		}
		if primary.IsText() {
			el.TextContent = domain.Ptr(primary.Text)
			if primary.FontName != "" {
				el.FontName = domain.Ptr(primary.FontName)
			}
			if primary.FontSizePt > 0 {
				el.FontSizePt = domain.Ptr(primary.FontSizePt)
			}
		}
	}

	for _, n := range others {
		if primary != nil && n.ID == primary.ID {
			continue
		}
		if n.IsText() && strings.TrimSpace(n.Text) != "" {
			el.SiblingTexts = append(el.SiblingTexts, n.Text)
			if n.FontName != "" {
				el.SiblingFonts = append(el.SiblingFonts, n.FontName)
			}
		}
		if n.Fill != nil && n.Fill.Alpha > 0 {
			el.SiblingColors = append(el.SiblingColors, *n.Fill)
		}
	}
	return el
}

// fingerprint keys the analysis cache.
func fingerprint(region, language string, el domain.ElementDescriptor) string {
	el.ID = ""
	data, err := json.Marshal(struct {
		Region   string                   `json:"r"`
		Language string                   `json:"l"`
		Element  domain.ElementDescriptor `json:"e"`
	}{strings.ToLower(region), strings.ToLower(language), el})
	if err != nil {
		return ""
	}
	return "analysis:" + strconv.FormatUint(xxhash.Sum64(data), 16)
}
