package extract

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/anchorwatch/anchor/pkg/models"
)

const mediaDescriptionMaxTokens = 600

const mediaSystem = `You are a content-analysis assistant specialized in reading information
out of images. Describe the image in detail, focusing on:
- Text (headlines, captions, annotations, numbers)
- Chart data (line/bar/pie values and trends, table figures)
- Screenshot content (news clippings, announcements, key figures from a
  financial report)
- Any visible information relevant to economics, finance, or policy

Output a plain-text description. Do not prefix it with "this image shows"
or similar filler — state the content directly.`

const mediaUserPrompt = "Extract and describe every key piece of information in this image."

type mediaItem struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// describeMedia calls the vision model once per photo/gif attached to a
// post and joins the resulting descriptions, so the extraction LLM sees
// image content alongside the post text. Grounded on
// original_source/anchor/collector/media_describer.py. Video isn't
// describable this way and is skipped. Returns "" when the post has no
// media, none of it is a photo, or every vision call fails — none of
// these are errors, just an absent enrichment.
func (e *Extractor) describeMedia(ctx context.Context, post *models.RawPost) string {
	if post.MediaJSON == nil || *post.MediaJSON == "" {
		return ""
	}

	var items []mediaItem
	if err := json.Unmarshal([]byte(*post.MediaJSON), &items); err != nil {
		return ""
	}

	var urls []string
	for _, item := range items {
		if item.Type == "photo" || item.Type == "gif" {
			urls = append(urls, item.URL)
		}
	}
	if len(urls) == 0 {
		return ""
	}

	var descriptions []string
	for i, url := range urls {
		completion, err := e.gateway.CompleteVision(ctx, mediaSystem, mediaUserPrompt, url, mediaDescriptionMaxTokens)
		if err != nil {
			slog.Warn("extraction: vision call failed", "raw_post_id", post.ID, "image", i+1, "error", err)
			continue
		}
		if completion == nil || strings.TrimSpace(completion.Content) == "" {
			slog.Warn("extraction: vision call returned nothing", "raw_post_id", post.ID, "image", i+1)
			continue
		}
		descriptions = append(descriptions, strings.TrimSpace(completion.Content))
	}

	if len(descriptions) == 0 {
		return ""
	}
	if len(descriptions) == 1 {
		return descriptions[0]
	}

	var b strings.Builder
	for i, desc := range descriptions {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("[image ")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString("] ")
		b.WriteString(desc)
	}
	return b.String()
}
