package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/notumhq/notum/internal/bus"
	"github.com/notumhq/notum/internal/domain"
)

// Renderer turns a titled list of sections into a markdown document.
// The archive path delegates rendering to the worker pool; tests can plug a
// synchronous implementation.
type Renderer interface {
	Render(ctx context.Context, title string, sections []string) (string, error)
}

// WorkerRenderer renders markdown by delegating to the bus worker pool with
// a KindRenderMarkdown message.
type WorkerRenderer struct {
	pool *bus.WorkerPool
}

// NewWorkerRenderer creates a Renderer backed by the given worker pool. The
// pool's dispatcher must have MarkdownHandler registered for
// bus.KindRenderMarkdown.
func NewWorkerRenderer(pool *bus.WorkerPool) *WorkerRenderer {
	if pool == nil {
		panic("pool cannot be nil")
	}
	return &WorkerRenderer{pool: pool}
}

// Render implements Renderer.
func (r *WorkerRenderer) Render(ctx context.Context, title string, sections []string) (string, error) {
	result, err := r.pool.Call(ctx, bus.RenderMarkdownPayload{Title: title, Sections: sections})
	if err != nil {
		return "", err
	}

	doc, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("unexpected render result type %T", result)
	}
	return doc, nil
}

// MarkdownHandler is the bus handler for bus.KindRenderMarkdown: it joins
// the payload's sections under a top-level heading.
func MarkdownHandler(_ context.Context, msg bus.Message) (any, error) {
	payload, ok := msg.(bus.RenderMarkdownPayload)
	if !ok {
		return nil, fmt.Errorf("%w: expected render payload, got %T", bus.ErrUnknownKind, msg)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", payload.Title)
	for _, section := range payload.Sections {
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(section, "\n"))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// trackSections builds the markdown sections describing one track.
func trackSections(track *domain.StudyTrack, resourcesByID map[string]*domain.Resource) []string {
	sections := []string{}

	var overview strings.Builder
	if track.Description != "" {
		fmt.Fprintf(&overview, "%s\n\n", track.Description)
	}
	if track.Objective != "" {
		fmt.Fprintf(&overview, "**Objective:** %s\n\n", track.Objective)
	}
	fmt.Fprintf(&overview, "**Difficulty:** %s\n", track.Difficulty)
	if len(track.Prerequisites) > 0 {
		fmt.Fprintf(&overview, "\n**Prerequisites:**\n")
		for _, p := range track.Prerequisites {
			fmt.Fprintf(&overview, "- %s\n", p)
		}
	}
	sections = append(sections, overview.String())

	if len(track.Milestones) > 0 {
		var milestones strings.Builder
		milestones.WriteString("## Milestones\n\n")
		for _, m := range track.Milestones {
			check := " "
			if m.Completed {
				check = "x"
			}
			fmt.Fprintf(&milestones, "- [%s] %s", check, m.Name)
			if m.Description != "" {
				fmt.Fprintf(&milestones, " — %s", m.Description)
			}
			milestones.WriteString("\n")
		}
		sections = append(sections, milestones.String())
	}

	if len(track.Resources) > 0 {
		var members strings.Builder
		members.WriteString("## Resources\n\n")
		for _, id := range track.Resources {
			if r, ok := resourcesByID[id.String()]; ok {
				fmt.Fprintf(&members, "- [%s](%s)\n", r.Title, r.URL)
			}
		}
		sections = append(sections, members.String())
	}

	return sections
}

// resourceSections builds the aggregate markdown sections for Resources.md.
func resourceSections(resources []*domain.Resource) []string {
	sections := []string{}
	for _, r := range resources {
		var b strings.Builder
		fmt.Fprintf(&b, "## [%s](%s)\n\n", r.Title, r.URL)
		fmt.Fprintf(&b, "- Type: %s\n", r.Type)
		if r.Metadata.Domain != "" {
			fmt.Fprintf(&b, "- Domain: %s\n", r.Metadata.Domain)
		}
		if r.Metadata.WordCount > 0 {
			fmt.Fprintf(&b, "- Words: %d\n", r.Metadata.WordCount)
		}
		fmt.Fprintf(&b, "- Captured: %s\n", r.CreatedAt.Format("2006-01-02"))
		sections = append(sections, b.String())
	}
	return sections
}

// highlightSections builds the aggregate markdown sections for Highlights.md.
func highlightSections(highlights []*domain.Highlight, resourcesByID map[string]*domain.Resource) []string {
	sections := []string{}
	for _, h := range highlights {
		var b strings.Builder
		fmt.Fprintf(&b, "> %s\n", h.Text)
		if h.Note != "" {
			fmt.Fprintf(&b, "\n%s\n", h.Note)
		}
		if r, ok := resourcesByID[h.ResourceID.String()]; ok {
			fmt.Fprintf(&b, "\n— [%s](%s)\n", r.Title, r.URL)
		} else if h.URL != "" {
			fmt.Fprintf(&b, "\n— %s\n", h.URL)
		}
		sections = append(sections, b.String())
	}
	return sections
}

// archiveFileName turns a track name into a safe markdown file name inside
// the archive.
func archiveFileName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		default:
			return -1
		}
	}, name)
	mapped = strings.Trim(mapped, "-")
	if mapped == "" {
		mapped = "track"
	}
	return mapped + ".md"
}
