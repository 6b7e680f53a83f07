package video

import (
	"fmt"
	"strings"
)

// Link is one YouTube entry in the session's video library.
type Link struct {
	URL       string
	ID        string
	Title     string
	Thumbnail string
}

const thumbnailTemplate = "https://img.youtube.com/vi/%s/maxresdefault.jpg"

// ExtractID pulls the video identifier out of a pasted YouTube URL.
// Two shapes are recognized: the long form (.../watch?v=<id>[&...]) and the
// short form (youtu.be/<id>[?...]). Anything else yields "".
func ExtractID(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	if idx := strings.Index(url, "youtu.be/"); idx >= 0 {
		id := url[idx+len("youtu.be/"):]
		if q := strings.IndexAny(id, "?&"); q >= 0 {
			id = id[:q]
		}
		return strings.TrimSuffix(id, "/")
	}
	if strings.Contains(url, "youtube.com/watch") {
		idx := strings.Index(url, "v=")
		if idx < 0 {
			return ""
		}
		id := url[idx+len("v="):]
		if amp := strings.IndexAny(id, "&#"); amp >= 0 {
			id = id[:amp]
		}
		return id
	}
	return ""
}

// ParseError reports one rejected line from a multi-line paste.
type ParseError struct {
	Line int
	URL  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: unrecognized video URL %q", e.Line, e.URL)
}

// ParseLinks splits a pasted blob into candidate URLs, one per non-empty
// line. Each line is classified independently: valid lines become Links,
// invalid lines become ParseErrors, and neither outcome aborts the rest.
func ParseLinks(text string) ([]Link, []*ParseError) {
	var links []Link
	var errs []*ParseError
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		id := ExtractID(line)
		if id == "" {
			errs = append(errs, &ParseError{Line: i + 1, URL: line})
			continue
		}
		links = append(links, Link{
			URL:       line,
			ID:        id,
			Thumbnail: fmt.Sprintf(thumbnailTemplate, id),
		})
	}
	return links, errs
}

// Collection is the ordered video list, unique by video id.
type Collection struct {
	links []Link
}

// Add inserts a link unless its id is already present. The title is assigned
// at insertion time from the current count, so titles are not renumbered by
// later removals.
func (c *Collection) Add(link Link) bool {
	for _, existing := range c.links {
		if existing.ID == link.ID {
			return false
		}
	}
	if link.Title == "" {
		link.Title = fmt.Sprintf("Video %d", len(c.links)+1)
	}
	c.links = append(c.links, link)
	return true
}

// Remove drops the link at index. Out-of-range indexes are ignored.
func (c *Collection) Remove(index int) {
	if index < 0 || index >= len(c.links) {
		return
	}
	c.links = append(c.links[:index], c.links[index+1:]...)
}

// Len reports how many links are stored.
func (c *Collection) Len() int { return len(c.links) }

// At returns the link at index.
func (c *Collection) At(index int) Link { return c.links[index] }

// All returns a copy of the stored links in insertion order.
func (c *Collection) All() []Link {
	return append([]Link(nil), c.links...)
}
