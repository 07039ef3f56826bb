package brd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/jisaf/prodflow/pkg/models"
)

// ParseDocument splits generated markdown into a requirements document:
// the first "# " heading becomes the title, text before the first "## "
// heading becomes the overview, and each "## " block becomes a section.
// A response with no headings at all is rejected rather than guessed at.
func ParseDocument(markdown string) (*models.RequirementsDoc, error) {
	doc := &models.RequirementsDoc{Raw: markdown}

	var current *models.Section
	var overview strings.Builder

	scanner := bufio.NewScanner(strings.NewReader(markdown))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "## "):
			if current != nil {
				current.Body = strings.TrimSpace(current.Body)
				doc.Sections = append(doc.Sections, *current)
			}
			current = &models.Section{Heading: strings.TrimSpace(strings.TrimPrefix(line, "## "))}
		case strings.HasPrefix(line, "# ") && doc.Title == "":
			doc.Title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
		case current != nil:
			current.Body += line + "\n"
		default:
			overview.WriteString(line + "\n")
		}
	}
	if current != nil {
		current.Body = strings.TrimSpace(current.Body)
		doc.Sections = append(doc.Sections, *current)
	}
	doc.Overview = strings.TrimSpace(overview.String())

	if doc.Title == "" && len(doc.Sections) == 0 {
		return nil, fmt.Errorf("response contains no markdown headings")
	}
	return doc, nil
}

// Section returns the body of the named section, matching case-insensitively.
func Section(doc *models.RequirementsDoc, heading string) (string, bool) {
	for _, s := range doc.Sections {
		if strings.EqualFold(s.Heading, heading) {
			return s.Body, true
		}
	}
	return "", false
}
