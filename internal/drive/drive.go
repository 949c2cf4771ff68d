// Package drive turns Google Drive share links into direct-download links.
//
// The transformation is purely syntactic: the file id is taken from the
// first /d/<id> path segment and substituted into a fixed template. Nothing
// checks that the file exists.
package drive

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Template renders the direct-download URL for a file id
type Template string

const (
	// TemplateUC is the default download endpoint
	TemplateUC Template = "https://drive.google.com/uc?export=download&id=%s"
	// TemplateUserContent is the usercontent host endpoint. It is only used
	// when selected explicitly.
	TemplateUserContent Template = "https://drive.usercontent.google.com/download?id=%s&export=download"
)

// ErrNotShareLink is returned by ConvertStrict for input without a /d/<id> segment
var ErrNotShareLink = errors.New("not a Google Drive share link")

// ValidationAlert is the operator-facing message for ErrNotShareLink
const ValidationAlert = "올바른 Google Drive 링크를 입력하세요."

var shareIDPattern = regexp.MustCompile(`/d/([^/]+)`)

// ParseTemplate maps a configuration name to a Template
func ParseTemplate(name string) (Template, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "uc":
		return TemplateUC, nil
	case "usercontent":
		return TemplateUserContent, nil
	default:
		return "", fmt.Errorf("unknown drive template %q", name)
	}
}

// Converter converts share links using one template
type Converter struct {
	tmpl Template
}

func NewConverter(tmpl Template) *Converter {
	if tmpl == "" {
		tmpl = TemplateUC
	}
	return &Converter{tmpl: tmpl}
}

func (c *Converter) Template() Template {
	return c.tmpl
}

// FileID extracts the id from the first /d/<id> segment
func FileID(link string) (string, bool) {
	m := shareIDPattern.FindStringSubmatch(link)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// Convert returns the direct-download link, or "" and false when link is
// not a share link.
func (c *Converter) Convert(link string) (string, bool) {
	id, ok := FileID(link)
	if !ok {
		return "", false
	}
	return fmt.Sprintf(string(c.tmpl), id), true
}

// ConvertStrict is Convert for an explicit convert action
func (c *Converter) ConvertStrict(link string) (string, error) {
	if strings.TrimSpace(link) == "" {
		return "", fmt.Errorf("%w: empty input", ErrNotShareLink)
	}
	out, ok := c.Convert(link)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotShareLink, link)
	}
	return out, nil
}

// Link pairs a share link with its conversion
type Link struct {
	Original  string
	Converted string
}

// NewLink converts original reactively; Converted is empty on no match
func (c *Converter) NewLink(original string) Link {
	converted, _ := c.Convert(original)
	return Link{Original: original, Converted: converted}
}
