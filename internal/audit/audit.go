// Package audit runs static structural checks against a built page.
package audit

import (
	"bytes"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/afero"
)

type Finding struct {
	Check   string
	Message string
}

func (f Finding) String() string {
	return f.Check + ": " + f.Message
}

var ogProperties = []string{"og:title", "og:description", "og:image"}

// Run parses the document at htmlPath and reports every failed check. Local
// references are resolved against the document's directory on fs.
func Run(fs afero.Fs, htmlPath string) ([]Finding, error) {
	data, err := afero.ReadFile(fs, htmlPath)
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	a := auditor{fs: fs, root: filepath.Dir(htmlPath), doc: doc}
	a.checkHead()
	a.checkStructure()
	a.checkImages()
	a.checkAssets()
	a.checkHoneypot()
	return a.findings, nil
}

type auditor struct {
	fs       afero.Fs
	root     string
	doc      *goquery.Document
	findings []Finding
}

func (a *auditor) add(check, format string, args ...any) {
	a.findings = append(a.findings, Finding{Check: check, Message: fmt.Sprintf(format, args...)})
}

func (a *auditor) checkHead() {
	if strings.TrimSpace(a.doc.Find("title").First().Text()) == "" {
		a.add("title", "title is missing or empty")
	}
	if lang, _ := a.doc.Find("html").Attr("lang"); strings.TrimSpace(lang) == "" {
		a.add("lang", "html element has no lang attribute")
	}
	if content, ok := a.doc.Find(`meta[name="description"]`).Attr("content"); !ok || strings.TrimSpace(content) == "" {
		a.add("meta-description", "meta description is missing or empty")
	}
	for _, prop := range ogProperties {
		content, ok := a.doc.Find(fmt.Sprintf(`meta[property=%q]`, prop)).Attr("content")
		if !ok || strings.TrimSpace(content) == "" {
			a.add("ogp", "%s is missing or empty", prop)
		}
	}
}

func (a *auditor) checkStructure() {
	if n := a.doc.Find("h1").Length(); n != 1 {
		a.add("h1", "found %d h1 elements, want exactly 1", n)
	}
	skip := a.doc.Find(`a[href="#main"], a[href^="#skip"], .skip-nav, [class*="skip"]`)
	if skip.Length() == 0 {
		a.add("skip-nav", "no skip navigation link")
	}
}

func (a *auditor) checkImages() {
	a.doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if _, ok := s.Attr("alt"); !ok {
			a.add("img-alt", "%s has no alt attribute", describe(src))
		}
		if strings.TrimSpace(src) == "" {
			a.add("img-src", "img element without src")
			return
		}
		a.checkLocal("img-src", src)
	})
}

func (a *auditor) checkAssets() {
	sheets := a.doc.Find(`link[rel="stylesheet"][href]`)
	if sheets.Length() == 0 {
		a.add("stylesheet", "no stylesheet link")
	}
	sheets.Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		a.checkLocal("stylesheet", href)
	})
	a.doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		a.checkLocal("script", src)
	})
}

// checkHoneypot flags a spam-trap input that a visitor would see. Only
// hiding that is visible in the markup itself is recognised.
func (a *auditor) checkHoneypot() {
	a.doc.Find(`input[name="website"]`).Each(func(_ int, s *goquery.Selection) {
		if !hiddenInMarkup(s) {
			a.add("honeypot", "input[name=website] is not hidden")
		}
	})
}

func (a *auditor) checkLocal(check, ref string) {
	rel, ok := localPath(ref)
	if !ok {
		return
	}
	full := filepath.Join(a.root, filepath.FromSlash(rel))
	if exists, _ := afero.Exists(a.fs, full); !exists {
		a.add(check, "%s does not exist", ref)
	}
}

// localPath returns the document-relative file path for ref, or false when
// ref points off-site or carries inline data.
func localPath(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "//") || strings.HasPrefix(ref, "#") {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	p := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
	if p == "" {
		return "", false
	}
	return p, true
}

func hiddenInMarkup(s *goquery.Selection) bool {
	if t, _ := s.Attr("type"); strings.EqualFold(t, "hidden") {
		return true
	}
	for node := s; node.Length() > 0; node = node.Parent() {
		if _, ok := node.Attr("hidden"); ok {
			return true
		}
		if v, _ := node.Attr("aria-hidden"); v == "true" {
			return true
		}
		style, _ := node.Attr("style")
		style = strings.ReplaceAll(strings.ToLower(style), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return true
		}
		class, _ := node.Attr("class")
		if strings.Contains(strings.ToLower(class), "honeypot") {
			return true
		}
	}
	return false
}

func describe(src string) string {
	if src == "" {
		return "img"
	}
	return "img " + src
}
