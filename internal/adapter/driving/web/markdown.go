package web

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var (
	mdRenderer    goldmark.Markdown
	htmlSanitizer *bluemonday.Policy

	linkBaseKey  = parser.NewContextKey()
	imageBaseKey = parser.NewContextKey()
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(relativeURLTransformer{}, 100)),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	htmlSanitizer = bluemonday.UGCPolicy()
}

// RenderMarkdown converts a markdown string to sanitized HTML. Relative URLs
// are left as written. Returns empty string for empty input.
func RenderMarkdown(src string) string {
	return RenderReadme(src, "", "")
}

// RenderReadme converts a repository README to sanitized HTML. Relative
// markdown links resolve to the file view of repoURL at branch and relative
// images to its raw content, the way GitHub displays them. Raw HTML tags in
// the README keep their URLs as written. Without repoURL or branch nothing is
// rewritten.
func RenderReadme(src, repoURL, branch string) string {
	if src == "" {
		return ""
	}

	pc := parser.NewContext()
	if repoURL != "" && branch != "" {
		repo := strings.TrimSuffix(repoURL, "/")
		if linkBase, err := url.Parse(repo + "/blob/" + branch + "/"); err == nil {
			pc.Set(linkBaseKey, linkBase)
		}
		if imageBase, err := url.Parse(repo + "/raw/" + branch + "/"); err == nil {
			pc.Set(imageBaseKey, imageBase)
		}
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf, parser.WithContext(pc)); err != nil {
		return htmlSanitizer.Sanitize(src)
	}

	return htmlSanitizer.Sanitize(buf.String())
}

// relativeURLTransformer rewrites relative link and image destinations
// against the bases stored in the parser context.
type relativeURLTransformer struct{}

func (relativeURLTransformer) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) {
	linkBase, _ := pc.Get(linkBaseKey).(*url.URL)
	imageBase, _ := pc.Get(imageBaseKey).(*url.URL)
	if linkBase == nil && imageBase == nil {
		return
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			node.Destination = resolveRelative(linkBase, node.Destination)
		case *ast.Image:
			node.Destination = resolveRelative(imageBase, node.Destination)
		}
		return ast.WalkContinue, nil
	})
}

// resolveRelative resolves dest against base. Absolute URLs, scheme-relative
// URLs and in-page anchors are returned unchanged. A leading slash means the
// repository root.
func resolveRelative(base *url.URL, dest []byte) []byte {
	if base == nil || len(dest) == 0 || dest[0] == '#' {
		return dest
	}

	ref, err := url.Parse(string(dest))
	if err != nil || ref.IsAbs() || ref.Host != "" {
		return dest
	}
	ref.Path = strings.TrimPrefix(ref.Path, "/")

	return []byte(base.ResolveReference(ref).String())
}
