package response

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
	)

	templates = template.Must(template.New("").Funcs(template.FuncMap{
		"markdown": RenderMarkdown,
	}).ParseFS(templateFS, "templates/*.html"))
)

// Article is implemented by payloads whose body is Markdown, e.g. posts.
// The browsable view renders them below the raw JSON.
type Article interface {
	ArticleTitle() string
	ArticleMarkdown() string
}

type articleView struct {
	Title   string
	Content string
}

type browsablePage struct {
	Method   string
	Path     string
	Status   int
	JSON     string
	Articles []articleView
}

// WantsHTML reports whether the client prefers text/html over JSON.
func WantsHTML(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML
}

// Render writes obj as JSON, or as the browsable HTML page when the client asks for HTML.
func Render(c *gin.Context, status int, obj interface{}) {
	if !WantsHTML(c) {
		c.JSON(status, obj)
		return
	}

	pretty, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		c.JSON(status, obj)
		return
	}

	page := browsablePage{
		Method:   c.Request.Method,
		Path:     c.Request.URL.RequestURI(),
		Status:   status,
		JSON:     string(pretty),
		Articles: collectArticles(obj),
	}
	c.Render(status, render.HTML{Template: templates, Name: "browsable.html", Data: page})
}

// LoginForm renders the HTML login page.
func LoginForm(c *gin.Context, status int, action, errMsg string) {
	c.Render(status, render.HTML{
		Template: templates,
		Name:     "login.html",
		Data: gin.H{
			"Action": action,
			"Error":  errMsg,
		},
	})
}

// RenderMarkdown converts Markdown to HTML. Raw HTML in the source is escaped.
func RenderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

func collectArticles(obj interface{}) []articleView {
	if r, ok := obj.(Response); ok {
		obj = r.Data
	}
	if a, ok := obj.(Article); ok {
		return []articleView{{Title: a.ArticleTitle(), Content: a.ArticleMarkdown()}}
	}

	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Slice {
		return nil
	}
	var out []articleView
	for i := 0; i < v.Len(); i++ {
		if a, ok := v.Index(i).Interface().(Article); ok {
			out = append(out, articleView{Title: a.ArticleTitle(), Content: a.ArticleMarkdown()})
		}
	}
	return out
}
