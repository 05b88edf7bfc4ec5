// Package web 内嵌页面模板与静态资源，单二进制部署
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates 解析全部页面模板（header/footer 通过 define 复用）
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// Static 返回 static/<dir> 子目录，挂到 /css /js /images
func Static(dir string) (fs.FS, error) {
	return fs.Sub(staticFS, "static/"+dir)
}
