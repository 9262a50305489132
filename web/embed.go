// Package web 打包服务端渲染所需的 HTML 模板。
package web

import "embed"

// Templates holds every page template under templates/.
//
//go:embed templates/*.html
var Templates embed.FS
