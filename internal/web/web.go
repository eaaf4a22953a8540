// Package web holds the server-rendered pages and their static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/Amie-dev/cloudinary-saas/internal/domain"
	"github.com/Amie-dev/cloudinary-saas/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page template names.
const (
	PageLanding     = "landing.html"
	PageSignIn      = "signin.html"
	PageSignUp      = "signup.html"
	PageHome        = "home.html"
	PageVideoUpload = "video_upload.html"
	PageSocialShare = "social_share.html"
)

// MaxClientVideoBytes is the size limit the upload form enforces before sending.
const MaxClientVideoBytes = 70 << 20

// PageData is the model every page renders from; each page reads the fields it needs.
type PageData struct {
	Title    string
	SignedIn bool

	// sign-in / sign-up
	ProviderURL string

	// home
	Videos []service.VideoDetail
	Error  string

	// video upload
	MaxBytes int

	// social share
	Formats       []domain.SocialFormat
	DefaultFormat string
}

// Templates parses every page and shared partial into one set.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

// Static serves the files under static/.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
