package app

import (
	"log"
	"mime"
)

// Minimal container images ship without /etc/mime.types, leaving
// mime.TypeByExtension empty for assets the static file server hands
// out. Register the types web/static actually contains.
var staticAssetTypes = map[string]string{
	".css": "text/css; charset=utf-8",
}

func init() {
	for ext, typ := range staticAssetTypes {
		if mime.TypeByExtension(ext) != "" {
			continue
		}
		if err := mime.AddExtensionType(ext, typ); err != nil {
			log.Printf("app: register MIME type %s for %s: %v", typ, ext, err)
		}
	}
}
