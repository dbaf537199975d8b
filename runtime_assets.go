package refs

import (
	"io/fs"

	"github.com/goliatone/go-refs/pkg/renderers/vanilla"
	"github.com/goliatone/go-refs/pkg/runtime"
)

// RuntimeAssetsFS exposes the browser hydration runtime (refs-runtime.js and
// refs.css) so Go applications can serve it without a build step.
//
// Typical mount:
//
//	mux.Handle("/static/refs/",
//	  http.StripPrefix("/static/refs/",
//	    http.FileServerFS(refs.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	return runtime.AssetsFS()
}

// ComponentAssetsFS exposes the stylesheet and scripts declared by the
// built-in child components.
func ComponentAssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
