// demo2image (`d2i`) is a tool for building the runnable container image of
// the Overcooked-AI web demo. `d2i` produces a ready-to-run image by staging
// the demo's assets and dependency manifest, fetching a pinned revision of the
// overcooked_ai simulation package, and committing an image that starts the
// demo server with `docker run`.
package demo2image
