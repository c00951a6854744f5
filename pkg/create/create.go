// Package create bootstraps a new build context with the inputs the
// assembly consumes: the application script, the dependency manifest, the
// config file and the asset directories.
package create

import (
	"bytes"
	"path/filepath"
	"text/template"

	"github.com/overcooked-ai/demo2image/pkg/api/constants"
	"github.com/overcooked-ai/demo2image/pkg/create/templates"
	"github.com/overcooked-ai/demo2image/pkg/util/fs"
	utillog "github.com/overcooked-ai/demo2image/pkg/util/log"
)

var log = utillog.StderrLog

// Bootstrap defines a new build context skeleton.
type Bootstrap struct {
	DestinationDir string
	ImageName      string

	fs fs.FileSystem
}

// New returns a new bootstrap for a given image name and destination
// directory.
func New(fileSystem fs.FileSystem, name, destinationDir string) *Bootstrap {
	return &Bootstrap{fs: fileSystem, ImageName: name, DestinationDir: destinationDir}
}

// AddApplication creates the application script, the dependency manifest and
// the config file.
func (b *Bootstrap) AddApplication() {
	b.addTemplate(constants.AppEntrypoint, templates.Application)
	b.addTemplate(constants.RequirementsFile, templates.Requirements)
	b.addTemplate(constants.ConfigFile, templates.Config)
}

// AddAssets creates the static tree and a placeholder graphics bundle.
func (b *Bootstrap) AddAssets() {
	b.addTemplate(filepath.Join(constants.StaticDir, "js", "placeholder.js"), "")
	b.addTemplate(filepath.Join(constants.GraphicsDir, "default.js"), templates.Graphics)
}

// AddIgnoreFile creates the ignore file.
func (b *Bootstrap) AddIgnoreFile() {
	b.addTemplate(constants.IgnoreFile, templates.IgnoreFile)
}

func (b *Bootstrap) addTemplate(name, tpl string) {
	tmpl := template.Must(template.New(name).Parse(tpl))
	path := filepath.Join(b.DestinationDir, name)
	if err := b.fs.MkdirAll(filepath.Dir(path)); err != nil {
		log.Errorf("Unable to create directory for %s: %v", path, err)
		return
	}
	var buffer bytes.Buffer
	if err := tmpl.Execute(&buffer, b); err != nil {
		log.Errorf("Unable to render template for %s: %v", path, err)
		return
	}
	if b.fs.Exists(path) {
		log.Warningf("Skipping %s, already exists", path)
		return
	}
	if err := b.fs.WriteFile(path, buffer.Bytes()); err != nil {
		log.Errorf("Unable to write %s: %v", path, err)
	}
}
