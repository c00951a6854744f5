// Package config persists the build arguments of a previous invocation, so a
// rebuild of the same image is a bare "d2i build" in the same directory.
package config

import (
	"encoding/json"
	"io/ioutil"
	"os"

	"github.com/overcooked-ai/demo2image/pkg/api"
	utillog "github.com/overcooked-ai/demo2image/pkg/util/log"
)

var log = utillog.StderrLog

// DefaultConfigPath specifies the default location of the config file.
const DefaultConfigPath = ".d2ifile"

// Config represents the persistent build arguments.
type Config struct {
	Tag        string `json:"tag"`
	Branch     string `json:"branch"`
	Graphics   string `json:"graphics"`
	Profile    string `json:"profile"`
	ContextDir string `json:"contextDir"`
	BaseImage  string `json:"baseImage,omitempty"`
}

// Save persists the build arguments to disk. Failing to save is logged but
// never fails the build that just ran.
func Save(config *api.Config) {
	c := Config{
		Tag:        config.Tag,
		Branch:     config.OvercookedBranch,
		Graphics:   config.Graphics,
		Profile:    string(config.Profile),
		ContextDir: config.ContextDir,
		BaseImage:  config.BaseImage,
	}
	data, err := json.Marshal(c)
	if err != nil {
		log.V(1).Infof("Unable to serialize to %s: %v", DefaultConfigPath, err)
		return
	}
	if err := ioutil.WriteFile(DefaultConfigPath, data, 0644); err != nil {
		log.V(1).Infof("Unable to save %s: %v", DefaultConfigPath, err)
	}
}

// Restore loads the arguments from disk and fills in the fields the command
// line left empty.
func Restore(config *api.Config) {
	data, err := ioutil.ReadFile(DefaultConfigPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.V(1).Infof("Unable to restore %s: %v", DefaultConfigPath, err)
		}
		return
	}
	c := Config{}
	if err := json.Unmarshal(data, &c); err != nil {
		log.V(1).Infof("Unable to parse %s: %v", DefaultConfigPath, err)
		return
	}

	if len(config.Tag) == 0 {
		config.Tag = c.Tag
	}
	if len(config.OvercookedBranch) == 0 {
		config.OvercookedBranch = c.Branch
	}
	if len(config.Graphics) == 0 {
		config.Graphics = c.Graphics
	}
	if len(config.Profile) == 0 && len(c.Profile) > 0 {
		if err := config.Profile.Set(c.Profile); err != nil {
			log.V(1).Infof("Ignoring invalid profile in %s: %v", DefaultConfigPath, err)
		}
	}
	if len(config.ContextDir) == 0 {
		config.ContextDir = c.ContextDir
	}
	if len(config.BaseImage) == 0 {
		config.BaseImage = c.BaseImage
	}
}
