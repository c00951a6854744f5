package assemble

import (
	"strings"

	"github.com/overcooked-ai/demo2image/pkg/api"
	"github.com/overcooked-ai/demo2image/pkg/api/constants"
	"github.com/overcooked-ai/demo2image/pkg/util"
	utillog "github.com/overcooked-ai/demo2image/pkg/util/log"
)

var log = utillog.StderrLog

// RuntimeContract is the metadata committed into the final image: working
// directory, environment defaults, the exposed port, the startup command and
// the output labels. It only takes effect when a container is started from
// the image.
type RuntimeContract struct {
	WorkingDir   string
	Env          []string
	ExposedPorts []string
	Cmd          []string
	Labels       map[string]string
}

// fixedEnv are the environment defaults the application reads at startup,
// in the order they are committed.
var fixedEnv = []api.EnvironmentSpec{
	{Name: constants.HostEnv, Value: constants.DefaultHost},
	{Name: constants.PortEnv, Value: constants.DefaultPort},
	{Name: constants.ConfPathEnv, Value: constants.ConfigFile},
}

// Contract computes the runtime contract for the given config. Extra
// environment entries from the config are committed first; the fixed
// defaults always win over an entry of the same name.
func Contract(config *api.Config) RuntimeContract {
	reserved := map[string]bool{}
	for _, e := range fixedEnv {
		reserved[e.Name] = true
	}

	env := []string{}
	for _, e := range config.Environment {
		if reserved[e.Name] {
			log.V(0).Infof("warning: ignoring %s=%s, %s is part of the runtime contract", e.Name, e.Value, e.Name)
			continue
		}
		env = append(env, strings.Join([]string{e.Name, e.Value}, "="))
	}
	for _, e := range fixedEnv {
		env = append(env, strings.Join([]string{e.Name, e.Value}, "="))
	}

	return RuntimeContract{
		WorkingDir:   constants.AppDir,
		Env:          env,
		ExposedPorts: []string{constants.ExposedPort},
		Cmd:          constants.Cmd,
		Labels:       util.GenerateOutputImageLabels(config),
	}
}
