package assemble

import (
	"bytes"
	"fmt"

	"github.com/overcooked-ai/demo2image/pkg/api"
	"github.com/overcooked-ai/demo2image/pkg/api/constants"
)

// Script renders the stage commands for the given config as one fail-fast
// shell script, executed in the application directory of the build
// container. The first failing command aborts the whole assembly.
func Script(config *api.Config) (string, error) {
	plan, err := Plan(config)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	buf.WriteString("set -e\n")
	fmt.Fprintf(&buf, "cd %s\n", constants.AppDir)
	for _, stage := range plan {
		if stage.Commands == nil {
			continue
		}
		commands := stage.Commands(config)
		if len(commands) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "echo \"---> Running stage %s ...\"\n", stage.Name)
		for _, command := range commands {
			buf.WriteString(command)
			buf.WriteString("\n")
		}
	}
	return buf.String(), nil
}

// ScriptCommand returns the command line that executes the rendered
// assembly script.
func ScriptCommand(script string) []string {
	return []string{"/bin/sh", "-e", "-c", script}
}
