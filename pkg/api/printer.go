package api

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// PrintObj prints the Config in a tabbed, human-readable form.
func (c *Config) PrintObj() string {
	out, err := tabbedString(func(out io.Writer) error {
		fmt.Fprintf(out, "Base Image:\t%s\n", c.BaseImage)
		fmt.Fprintf(out, "Context Directory:\t%s\n", c.ContextDir)
		fmt.Fprintf(out, "Output Image Tag:\t%s\n", c.Tag)
		fmt.Fprintf(out, "Profile:\t%s\n", c.Profile)
		fmt.Fprintf(out, "Overcooked Branch:\t%s\n", c.OvercookedBranch)
		fmt.Fprintf(out, "Graphics Bundle:\t%s\n", c.Graphics)
		printEnv(out, c.Environment)
		if len(c.EnvironmentFile) > 0 {
			fmt.Fprintf(out, "Environment File:\t%s\n", c.EnvironmentFile)
		}
		fmt.Fprintf(out, "Quiet:\t%s\n", printBool(c.Quiet))
		if len(c.AsDockerfile) > 0 {
			fmt.Fprintf(out, "Output Dockerfile:\t%s\n", c.AsDockerfile)
		}
		if len(c.WithBuilder) > 0 {
			fmt.Fprintf(out, "External Builder:\t%s\n", c.WithBuilder)
		}
		if len(c.WorkingDir) > 0 {
			fmt.Fprintf(out, "Workdir:\t%s\n", c.WorkingDir)
		}
		if c.DockerConfig != nil {
			fmt.Fprintf(out, "Docker Endpoint:\t%s\n", c.DockerConfig.Endpoint)
		}
		return nil
	})
	if err != nil {
		fmt.Printf("ERROR: %v", err)
	}
	return out
}

func printEnv(out io.Writer, env EnvironmentList) {
	if len(env) == 0 {
		return
	}
	fmt.Fprintf(out, "Environment:\t%s\n", strings.Join(env.AsStrings(), ","))
}

func printBool(b bool) string {
	if b {
		return "\033[1menabled\033[0m"
	}
	return "disabled"
}

func tabbedString(f func(io.Writer) error) (string, error) {
	out := new(tabwriter.Writer)
	buf := &bytes.Buffer{}
	out.Init(buf, 0, 8, 1, '\t', 0)

	err := f(out)
	if err != nil {
		return "", err
	}

	out.Flush()
	return buf.String(), nil
}
