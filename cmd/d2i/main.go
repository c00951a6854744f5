package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog"

	"github.com/overcooked-ai/demo2image/pkg/api"
	"github.com/overcooked-ai/demo2image/pkg/api/validation"
	"github.com/overcooked-ai/demo2image/pkg/build/strategies"
	cmdutil "github.com/overcooked-ai/demo2image/pkg/cmd"
	"github.com/overcooked-ai/demo2image/pkg/config"
	"github.com/overcooked-ai/demo2image/pkg/create"
	"github.com/overcooked-ai/demo2image/pkg/docker"
	d2ierr "github.com/overcooked-ai/demo2image/pkg/errors"
	"github.com/overcooked-ai/demo2image/pkg/run"
	"github.com/overcooked-ai/demo2image/pkg/util"
	"github.com/overcooked-ai/demo2image/pkg/util/fs"
	utillog "github.com/overcooked-ai/demo2image/pkg/util/log"
	"github.com/overcooked-ai/demo2image/pkg/version"
)

var log = utillog.StderrLog

func newCmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version",
		Long:  "Display version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("d2i %v\n", version.Get())
		},
	}
}

func newCmdBuild(cfg *api.Config) *cobra.Command {
	useConfig := false

	buildCmd := &cobra.Command{
		Use:   "build <context-dir> <tag>",
		Short: "Build the demo image",
		Long:  "Assemble the overcooked demo image from the given build context and tag it.",
		Example: `
# Build a development image from the current directory
$ d2i build . overcooked-demo:dev --branch master --graphics overcooked-graphics.js

# Build a production image, committing the production network server
$ d2i build . overcooked-demo:prod -p production -b master -g overcooked-graphics.js
`,
		Run: func(cmd *cobra.Command, args []string) {
			log.V(1).Infof("Running d2i version %q", version.Get())

			// Attempt to restore the build arguments from the
			// configuration file
			if useConfig {
				config.Restore(cfg)
			}

			// If user specifies the arguments, then we override the
			// stored ones
			if len(args) >= 1 {
				cfg.ContextDir = args[0]
			}
			if len(args) >= 2 {
				cfg.Tag = args[1]
			}

			if len(cfg.PullPolicy) == 0 {
				cfg.PullPolicy = api.DefaultPullPolicy
			}

			if errs := validation.ValidateConfig(cfg); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintf(os.Stderr, "ERROR: %s\n", e)
				}
				fmt.Println()
				cmd.Help()
				os.Exit(1)
			}

			// Persists the current build arguments into .d2ifile
			if useConfig {
				config.Save(cfg)
			}

			if len(cfg.EnvironmentFile) > 0 {
				result, err := util.ReadEnvironmentFile(cfg.EnvironmentFile)
				if err != nil {
					log.Warningf("Unable to read environment file %q: %v", cfg.EnvironmentFile, err)
				} else {
					for name, value := range result {
						cfg.Environment = append(cfg.Environment, api.EnvironmentSpec{Name: name, Value: value})
					}
				}
			}

			if log.Is(2) {
				log.V(2).Infof("\n%s\n", cfg.PrintObj())
			}

			client, err := docker.NewEngineAPIClient(cfg.DockerConfig)
			checkErr(err)

			builder, err := strategies.Strategy(client, cfg)
			checkErr(err)
			result, err := builder.Build(cfg)
			checkErr(err)

			for _, message := range result.Messages {
				log.V(1).Infof(message)
			}

			if cfg.RunImage {
				runner, err := run.New(cfg)
				checkErr(err)
				err = runner.Run(cfg)
				checkErr(err)
			}
		},
	}

	cmdutil.AddCommonFlags(buildCmd, cfg)

	buildCmd.Flags().BoolVar(&(cfg.RunImage), "run", false,
		"Run resulting image as part of invocation of this command")
	buildCmd.Flags().StringVar(&(cfg.AsDockerfile), "as-dockerfile", "",
		"Render the assembly as a Dockerfile at the given path instead of building")
	buildCmd.Flags().StringVar(&(cfg.WithBuilder), "with-builder", "",
		"Build the rendered Dockerfile with an external builder (docker, buildah or podman)")
	buildCmd.Flags().BoolVar(&(useConfig), "use-config", false,
		"Store command line options to .d2ifile")

	return buildCmd
}

func newCmdGenerate(cfg *api.Config) *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate <context-dir> <dockerfile>",
		Short: "Render the assembly as a Dockerfile",
		Long:  "Render the whole assembly pipeline and the runtime contract as a Dockerfile, without talking to a docker daemon.",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 2 {
				cmd.Help()
				os.Exit(1)
			}
			cfg.ContextDir = args[0]
			cfg.AsDockerfile = args[1]
			// the generate command never tags an image; reuse the
			// Dockerfile name so the labels still carry a display name
			if len(cfg.Tag) == 0 {
				cfg.Tag = "overcooked-demo"
			}

			if errs := validation.ValidateConfig(cfg); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintf(os.Stderr, "ERROR: %s\n", e)
				}
				fmt.Println()
				cmd.Help()
				os.Exit(1)
			}

			builder, err := strategies.Strategy(nil, cfg)
			checkErr(err)
			result, err := builder.Build(cfg)
			checkErr(err)
			for _, message := range result.Messages {
				log.V(1).Infof(message)
			}
		},
	}

	cmdutil.AddCommonFlags(generateCmd, cfg)
	return generateCmd
}

func newCmdCreate() *cobra.Command {
	return &cobra.Command{
		Use:   "create <imageName> <destination>",
		Short: "Bootstrap a new build context",
		Long:  "Bootstrap a new build context skeleton for the given image name inside the destination directory",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 2 {
				cmd.Help()
				os.Exit(1)
			}
			b := create.New(fs.NewFileSystem(), args[0], args[1])
			b.AddApplication()
			b.AddAssets()
			b.AddIgnoreFile()
		},
	}
}

func newCmdGenBashCompletion(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "genbashcompletion",
		Short: "Generate Bash completion for the d2i command",
		Long:  "Generate Bash completion for the d2i command into standard output",
		Run: func(cmd *cobra.Command, args []string) {
			var out bytes.Buffer
			root.GenBashCompletion(&out)
			fmt.Print(out.String())
		},
	}
}

// setupLogging makes --loglevel reflect in klog's -v flag
func setupLogging(flags *pflag.FlagSet) {
	klog.InitFlags(flag.CommandLine)

	from := flag.CommandLine
	if fflag := from.Lookup("v"); fflag != nil {
		level := fflag.Value.(*klog.Level)
		loglevelPtr := (*int32)(level)
		flags.Int32Var(loglevelPtr, "loglevel", 0, "Set the level of log output (0-5)")
	}

	flag.CommandLine.Set("logtostderr", "true")
}

func checkErr(err error) {
	if err == nil {
		return
	}
	if e, ok := err.(d2ierr.Error); ok {
		log.Errorf("An error occurred: %v", e)
		log.Errorf("Suggested solution: %v", e.Suggestion)
		if e.Details != nil {
			log.V(1).Infof("Details: %v", e.Details)
		}
		log.Error("If the problem persists file an issue at https://github.com/overcooked-ai/demo2image/issues " +
			"providing us with a log from your build using --loglevel=3")
		os.Exit(e.ErrorCode)
	}
	if e, ok := err.(d2ierr.ContainerError); ok {
		log.Errorf("An error occurred: %v", e)
		log.Errorf("Suggested solution: %v", e.Suggestion)
		os.Exit(e.ErrorCode)
	}
	log.Errorf("An error occurred: %v", err)
	os.Exit(1)
}

func main() {
	// Without this fake command line parse, klog will complain its flags
	// have not been interpreted
	flag.CommandLine.Parse([]string{})

	cfg := &api.Config{Profile: api.ProfileDevelopment}
	d2iCmd := &cobra.Command{
		Use: "d2i",
		Long: "Demo-to-image (d2i) is a tool for assembling the overcooked demo image.\n\n" +
			"A command line interface that installs the demo's dependency stack, fetches and\n" +
			"patches the simulation package and commits the runtime contract into an image.",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	cfg.DockerConfig = docker.GetDefaultDockerConfig()
	d2iCmd.PersistentFlags().StringVarP(&(cfg.DockerConfig.Endpoint), "url", "U", cfg.DockerConfig.Endpoint, "Set the url of the docker socket to use")
	d2iCmd.PersistentFlags().StringVar(&(cfg.DockerConfig.CertFile), "cert", cfg.DockerConfig.CertFile, "Set the path of the docker TLS certificate file")
	d2iCmd.PersistentFlags().StringVar(&(cfg.DockerConfig.KeyFile), "key", cfg.DockerConfig.KeyFile, "Set the path of the docker TLS key file")
	d2iCmd.PersistentFlags().StringVar(&(cfg.DockerConfig.CAFile), "ca", cfg.DockerConfig.CAFile, "Set the path of the docker TLS ca file")
	d2iCmd.PersistentFlags().BoolVar(&(cfg.DockerConfig.UseTLS), "tls", cfg.DockerConfig.UseTLS, "Use TLS to connect to docker; implied by --tlsverify")
	d2iCmd.PersistentFlags().BoolVar(&(cfg.DockerConfig.TLSVerify), "tlsverify", cfg.DockerConfig.TLSVerify, "Use TLS to connect to docker and verify the remote")
	d2iCmd.AddCommand(newCmdVersion())
	d2iCmd.AddCommand(newCmdBuild(cfg))
	d2iCmd.AddCommand(newCmdGenerate(cfg))
	d2iCmd.AddCommand(newCmdCreate())
	setupLogging(d2iCmd.PersistentFlags())

	d2iCmd.AddCommand(newCmdGenBashCompletion(d2iCmd))

	err := d2iCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
