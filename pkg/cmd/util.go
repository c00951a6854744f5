package cmd

import (
	"github.com/spf13/cobra"

	"github.com/overcooked-ai/demo2image/pkg/api"
)

// AddCommonFlags adds the flags shared by the build and generate commands.
func AddCommonFlags(c *cobra.Command, cfg *api.Config) {
	c.Flags().BoolVarP(&(cfg.Quiet), "quiet", "q", false,
		"Operate quietly. Suppress all non-error output.")
	c.Flags().VarP(&(cfg.Profile), "profile", "p",
		"Specify the deployment profile (development or production)")
	c.Flags().StringVarP(&(cfg.OvercookedBranch), "branch", "b", "",
		"Specify the branch or tag of the simulation repository to clone (required)")
	c.Flags().StringVarP(&(cfg.Graphics), "graphics", "g", "",
		"Specify the graphics bundle filename under the context's graphics directory (required)")
	c.Flags().StringVar(&(cfg.BaseImage), "base-image", "",
		"Override the pinned base image")
	c.Flags().VarP(&(cfg.Environment), "env", "e",
		"Specify a single environment variable in NAME=VALUE format, committed into the image")
	c.Flags().StringVarP(&(cfg.EnvironmentFile), "environment-file", "E", "",
		"Specify the path to the file with environment")
	c.Flags().Var(&(cfg.PullPolicy), "pull-policy",
		"Specify when to pull the base image (always, never or if-not-present)")
	c.Flags().BoolVar(&(cfg.PreserveWorkingDir), "save-temp-dir", false,
		"Save the temporary directory used by the build instead of deleting it")
	c.Flags().BoolVar(&(cfg.CheckBranch), "check-branch", true,
		"Check that the branch exists on the simulation remote before any image work starts")
	c.Flags().StringVar(&(cfg.LabelNamespace), "label-namespace", "",
		"Namespace of the labels set on the output image")
}
