package util

import (
	"github.com/overcooked-ai/demo2image/pkg/api"
	"github.com/overcooked-ai/demo2image/pkg/api/constants"
	"github.com/overcooked-ai/demo2image/pkg/version"
)

// GenerateOutputImageLabels generates the labels set on the output image,
// based on the assembly Config.
func GenerateOutputImageLabels(config *api.Config) map[string]string {
	labels := map[string]string{}
	namespace := constants.DefaultNamespace
	if len(config.LabelNamespace) > 0 {
		namespace = config.LabelNamespace
	}

	if len(config.Tag) > 0 {
		labels[constants.KubernetesDisplayNameLabel] = config.Tag
	}

	addBuildLabel(labels, "image", config.BaseImage, namespace)
	addBuildLabel(labels, "profile", string(config.Profile), namespace)
	addBuildLabel(labels, "simulation-ref", config.OvercookedBranch, namespace)
	addBuildLabel(labels, "graphics", config.Graphics, namespace)
	addBuildLabel(labels, "builder-version", version.Get(), namespace)
	return labels
}

// addBuildLabel adds a new "*.build.*" label into map when the value of this
// label is not empty
func addBuildLabel(to map[string]string, key, value, namespace string) {
	if len(value) == 0 {
		return
	}
	to[namespace+"build."+key] = value
}
