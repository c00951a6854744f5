package constants

const (
	// DefaultNamespace is the namespace of the labels set on the output
	// image when no override is configured.
	DefaultNamespace = "ai.overcooked."

	// KubernetesNamespace is the namespace used for the Kubernetes
	// description and display labels.
	KubernetesNamespace = "io.k8s."

	// KubernetesDescriptionLabel carries the image description.
	KubernetesDescriptionLabel = KubernetesNamespace + "description"

	// KubernetesDisplayNameLabel carries the image display name.
	KubernetesDisplayNameLabel = KubernetesNamespace + "display-name"
)
