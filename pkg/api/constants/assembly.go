// Package constants includes constants used by the demo image assembly.
package constants

const (
	// DefaultBaseImage is the pinned interpreter runtime. The tag must stay
	// compatible with the runtime-version constraints of the numeric/ML
	// stack pulled in transitively by the dependency manifest.
	DefaultBaseImage = "python:3.8-buster"

	// AppDir is the working directory of the assembled image and the
	// directory the build context is uploaded to.
	AppDir = "/app"

	// AppEntrypoint is the application script started on container launch.
	AppEntrypoint = "app.py"

	// RequirementsFile is the dependency manifest consumed in one pass by
	// the language package installer.
	RequirementsFile = "requirements.txt"

	// ConfigFile is the application configuration copied verbatim into the
	// image.
	ConfigFile = "config.json"

	// StaticDir is the static asset tree copied verbatim into the image.
	StaticDir = "static"

	// GraphicsDir holds the selectable graphics bundle variants.
	GraphicsDir = "graphics"

	// GraphicsTarget is the fixed path the selected graphics bundle is
	// materialized at. The application loads exactly this path at runtime.
	GraphicsTarget = "static/js/graphics.js"

	// ProductionServerPackage is installed only for the production profile.
	ProductionServerPackage = "eventlet"

	// IgnoreFile is the optional file listing context files excluded from
	// the upload, with .dockerignore matching semantics.
	IgnoreFile = ".d2iignore"
)

const (
	// SimulationRepoURL is the external simulation package repository.
	SimulationRepoURL = "https://github.com/HumanCompatibleAI/overcooked_ai.git"

	// SimulationDir is the directory the simulation package is cloned into,
	// relative to AppDir.
	SimulationDir = "overcooked_ai"

	// SimulationExtras is the extras group resolved during the editable
	// install of the simulation package.
	SimulationExtras = "harl"

	// SimulationDataDirFile is the placeholder module inside the simulation
	// package that receives the data directory constant. The append must
	// happen after the clone and before the editable install, because the
	// install imports the module being patched.
	SimulationDataDirFile = "overcooked_ai/src/human_aware_rl/data_dir.py"

	// SimulationDataDirConstant is the name of the patched-in constant.
	SimulationDataDirConstant = "DATA_DIR"

	// SimulationDataDir is the absolute data directory the constant points
	// at, under the simulation's install location.
	SimulationDataDir = "/app/overcooked_ai/src/human_aware_rl/data"
)

const (
	// HostEnv names the listen-address environment default.
	HostEnv = "HOST"

	// PortEnv names the listen-port environment default.
	PortEnv = "PORT"

	// ConfPathEnv names the configuration-path environment default.
	ConfPathEnv = "CONF_PATH"

	// DefaultHost is the committed default listen address.
	DefaultHost = "0.0.0.0"

	// DefaultPort is the committed default listen port.
	DefaultPort = "5000"

	// ExposedPort is the single network port declared on the image.
	ExposedPort = "5000/tcp"
)

// OSPackages is the fixed, minimal set of native packages the assembly
// installs: git for the simulation clone, the GL and glib libraries for the
// rendering stack used transitively by the simulation package.
var OSPackages = []string{"git", "libgl1-mesa-glx", "libglib2.0-0"}

// CompatibilityPins are minimum-version bounds force-installed after the
// dependency manifest, working around a packaging incompatibility between the
// resolved toolchain and the pinned interpreter version. Ordering after the
// manifest install is a correctness requirement.
var CompatibilityPins = []string{"setuptools>=65.5.1", "wheel>=0.38.0"}

// Cmd is the startup command committed into the image. The interpreter runs
// unbuffered so the server logs stream immediately.
var Cmd = []string{"python", "-u", AppEntrypoint}
