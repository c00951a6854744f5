package templates

// Application is a minimal demo server honoring the runtime contract of the
// assembled image.
const Application = `# {{.ImageName}}
import json
import os

from flask import Flask

app = Flask(__name__)

with open(os.environ.get("CONF_PATH", "config.json")) as f:
    CONFIG = json.load(f)


@app.route("/")
def index():
    return "{{.ImageName}} is running"


if __name__ == "__main__":
    app.run(host=os.environ.get("HOST", "0.0.0.0"),
            port=int(os.environ.get("PORT", "5000")))
`

// Requirements is the seed dependency manifest.
const Requirements = `flask
`

// Config is the seed application configuration.
const Config = `{
    "layouts": ["cramped_room"],
    "MAX_GAMES": 10
}
`

// Graphics is a placeholder graphics bundle; real bundles are dropped under
// graphics/ and selected at build time with --graphics.
const Graphics = `// {{.ImageName}} default graphics bundle
var graphics_start = function(config) {};
var graphics_end = function() {};
`

// IgnoreFile seeds the ignore file so editor and VCS litter stays out of the
// image.
const IgnoreFile = `# files excluded from the image
.git
*.swp
`
