package docker

import (
	"bufio"
	"io"
	"io/ioutil"
	"strings"
	"sync"

	"github.com/docker/docker/pkg/stdcopy"
)

// maxErrorOutput is the maximum length of the error output kept for
// reporting a failed container.
const maxErrorOutput = 1024

// GetImageName checks the image name and adds DefaultTag if tag is missing.
func GetImageName(name string) string {
	_, tag, id := parseRepositoryTag(name)
	if len(tag) == 0 && len(id) == 0 {
		return strings.Join([]string{name, DefaultTag}, ":")
	}
	return name
}

// parseRepositoryTag gets the name, tag or id from an image reference.
func parseRepositoryTag(repos string) (string, string, string) {
	n := strings.Index(repos, "@")
	if n >= 0 {
		parts := strings.Split(repos, "@")
		return parts[0], "", parts[1]
	}
	n = strings.LastIndex(repos, ":")
	if n < 0 {
		return repos, "", ""
	}
	if tag := repos[n+1:]; !strings.Contains(tag, "/") {
		return repos[:n], tag, ""
	}
	return repos, "", ""
}

// demuxContainerStreams copies a multiplexed attach stream into the given
// stdout and stderr writers, keeping the first maxErrorOutput bytes of both
// streams in errOutput for error reporting. The returned channel closes when
// the stream ends.
func demuxContainerStreams(r io.Reader, stdout, stderr io.Writer, errOutput *string) <-chan struct{} {
	if stdout == nil {
		stdout = ioutil.Discard
	}
	if stderr == nil {
		stderr = ioutil.Discard
	}
	limit := &limitWriter{out: errOutput}
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := stdcopy.StdCopy(io.MultiWriter(stdout, limit), io.MultiWriter(stderr, limit), r)
		if err != nil {
			log.V(3).Infof("error while reading container output: %v", err)
		}
	}()
	return done
}

// StreamContainerIO reads lines from the given reader and passes them to the
// given logging function until the reader ends. The returned channel closes
// when the stream is drained.
func StreamContainerIO(r io.Reader, errOutput *string, log func(args ...interface{})) <-chan struct{} {
	c := make(chan struct{})
	go func() {
		reader := bufio.NewReader(r)
		for {
			text, err := reader.ReadString('\n')
			if text != "" {
				log(text)
			}
			if errOutput != nil && len(*errOutput) < maxErrorOutput {
				*errOutput += text
			}
			if err != nil {
				break
			}
		}
		close(c)
	}()
	return c
}

// limitWriter keeps the first maxErrorOutput bytes of what is written through
// it and drops the rest.
type limitWriter struct {
	mutex sync.Mutex
	out   *string
}

func (w *limitWriter) Write(p []byte) (int, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if len(*w.out) < maxErrorOutput {
		*w.out += string(p)
		if len(*w.out) > maxErrorOutput {
			*w.out = (*w.out)[:maxErrorOutput]
		}
	}
	return len(p), nil
}
