package detect

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"time"

	"github.com/quarry-build/quarry/internal/families"
)

const (
	defaultVersionArgument = "--version"
	defaultVersionPattern  = `(\d+(\.\d+)+)`
	defaultProbeTimeout    = 10 * time.Second
)

// ToolProber asks a candidate executable which version of a compiler
// family it is.
type ToolProber interface {
	Probe(ctx context.Context, family *families.Family, path string) (string, error)
}

// ExecProber probes by running the executable with the family's version
// argument and matching the family's version pattern against the
// combined output.
type ExecProber struct {
	Timeout time.Duration
}

func (p *ExecProber) Probe(ctx context.Context, family *families.Family, path string) (string, error) {
	timeout := p.Timeout
	if timeout == 0 {
		timeout = defaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	arg := family.VersionArgument
	if arg == "" {
		arg = defaultVersionArgument
	}

	// Some tools print their banner and exit nonzero; output wins over
	// the exit code.
	out, err := exec.CommandContext(ctx, path, arg).CombinedOutput()
	if len(out) == 0 && err != nil {
		return "", fmt.Errorf("probing %s: %w", path, err)
	}

	pattern := family.VersionRegexp
	if pattern == "" {
		pattern = defaultVersionPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("version pattern for %s: %w", family.Name, err)
	}

	match := re.FindStringSubmatch(string(out))
	if match == nil {
		return "", fmt.Errorf("no version in output of %s", path)
	}
	for _, group := range match[1:] {
		if group != "" {
			return group, nil
		}
	}
	return match[0], nil
}
