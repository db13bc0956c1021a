// Package detect discovers compiler toolchains on the host by scanning
// executable directories and probing candidates for their version.
package detect

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/quarry-build/quarry/internal/families"
	"github.com/quarry-build/quarry/internal/log"
	"github.com/quarry-build/quarry/internal/platform"
	"github.com/quarry-build/quarry/internal/registry"
)

const defaultMaxWorkers = 8

// Scanner implements registry.Detector by walking PATH-like directory
// lists and probing executables whose names match a supported family.
type Scanner struct {
	prober ToolProber
	info   platform.Info
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithProber replaces the default exec-based prober, mainly for tests.
func WithProber(p ToolProber) ScannerOption {
	return func(s *Scanner) { s.prober = p }
}

// WithPlatform overrides the host platform.
func WithPlatform(info platform.Info) ScannerOption {
	return func(s *Scanner) { s.info = info }
}

// NewScanner builds a scanner for the host platform.
func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{
		prober: &ExecProber{},
		info:   platform.NewHost(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// candidate is one executable that might belong to a compiler family.
type candidate struct {
	family *families.Family
	role   families.Role
	dir    string
	path   string
}

// probeResult is a candidate with its confirmed version.
type probeResult struct {
	candidate
	version string
}

// Detect scans the hint directories (or PATH) and returns declarations
// keyed by providing package name, one per family/version/directory.
func (s *Scanner) Detect(ctx context.Context, opts registry.DetectOptions) (map[string][]registry.ExternalDeclaration, error) {
	runID := uuid.NewString()
	tracer := otel.Tracer("quarry/detect")

	dirs := searchDirs(opts.PathHints)
	ctx, span := tracer.Start(ctx, "detect.scan", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.Int("dirs", len(dirs)),
	))
	defer span.End()

	log.Info(log.CatDetect, "scanning for compilers", "run", runID, "dirs", len(dirs))

	candidates := s.collectCandidates(dirs)
	results := s.probeAll(ctx, tracer, candidates, opts.MaxWorkers)
	span.SetAttributes(
		attribute.Int("candidates", len(candidates)),
		attribute.Int("confirmed", len(results)),
	)

	return s.groupDeclarations(results), ctx.Err()
}

// collectCandidates matches executable basenames against every family
// supported on the platform. Versioned names like "gcc-12" match by
// prefix.
func (s *Scanner) collectCandidates(dirs []string) []candidate {
	var out []candidate
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if !isExecutable(filepath.Join(dir, name), entry) {
				continue
			}
			for _, family := range families.All() {
				if !family.SupportedOn(s.info.Name()) {
					continue
				}
				for _, role := range families.Roles {
					if matchesName(name, family.RoleNames(role)) {
						out = append(out, candidate{
							family: family,
							role:   role,
							dir:    dir,
							path:   filepath.Join(dir, name),
						})
					}
				}
			}
		}
	}
	return out
}

// probeAll confirms candidates concurrently with a bounded worker pool.
// Probe failures drop the candidate quietly; they are expected for
// lookalike executables.
func (s *Scanner) probeAll(ctx context.Context, tracer trace.Tracer, candidates []candidate, maxWorkers int) []probeResult {
	if maxWorkers <= 0 {
		maxWorkers = defaultMaxWorkers
	}

	// One probe per executable path per family; a path can serve several
	// roles within the family.
	type probeKey struct {
		family string
		path   string
	}
	versions := make(map[probeKey]string)
	unique := make(map[probeKey]candidate)
	for _, c := range candidates {
		key := probeKey{c.family.Name, c.path}
		if _, ok := unique[key]; !ok {
			unique[key] = c
		}
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, maxWorkers)
	)
	for key, c := range unique {
		wg.Add(1)
		sem <- struct{}{}
		go func(key probeKey, c candidate) {
			defer wg.Done()
			defer func() { <-sem }()

			probeCtx, probeSpan := tracer.Start(ctx, "detect.probe", trace.WithAttributes(
				attribute.String("family", c.family.Name),
				attribute.String("path", c.path),
			))
			defer probeSpan.End()

			version, err := s.prober.Probe(probeCtx, c.family, c.path)
			if err != nil {
				log.Debug(log.CatDetect, "probe failed",
					"family", c.family.Name, "path", c.path, "error", err.Error())
				return
			}
			probeSpan.SetAttributes(attribute.String("version", version))

			mu.Lock()
			versions[key] = version
			mu.Unlock()
		}(key, c)
	}
	wg.Wait()

	var results []probeResult
	for _, c := range candidates {
		if version, ok := versions[probeKey{c.family.Name, c.path}]; ok {
			results = append(results, probeResult{candidate: c, version: version})
		}
	}
	return results
}

// groupDeclarations folds confirmed probes into one declaration per
// family, version and directory, keyed by the providing package name.
func (s *Scanner) groupDeclarations(results []probeResult) map[string][]registry.ExternalDeclaration {
	type groupKey struct {
		family  string
		version string
		dir     string
	}
	groups := map[groupKey]map[string]string{}
	for _, r := range results {
		key := groupKey{r.family.Name, r.version, r.dir}
		tools := groups[key]
		if tools == nil {
			tools = map[string]string{}
			groups[key] = tools
		}
		switch r.role {
		case families.RoleCC:
			tools["c"] = r.path
		case families.RoleCXX:
			tools["cxx"] = r.path
		case families.RoleF77, families.RoleFC:
			tools["fortran"] = r.path
		}
	}

	keys := make([]groupKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.family != b.family {
			return a.family < b.family
		}
		if a.version != b.version {
			return a.version < b.version
		}
		return a.dir < b.dir
	})

	out := map[string][]registry.ExternalDeclaration{}
	for _, key := range keys {
		pkg := families.PackageNameForFamily(key.family)
		out[pkg] = append(out[pkg], registry.ExternalDeclaration{
			Spec:   pkg + "@" + key.version,
			Prefix: filepath.Dir(key.dir),
			ExtraAttributes: registry.ExtraAttributes{
				Compilers: groups[key],
			},
		})
	}
	return out
}

// searchDirs expands the hint list, defaulting to PATH, and drops
// duplicates while keeping order.
func searchDirs(hints []string) []string {
	if len(hints) == 0 {
		hints = filepath.SplitList(os.Getenv("PATH"))
	}
	seen := map[string]bool{}
	var out []string
	for _, dir := range hints {
		dir = filepath.Clean(dir)
		if dir == "." || seen[dir] {
			continue
		}
		seen[dir] = true
		out = append(out, dir)
	}
	return out
}

// matchesName checks a basename against a family's recognized names,
// accepting versioned variants like "gcc-12" and Windows ".exe"
// suffixes.
func matchesName(name string, roleNames []string) bool {
	name = strings.TrimSuffix(name, ".exe")
	for _, known := range roleNames {
		if name == known || strings.HasPrefix(name, known+"-") {
			return true
		}
	}
	return false
}

func isExecutable(path string, entry os.DirEntry) bool {
	if runtime.GOOS == "windows" {
		return strings.HasSuffix(strings.ToLower(path), ".exe") ||
			strings.HasSuffix(strings.ToLower(path), ".bat")
	}
	info, err := entry.Info()
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode()&0o111 != 0
}
