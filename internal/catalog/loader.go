package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/asmtree/internal/ctxlog"
	"github.com/specialistvlad/asmtree/internal/fsutil"
	"github.com/specialistvlad/asmtree/internal/metadata"
)

// Extension is the file extension of catalog files.
const Extension = ".hcl"

// Loader reads catalog files into assemblies.
type Loader struct {
	jobs int
}

// NewLoader creates a loader decoding up to jobs files at once. Zero or less
// means GOMAXPROCS.
func NewLoader(jobs int) *Loader {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return &Loader{jobs: jobs}
}

// Load decodes every catalog file found under paths. Directories are searched
// recursively; missing paths are skipped with a warning. The result keeps file
// order (sorted by path) and declaration order within a file.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]*metadata.Assembly, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Catalog loader started.", "path_count", len(paths))

	files, err := findCatalogFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered catalog files.", "count", len(files))
	if len(files) == 0 {
		return nil, nil
	}

	results := make([][]*metadata.Assembly, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(l.jobs, len(files)))
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read catalog file %s: %w", file, err)
			}
			asms, err := Parse(file, src)
			if err != nil {
				return err
			}
			results[i] = asms
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []*metadata.Assembly
	for _, r := range results {
		all = append(all, r...)
	}
	logger.Debug("Catalog loading complete.", "files", len(files), "assemblies", len(all))
	return all, nil
}

// Parse decodes one catalog file. filename is used for diagnostics.
func Parse(filename string, src []byte) ([]*metadata.Assembly, error) {
	// hclparse.Parser caches files and is not safe for concurrent use.
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", filename, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode catalog file %s: %w", filename, diags)
	}

	out := make([]*metadata.Assembly, 0, len(root.Assemblies))
	for _, b := range root.Assemblies {
		asm, err := translateAssembly(b, filename)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		out = append(out, asm)
	}
	return out, nil
}

// findCatalogFiles flattens paths into a sorted, de-duplicated file list.
func findCatalogFiles(ctx context.Context, paths []string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Warn("Catalog path does not exist, skipping.", "path", path)
				continue
			}
			return nil, fmt.Errorf("error accessing catalog path %s: %w", path, err)
		}
		if !info.IsDir() {
			if filepath.Ext(path) == Extension {
				files = append(files, filepath.Clean(path))
			}
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, Extension)
		if err != nil {
			return nil, fmt.Errorf("error searching catalog path %s: %w", path, err)
		}
		files = append(files, found...)
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}
