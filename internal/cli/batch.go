package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gogpu/ffshader"
	"github.com/gogpu/ffshader/compile"
	"github.com/gogpu/ffshader/internal/parallel"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// BatchConfig is a batch job file.
//
//	backend: webgpu
//	output: build/shaders
//	workers: 4
//	jobs:
//	  - name: textured
//	    stage: pixel
//	    caps: texture
//	    emit: [source, bytecode, msl]
type BatchConfig struct {
	// Backend overrides --backend for every job without its own backend.
	Backend string `yaml:"backend,omitempty"`

	// Output is the output directory, relative to the config file.
	Output string `yaml:"output"`

	// Workers is the number of jobs run at once. Zero means GOMAXPROCS.
	Workers int `yaml:"workers,omitempty"`

	Jobs []BatchJob `yaml:"jobs"`
}

// BatchJob synthesizes one stage of one capability set.
type BatchJob struct {
	// Name is the output file stem. It defaults to "<stage>_<caps>".
	Name    string   `yaml:"name,omitempty"`
	Backend string   `yaml:"backend,omitempty"`
	Stage   string   `yaml:"stage"`
	Caps    string   `yaml:"caps"`
	Emit    []string `yaml:"emit"`
}

// Emit kinds. Any compile.TranslateLanguages entry is also accepted.
const (
	EmitSource   = "source"
	EmitBytecode = "bytecode"
)

// LoadBatchConfig reads and validates a batch file. Unknown fields are
// rejected and relative output paths are resolved against the file.
func LoadBatchConfig(path string) (*BatchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	var cfg BatchConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse batch file: %w", err)
	}

	if cfg.Output == "" {
		return nil, fmt.Errorf("invalid batch file: output is required")
	}
	if !filepath.IsAbs(cfg.Output) {
		cfg.Output = filepath.Join(filepath.Dir(path), cfg.Output)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("invalid batch file: workers must not be negative")
	}
	if len(cfg.Jobs) == 0 {
		return nil, fmt.Errorf("invalid batch file: jobs list is required and must be non-empty")
	}
	names := make(map[string]int, len(cfg.Jobs))
	for i := range cfg.Jobs {
		if err := cfg.Jobs[i].validate(cfg.Backend); err != nil {
			return nil, fmt.Errorf("invalid batch file: job %d: %w", i, err)
		}
		name := cfg.Jobs[i].Name
		if first, ok := names[name]; ok {
			return nil, fmt.Errorf("invalid batch file: job %d: name %q already used by job %d", i, name, first)
		}
		names[name] = i
	}
	return &cfg, nil
}

// ResolveBackends gives every job without a backend the root backend and
// checks the emit kinds against the backend each job will run on.
func (c *BatchConfig) ResolveBackends(root string) error {
	for i := range c.Jobs {
		j := &c.Jobs[i]
		if j.Backend == "" {
			j.Backend = root
		}
		if !isValidBackend(j.Backend) {
			return fmt.Errorf("job %d: unknown backend %q", i, j.Backend)
		}
		if err := j.checkEmit(); err != nil {
			return fmt.Errorf("job %d: %w", i, err)
		}
	}
	return nil
}

func (j *BatchJob) validate(defaultBackend string) error {
	if j.Backend == "" {
		j.Backend = defaultBackend
	}
	if j.Backend != "" && !isValidBackend(j.Backend) {
		return fmt.Errorf("unknown backend %q", j.Backend)
	}
	stage, set, err := parseTarget(j.Stage, j.Caps)
	if err != nil {
		return err
	}
	if j.Name == "" {
		j.Name = fmt.Sprintf("%s_%s", stage, strings.ReplaceAll(set.String(), "+", "_"))
	}
	if j.Name == "." || j.Name == ".." || filepath.Base(j.Name) != j.Name {
		return fmt.Errorf("name %q is not a file name", j.Name)
	}
	if len(j.Emit) == 0 {
		j.Emit = []string{EmitSource}
	}
	return j.checkEmit()
}

// checkEmit validates the emit kinds. Translations read WGSL, so they need
// the webgpu backend; an unset backend is checked once it is resolved.
func (j *BatchJob) checkEmit() error {
	for _, e := range j.Emit {
		if e != EmitSource && e != EmitBytecode && !slices.Contains(compile.TranslateLanguages, e) {
			return fmt.Errorf("unknown emit kind %q", e)
		}
		if slices.Contains(compile.TranslateLanguages, e) && j.Backend != "" && j.Backend != "webgpu" {
			return fmt.Errorf("emit %q needs the webgpu backend, job runs on %s", e, j.Backend)
		}
	}
	return nil
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "batch <config.yaml>",
		Short: "Run the jobs of a YAML batch file",
		Long: `Run every job of a batch file and write the requested outputs to the
output directory: <name>.wgsl or <name>.hlsl for source, <name>.spv or
<name>.dxbc for bytecode and <name>.<lang> for naga translations. Jobs run
in parallel; results are reported in file order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadBatchConfig(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "load batch", err)
			}
			if err := cfg.ResolveBackends(rootOpts.Backend); err != nil {
				return WrapExitError(ExitCommandError, "load batch", err)
			}
			if cmd.Flags().Changed("jobs") {
				cfg.Workers = workers
			}
			return runBatch(cmd, rootOpts, cfg)
		},
	}
	cmd.Flags().IntVarP(&workers, "jobs", "j", 0, "jobs run at once (0 = GOMAXPROCS)")
	return cmd
}

func runBatch(cmd *cobra.Command, rootOpts *RootOptions, cfg *BatchConfig) error {
	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return WrapExitError(ExitCommandError, "create output directory", err)
	}

	synths := map[string]*ffshader.Synthesizer{}
	defer func() {
		for _, s := range synths {
			s.Close()
		}
	}()
	jobSynths := make([]*ffshader.Synthesizer, len(cfg.Jobs))
	for i, job := range cfg.Jobs {
		s, ok := synths[job.Backend]
		if !ok {
			var err error
			if s, err = rootOpts.synthesizer(job.Backend); err != nil {
				return err
			}
			synths[job.Backend] = s
		}
		jobSynths[i] = s
	}

	pool := parallel.NewPool(cfg.Workers)
	defer pool.Close()

	files := make([][]string, len(cfg.Jobs))
	errs := pool.Run(cmd.Context(), len(cfg.Jobs), func(ctx context.Context, i int) error {
		var err error
		files[i], err = runJob(ctx, jobSynths[i], cfg.Jobs[i], cfg.Output)
		return err
	})

	failed := 0
	for i, job := range cfg.Jobs {
		if errs[i] != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "FAIL %s: %v\n", job.Name, errs[i])
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok   %s: %s\n", job.Name, strings.Join(files[i], " "))
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d jobs failed", failed, len(cfg.Jobs)))
	}
	return nil
}

// runJob runs one job and returns the names of the files it wrote.
func runJob(ctx context.Context, s *ffshader.Synthesizer, job BatchJob, dir string) ([]string, error) {
	stage, set, err := parseTarget(job.Stage, job.Caps)
	if err != nil {
		return nil, err
	}

	var sh *ffshader.Shader
	if slices.Contains(job.Emit, EmitBytecode) {
		if sh, err = s.Create(ctx, stage, set); err != nil {
			return nil, err
		}
	}
	src := ""
	if sh != nil {
		src = sh.Source
	} else if src, err = s.Generate(stage, set); err != nil {
		return nil, err
	}

	sourceExt := ".wgsl"
	if s.Backend().Target != compile.TargetSPIRV {
		sourceExt = ".hlsl"
	}

	var files []string
	write := func(name string, data []byte) error {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return err
		}
		files = append(files, name)
		return nil
	}
	for _, e := range job.Emit {
		switch e {
		case EmitSource:
			err = write(job.Name+sourceExt, []byte(src))
		case EmitBytecode:
			ext := ".spv"
			if sh.Code.Format == compile.FormatDXBC {
				ext = ".dxbc"
			}
			err = write(job.Name+ext, sh.Code.Data)
		default:
			var out string
			if out, err = compile.Translate(src, e, compile.EntryPoint); err == nil {
				err = write(job.Name+"."+e, []byte(out))
			}
		}
		if err != nil {
			return files, err
		}
	}
	return files, nil
}
