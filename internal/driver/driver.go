package driver

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Driver orchestrates the compile step used by cmd/rame-run (cmd/rame-cc
// calls RunCompiler directly): an optional call out to
// an external compiler collaborator, producing a RAM text file that
// the caller then parses with the word type it has chosen.
type Driver struct {
	infile       string
	compilerPath string
	optimize     bool
}

// New returns an empty Driver.
func New() *Driver { return &Driver{} }

// Infile sets the source file: RAM text, or (with Compile) a
// higher-level source file for the external compiler.
func (d *Driver) Infile(path string) *Driver {
	d.infile = path
	return d
}

// Compile enables the compile step, invoking the binary at
// compilerPath as the external collaborator.
func (d *Driver) Compile(compilerPath string) *Driver {
	d.compilerPath = compilerPath
	return d
}

// Optimize records whether the drive step is expected to be followed
// by the core optimizer. Drive itself never runs it (that requires a
// concrete word type) and does not read this setting.
func (d *Driver) Optimize(enable bool) *Driver {
	d.optimize = enable
	return d
}

// Drive produces a path to a RAM text file and a cleanup function the
// caller must run once done reading it. If Compile was set, the
// external collaborator is invoked into a fresh temp file; otherwise
// Infile is used as-is and cleanup is a no-op.
func (d *Driver) Drive() (path string, cleanup func(), err error) {
	if d.infile == "" {
		return "", nil, fmt.Errorf("driver: no input file set")
	}
	if d.compilerPath == "" {
		return d.infile, func() {}, nil
	}

	tmp, err := NewTempFile(d.infile)
	if err != nil {
		return "", nil, fmt.Errorf("driver: creating temp file: %w", err)
	}
	if err := RunCompiler(d.compilerPath, d.infile, tmp.Path()); err != nil {
		tmp.Remove()
		return "", nil, err
	}
	return tmp.Path(), func() { tmp.Remove() }, nil
}

// RunCompiler invokes the external compiler collaborator: given input
// path and output path, it must write a RAM text file at out and
// exit 0, or fail with a nonzero status.
func RunCompiler(compilerPath, in, out string) error {
	cmd := exec.Command(compilerPath, in, out)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("compiler %q failed on %q: %w", compilerPath, in, err)
	}
	return nil
}

// TempFile is a temporary RAM-text file associated with a model path
// (its basename seeds the temp file's prefix). Remove must be called
// once the caller is done with it.
type TempFile struct {
	file *os.File
}

// NewTempFile creates a temp file named after model's basename.
func NewTempFile(model string) (*TempFile, error) {
	prefix := filepath.Base(model)
	if ext := filepath.Ext(prefix); ext != "" {
		prefix = prefix[:len(prefix)-len(ext)]
	}
	f, err := os.CreateTemp("", prefix+".*.ram")
	if err != nil {
		return nil, err
	}
	f.Close()
	return &TempFile{file: f}, nil
}

// Path returns the temp file's path.
func (t *TempFile) Path() string { return t.file.Name() }

// Remove deletes the temp file.
func (t *TempFile) Remove() { _ = os.Remove(t.file.Name()) }
