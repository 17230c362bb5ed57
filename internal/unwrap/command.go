package unwrap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rshade/uvwizard/internal/logging"
	"github.com/rshade/uvwizard/internal/scene"
)

const (
	// maxDiagnosticBytes bounds the stderr kept as an error diagnostic.
	maxDiagnosticBytes = 4096

	// processWaitDelay is how long to wait for I/O after the tool is killed.
	processWaitDelay = 500 * time.Millisecond
)

// Command errors.
var (
	ErrNoCommand   = errors.New("no unwrap command configured")
	ErrMeshMissing = errors.New("mesh resource not found")
	ErrNilMesh     = errors.New("mesh is nil")
)

// CommandError is returned when the unwrap tool exits unsuccessfully.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// CommandUnwrapper runs an external tool once per mesh.
//
// Args may contain the placeholders {mesh}, {name}, {hard_angle},
// {pack_margin}, {angle_error} and {area_error}. The same values are exported
// to the tool as UVWIZARD_MESH, UVWIZARD_MESH_NAME, UVWIZARD_HARD_ANGLE,
// UVWIZARD_PACK_MARGIN, UVWIZARD_ANGLE_ERROR and UVWIZARD_AREA_ERROR.
type CommandUnwrapper struct {
	Command string
	Args    []string
	Env     map[string]string

	// Timeout bounds a single invocation; zero means no limit.
	Timeout time.Duration
}

// Unwrap implements Unwrapper.
func (c *CommandUnwrapper) Unwrap(ctx context.Context, mesh *scene.Mesh, params Params) error {
	if c.Command == "" {
		return ErrNoCommand
	}
	if mesh == nil {
		return ErrNilMesh
	}
	if _, err := os.Stat(mesh.Path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrMeshMissing, mesh.Path)
		}
		return fmt.Errorf("checking mesh %s: %w", mesh.Path, err)
	}
	if err := params.Validate(); err != nil {
		return err
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	vars := placeholders(mesh, params)
	repl := make([]string, 0, len(vars)*2)
	for _, v := range vars {
		repl = append(repl, "{"+v.key+"}", v.value)
	}
	r := strings.NewReplacer(repl...)

	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = r.Replace(a)
	}

	//nolint:gosec // the command comes from operator configuration
	cmd := exec.CommandContext(ctx, c.Command, args...)
	cmd.WaitDelay = processWaitDelay
	cmd.Env = os.Environ()
	for _, v := range vars {
		cmd.Env = append(cmd.Env, v.env+"="+v.value)
	}
	for k, v := range c.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "unwrap").
		Str("command", c.Command).
		Strs("args", args).
		Str("mesh", mesh.Path).
		Msg("running unwrap command")

	start := time.Now()
	err := cmd.Run()
	if err == nil {
		log.Debug().
			Str("component", "unwrap").
			Str("mesh", mesh.Path).
			Dur("duration", time.Since(start)).
			Msg("unwrap command finished")
		return nil
	}

	if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("unwrap of %s timed out after %s: %w", mesh.Name, c.Timeout, ctx.Err())
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return &CommandError{
		Command:  c.Command,
		ExitCode: exitCode,
		Stderr:   diagnostic(stderr.Bytes()),
		Err:      err,
	}
}

type placeholder struct {
	key   string
	env   string
	value string
}

func placeholders(mesh *scene.Mesh, p Params) []placeholder {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return []placeholder{
		{"mesh", "UVWIZARD_MESH", mesh.Path},
		{"name", "UVWIZARD_MESH_NAME", mesh.Name},
		{"hard_angle", "UVWIZARD_HARD_ANGLE", f(p.HardAngle)},
		{"pack_margin", "UVWIZARD_PACK_MARGIN", f(p.PackMargin)},
		{"angle_error", "UVWIZARD_ANGLE_ERROR", f(p.AngleError)},
		{"area_error", "UVWIZARD_AREA_ERROR", f(p.AreaError)},
	}
}

// diagnostic trims tool stderr down to something fit for a dialog.
func diagnostic(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxDiagnosticBytes {
		s = "..." + s[len(s)-maxDiagnosticBytes:]
	}
	return s
}
