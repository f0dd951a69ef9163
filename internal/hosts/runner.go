// Package hosts runs commands on test hosts and selects hosts by role.
package hosts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/input-output-hk/catalyst-forge-libs/executor"

	"github.com/ethanolivertroy/modinstall/internal/models"
)

// Result holds the output of a command run on a host
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes commands on hosts
type Runner interface {
	// Run executes command on host and returns its output. A non-zero exit
	// status is reported as an error alongside the result.
	Run(ctx context.Context, host models.Host, command []string) (*Result, error)

	// Copy transfers the local path src to dst on host
	Copy(ctx context.Context, host models.Host, src, dst string, protocol string) error
}

// SSHRunner runs commands over ssh, or locally for hosts without an
// address or addressed as localhost.
type SSHRunner struct {
	// SSHOptions are passed to every ssh/scp invocation
	SSHOptions []string
	Log        logr.Logger
}

// NewSSHRunner creates a runner with batch-mode ssh options
func NewSSHRunner(log logr.Logger) *SSHRunner {
	return &SSHRunner{
		SSHOptions: []string{"-o", "BatchMode=yes", "-o", "StrictHostKeyChecking=no"},
		Log:        log,
	}
}

// Run implements Runner
func (r *SSHRunner) Run(ctx context.Context, host models.Host, command []string) (*Result, error) {
	if len(command) == 0 {
		return nil, errors.New("empty command")
	}

	var program string
	var args []string
	if isLocal(host) {
		program, args = command[0], command[1:]
	} else {
		program = "ssh"
		args = append(append([]string{}, r.SSHOptions...), target(host))
		args = append(args, remoteCommand(command))
	}

	return r.exec(ctx, host, program, args)
}

// Copy implements Runner
func (r *SSHRunner) Copy(ctx context.Context, host models.Host, src, dst string, protocol string) error {
	var program string
	var args []string

	dest := dst
	if !isLocal(host) {
		dest = target(host) + ":" + dst
	}

	switch protocol {
	case "rsync":
		program = "rsync"
		args = []string{"-a", "--delete", "--exclude", ".git"}
		if !isLocal(host) {
			args = append(args, "-e", "ssh "+strings.Join(r.SSHOptions, " "))
		}
		args = append(args, src+"/", dest+"/")
	case "scp", "":
		if isLocal(host) {
			program = "cp"
			args = []string{"-R", src, dest}
		} else {
			program = "scp"
			args = append(append([]string{"-r"}, r.SSHOptions...), src, dest)
		}
	default:
		return fmt.Errorf("unsupported copy protocol %q", protocol)
	}

	_, err := r.exec(ctx, host, program, args)
	return err
}

func (r *SSHRunner) exec(ctx context.Context, host models.Host, program string, args []string) (*Result, error) {
	r.Log.V(1).Info("running command", "host", host.Name, "program", program, "args", args)

	res, err := executor.New(program, args...).Execute(ctx, executor.SilentMode())
	result := &Result{ExitCode: -1}
	if res != nil {
		result.Stdout = res.Stdout
		result.Stderr = res.Stderr
		result.ExitCode = res.ExitCode
	}

	if err != nil {
		return result, fmt.Errorf("%s on %s failed (exit %d): %w: %s",
			program, host.Name, result.ExitCode, err, result.Stderr)
	}

	return result, nil
}

// remoteCommand quotes command for the remote login shell, which re-splits
// whatever ssh sends it.
func remoteCommand(command []string) string {
	quoted := make([]string, len(command))
	for i, arg := range command {
		quoted[i] = "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
	}
	return strings.Join(quoted, " ")
}

func isLocal(host models.Host) bool {
	return host.Address == "" || host.Address == "localhost" || host.Address == "127.0.0.1"
}

func target(host models.Host) string {
	if host.User == "" {
		return host.Address
	}
	return host.User + "@" + host.Address
}
