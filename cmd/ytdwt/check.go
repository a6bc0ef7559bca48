package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/ytdwt-go/internal/domain"
	"github.com/yourusername/ytdwt-go/internal/infrastructure"
)

const versionProbeTimeout = 10 * time.Second

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that yt-dlp is installed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		binary := cfg.YTDLP.Binary
		path, err := infrastructure.LookupExecutable(binary)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			return errSilent
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), versionProbeTimeout)
		defer cancel()

		ytdlpVersion, err := probeVersion(ctx, infrastructure.NewProcessSupervisor(log), path)
		if err != nil {
			ytdlpVersion = "unknown (" + err.Error() + ")"
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderTable(
			[]string{"Binary", "Path", "Version"},
			[][]string{{binary, path, ytdlpVersion}},
			nil,
		))
		return nil
	},
}

// probeVersion runs "<binary> --version" and returns the first stdout line
func probeVersion(ctx context.Context, spawner domain.ProcessSpawner, binary string) (string, error) {
	proc, err := spawner.Spawn(ctx, binary, []string{"--version"})
	if err != nil {
		return "", err
	}

	var firstLine string
	stdout, stderr := proc.Stdout(), proc.Stderr()
	for stdout != nil || stderr != nil {
		select {
		case line, ok := <-stdout:
			if !ok {
				stdout = nil
				continue
			}
			if line.Err != nil {
				_ = proc.Kill()
				return "", &domain.StreamReadError{Stream: domain.StreamStdout, Err: line.Err}
			}
			if firstLine == "" {
				firstLine = line.Text
			}
		case _, ok := <-stderr:
			if !ok {
				stderr = nil
			}
		case <-ctx.Done():
			_ = proc.Kill()
			return "", ctx.Err()
		}
	}

	status, err := proc.Wait()
	if err != nil {
		return "", &domain.ProcessWaitError{Err: err}
	}
	if !status.Success {
		return "", &domain.NonZeroExitError{Status: status}
	}
	return firstLine, nil
}
