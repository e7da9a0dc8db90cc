package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"iconci/internal/report"
	"iconci/internal/vcs"
)

var commitChangesCmd = &cobra.Command{
	Use:         "commit-changes",
	Short:       "Commit and push icons rewritten by a normalize run",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{boundaryAnnotation: "true"},
	RunE:        runCommitChanges,
}

func init() {
	commitChangesCmd.Flags().String("actor", "", "commit author and push user (input: actor, env: GITHUB_ACTOR)")
	commitChangesCmd.Flags().String("token", "", "access token used to push (input: github_token)")
	commitChangesCmd.Flags().String("message", "", "commit message (input: message)")
	commitChangesCmd.Flags().String("remote", "", "remote to push to (input: remote)")
	commitChangesCmd.Flags().String("dir", "", "directory inside the repository (default: working directory)")
}

func runCommitChanges(cmd *cobra.Command, args []string) error {
	actorFlag, err := cmd.Flags().GetString("actor")
	if err != nil {
		return err
	}
	tokenFlag, err := cmd.Flags().GetString("token")
	if err != nil {
		return err
	}
	messageFlag, err := cmd.Flags().GetString("message")
	if err != nil {
		return err
	}
	remoteFlag, err := cmd.Flags().GetString("remote")
	if err != nil {
		return err
	}
	dirFlag, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}

	return runOperation(cmd, "commit-changes", func(ctx context.Context, rep *report.Report, rc *runContext) error {
		actor, err := rc.src.Required("actor", actorFlag, rc.src.Env("GITHUB_ACTOR"))
		if err != nil {
			return err
		}
		token, err := rc.src.Required("github_token", tokenFlag, "")
		if err != nil {
			return err
		}

		dir := rc.dir
		if dirFlag != "" {
			dir = dirFlag
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(rc.dir, dir)
			}
		}
		client, err := vcs.Open(dir)
		if err != nil {
			return err
		}

		_, err = vcs.CommitChanges(ctx, client, vcs.CommitOptions{
			Actor:       actor,
			Token:       token,
			Message:     rc.src.Value("message", messageFlag, rc.manifest.Commit.Message),
			EmailDomain: rc.manifest.Commit.EmailDomain,
			Remote:      rc.src.Value("remote", remoteFlag, rc.manifest.Commit.Remote),
			Logger:      logger.Named("vcs"),
		}, rep)
		return err
	})
}
