package vcs

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"iconci/internal/fault"
	"iconci/internal/report"
)

const (
	// DefaultMessage is the commit message used when none is configured.
	DefaultMessage = "Updated icons to match format conventions"
	// DefaultRemote is the push target.
	DefaultRemote = "origin"
	// DefaultEmailDomain builds the author email from the actor.
	DefaultEmailDomain = "users.noreply.github.com"
)

// CommitOptions configures CommitChanges.
type CommitOptions struct {
	Actor       string
	Token       string
	Message     string
	EmailDomain string
	Remote      string
	Logger      *zap.Logger
}

func (o CommitOptions) withDefaults() CommitOptions {
	if o.Message == "" {
		o.Message = DefaultMessage
	}
	if o.EmailDomain == "" {
		o.EmailDomain = DefaultEmailDomain
	}
	if o.Remote == "" {
		o.Remote = DefaultRemote
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Result describes what CommitChanges did.
type Result struct {
	Files  []string
	Commit string
}

// CommitChanges stages every modified tracked file, commits it as the actor
// and pushes. With nothing modified it only reports that fact.
func CommitChanges(ctx context.Context, client Client, opts CommitOptions, rep *report.Report) (Result, error) {
	opts = opts.withDefaults()
	actor := strings.TrimSpace(opts.Actor)
	if actor == "" {
		return Result{}, fault.Configf("input required and not supplied: actor")
	}
	if strings.TrimSpace(opts.Token) == "" {
		return Result{}, fault.Configf("input required and not supplied: token")
	}

	files, err := client.Modified()
	if err != nil {
		return Result{}, err
	}
	if len(files) == 0 {
		rep.Heading(":arrow_up: Did not commit any files", 3)
		rep.Raw("Did not commit because there were no changed files.", true)
		opts.Logger.Info("no changes to commit")
		return Result{}, nil
	}

	if err := client.Add(files); err != nil {
		return Result{Files: files}, err
	}
	author := Signature{Name: actor, Email: actor + "@" + opts.EmailDomain}
	hash, err := client.Commit(opts.Message, author)
	if err != nil {
		return Result{Files: files}, err
	}
	opts.Logger.Info("committed", zap.String("commit", hash), zap.Int("files", len(files)))

	if err := client.Push(ctx, opts.Remote, Auth{Username: actor, Token: opts.Token}); err != nil {
		return Result{Files: files, Commit: hash}, err
	}
	opts.Logger.Info("pushed", zap.String("remote", opts.Remote))

	rep.Heading(fmt.Sprintf(":arrow_up: Committed %d %s", len(files), plural(len(files))), 3)
	rep.Raw(fmt.Sprintf("<p>Pushed <code>%s</code> to %s.</p>", short(hash), opts.Remote), true)
	rep.List(files, false)
	return Result{Files: files, Commit: hash}, nil
}

func plural(n int) string {
	if n == 1 {
		return "file"
	}
	return "files"
}

func short(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
