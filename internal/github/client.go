// Package github wraps the GitHub API surface the pipeline needs: scanning
// open issues for requirements input and publishing generated artifacts back
// to the repository.
package github

import (
	"context"
	"fmt"
	"sort"

	gh "github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"

	"github.com/jisaf/prodflow/pkg/models"
)

// issuesService is the slice of go-github's issues API the client uses.
type issuesService interface {
	ListByRepo(ctx context.Context, owner, repo string, opts *gh.IssueListByRepoOptions) ([]*gh.Issue, *gh.Response, error)
	CreateComment(ctx context.Context, owner, repo string, number int, comment *gh.IssueComment) (*gh.IssueComment, *gh.Response, error)
}

// gitService is the slice of go-github's git data API the client uses.
type gitService interface {
	GetRef(ctx context.Context, owner, repo, ref string) (*gh.Reference, *gh.Response, error)
	GetCommit(ctx context.Context, owner, repo, sha string) (*gh.Commit, *gh.Response, error)
	CreateBlob(ctx context.Context, owner, repo string, blob *gh.Blob) (*gh.Blob, *gh.Response, error)
	CreateTree(ctx context.Context, owner, repo, baseTree string, entries []*gh.TreeEntry) (*gh.Tree, *gh.Response, error)
	CreateCommit(ctx context.Context, owner, repo string, commit *gh.Commit, opts *gh.CreateCommitOptions) (*gh.Commit, *gh.Response, error)
	UpdateRef(ctx context.Context, owner, repo string, ref *gh.Reference, force bool) (*gh.Reference, *gh.Response, error)
}

// Client talks to one GitHub repository.
type Client struct {
	owner  string
	repo   string
	issues issuesService
	git    gitService
}

// NewClient creates a Client authenticated with a personal access token.
func NewClient(ctx context.Context, token, owner, repo string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("github token is required")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("github owner and repo are required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	api := gh.NewClient(oauth2.NewClient(ctx, ts))

	return &Client{
		owner:  owner,
		repo:   repo,
		issues: api.Issues,
		git:    api.Git,
	}, nil
}

// ScanIssues returns the repository's open issues, optionally filtered by
// labels. Pull requests share the issues API and are skipped.
func (c *Client) ScanIssues(ctx context.Context, labels []string) ([]models.Issue, error) {
	opts := &gh.IssueListByRepoOptions{
		State:       "open",
		Labels:      labels,
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	var issues []models.Issue
	for {
		page, resp, err := c.issues.ListByRepo(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing issues for %s/%s: %w", c.owner, c.repo, err)
		}
		for _, is := range page {
			if is.IsPullRequest() {
				continue
			}
			issue := models.Issue{
				Number: is.GetNumber(),
				Title:  is.GetTitle(),
				Body:   is.GetBody(),
			}
			for _, l := range is.Labels {
				issue.Labels = append(issue.Labels, l.GetName())
			}
			issues = append(issues, issue)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.ListOptions.Page = resp.NextPage
	}

	return issues, nil
}

// PublishComment posts a comment on an issue.
func (c *Client) PublishComment(ctx context.Context, issue int, body string) error {
	comment := &gh.IssueComment{Body: gh.Ptr(body)}
	if _, _, err := c.issues.CreateComment(ctx, c.owner, c.repo, issue, comment); err != nil {
		return fmt.Errorf("commenting on issue #%d: %w", issue, err)
	}
	return nil
}

// PublishArtifacts commits the given files onto branch in a single commit
// using the git data API. Keys are repository-relative paths.
func (c *Client) PublishArtifacts(ctx context.Context, branch string, files map[string]string, message string) error {
	if len(files) == 0 {
		return fmt.Errorf("no files to publish")
	}

	refName := "refs/heads/" + branch
	ref, _, err := c.git.GetRef(ctx, c.owner, c.repo, refName)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", refName, err)
	}
	parentSHA := ref.GetObject().GetSHA()

	parent, _, err := c.git.GetCommit(ctx, c.owner, c.repo, parentSHA)
	if err != nil {
		return fmt.Errorf("loading parent commit %s: %w", parentSHA, err)
	}

	// Deterministic blob order keeps commits reproducible across runs.
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	entries := make([]*gh.TreeEntry, 0, len(paths))
	for _, path := range paths {
		blob, _, err := c.git.CreateBlob(ctx, c.owner, c.repo, &gh.Blob{
			Content:  gh.Ptr(files[path]),
			Encoding: gh.Ptr("utf-8"),
		})
		if err != nil {
			return fmt.Errorf("creating blob for %s: %w", path, err)
		}
		entries = append(entries, &gh.TreeEntry{
			Path: gh.Ptr(path),
			Mode: gh.Ptr("100644"),
			Type: gh.Ptr("blob"),
			SHA:  blob.SHA,
		})
	}

	tree, _, err := c.git.CreateTree(ctx, c.owner, c.repo, parent.GetTree().GetSHA(), entries)
	if err != nil {
		return fmt.Errorf("creating tree: %w", err)
	}

	commit, _, err := c.git.CreateCommit(ctx, c.owner, c.repo, &gh.Commit{
		Message: gh.Ptr(message),
		Tree:    tree,
		Parents: []*gh.Commit{{SHA: gh.Ptr(parentSHA)}},
	}, nil)
	if err != nil {
		return fmt.Errorf("creating commit: %w", err)
	}

	ref.Object.SHA = commit.SHA
	if _, _, err := c.git.UpdateRef(ctx, c.owner, c.repo, ref, false); err != nil {
		return fmt.Errorf("updating %s: %w", refName, err)
	}
	return nil
}
