package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"textend/internal/cache"
	"textend/internal/models"
	"textend/internal/slug"
)

// publishOptions are the flags of the publish command.
type publishOptions struct {
	title   string
	slug    string
	excerpt string
	format  string
	draft   bool
}

func newPublishCmd() *cobra.Command {
	var opts publishOptions

	cmd := &cobra.Command{
		Use:   "publish <file>",
		Short: "Create or update a post from a file",
		Long: `Stores the file as a post, keyed by slug. An existing post with the
same slug is updated and its version bumped, which retires cached renders.
Database settings come from the same CONFIG_FILE and environment variables
as the server.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			post, err := buildPost(args[0], body, opts)
			if err != nil {
				return err
			}

			be, err := openBackend()
			if err != nil {
				return err
			}
			defer be.Close()

			saved, err := be.posts.Upsert(post)
			if err != nil {
				return err
			}
			if saved.Version > 1 && be.articles != nil {
				be.articles.Invalidate(cmd.Context(), cache.ArticleKey(saved.Slug, saved.Version-1))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s /%s (version %d, %s)\n", saved.ID, saved.Slug, saved.Version, saved.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "post title (default: first heading or file name)")
	cmd.Flags().StringVar(&opts.slug, "slug", "", "URL slug (default: generated from the title)")
	cmd.Flags().StringVar(&opts.excerpt, "excerpt", "", "listing excerpt")
	cmd.Flags().BoolVar(&opts.draft, "draft", false, "store as draft instead of publishing")
	cmd.Flags().StringVar(&opts.format, "format", "markdown", "body format: markdown or html")
	return cmd
}

// buildPost assembles and validates a post from a source file. A leading
// "# " heading supplies the title when --title is absent and is then
// dropped from the body.
func buildPost(path, body string, opts publishOptions) (*models.Post, error) {
	format := models.ParseBodyFormat(opts.format)

	title := strings.TrimSpace(opts.title)
	if title == "" && format == models.BodyFormatMarkdown {
		first, rest, _ := strings.Cut(strings.TrimLeft(body, "\r\n"), "\n")
		if h, found := strings.CutPrefix(strings.TrimSpace(first), "# "); found {
			title = strings.TrimSpace(h)
			body = strings.TrimLeft(rest, "\r\n")
		}
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	s := opts.slug
	if s == "" {
		if s = slug.Generate(title); s == "" {
			return nil, fmt.Errorf("cannot derive a slug from title %q, pass --slug", title)
		}
	}
	if !slug.Valid(s) {
		return nil, fmt.Errorf("invalid slug %q", s)
	}

	p := &models.Post{
		Title:      title,
		Slug:       s,
		Body:       body,
		BodyFormat: format,
		Status:     models.PostStatusPublished,
	}
	if opts.draft {
		p.Status = models.PostStatusDraft
	}
	if opts.excerpt != "" {
		e := opts.excerpt
		p.Excerpt = &e
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
