package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"textend/internal/cache"
)

func newPostsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "posts",
		Short: "List published posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			be, err := openBackend()
			if err != nil {
				return err
			}
			defer be.Close()

			total, err := be.posts.Count()
			if err != nil {
				return err
			}
			posts, err := be.posts.ListPublished(0)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSLUG\tVERSION\tVIEWS\tLIKES")
			for _, p := range posts {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", p.ID, p.Slug, p.Version, p.ViewsNum, p.LikesNum)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d published of %d posts\n", len(posts), total)
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <post id>",
		Short: "Delete a post and its cached render",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid post id: %w", err)
			}

			be, err := openBackend()
			if err != nil {
				return err
			}
			defer be.Close()

			post, err := be.posts.FindByID(id)
			if err != nil {
				return err
			}
			if post == nil {
				return errors.New("post not found")
			}
			if err := be.posts.Delete(id); err != nil {
				return err
			}
			if be.articles != nil {
				be.articles.Invalidate(cmd.Context(), cache.ArticleKey(post.Slug, post.Version))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted /%s\n", post.Slug)
			return nil
		},
	}
}

func newPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Drop every cached article render",
		Long: `Removes all rendered bodies from the shared article cache. Run it after
changing options that affect rendering, such as the player endpoint.
Running servers keep their in-process copies until restarted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			be, err := openBackend()
			if err != nil {
				return err
			}
			defer be.Close()

			if be.articles == nil {
				return errors.New("valkey is not reachable")
			}
			be.articles.InvalidateAll(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "article cache purged")
			return nil
		},
	}
}
